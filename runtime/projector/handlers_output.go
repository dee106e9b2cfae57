package projector

var outputItemTypeToToolType = map[string]string{
	"web_search_call":       ToolTypeWebSearch,
	"file_search_call":      ToolTypeFileSearch,
	"code_interpreter_call": ToolTypeCodeInterpreter,
	"image_generation_call": ToolTypeImageGeneration,
	"function_call":         ToolTypeFunction,
	"custom_tool_call":      ToolTypeFunction,
	"mcp_call":              ToolTypeMCP,
}

func projectOutputItems(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}
	var kind string
	switch ev.RawType {
	case "response.output_item.added":
		kind = "output_item.added"
	case "response.output_item.done":
		kind = "output_item.done"
	default:
		return nil
	}
	outputIndex := asInt(ev.Raw, "output_index")
	item := asObject(ev.Raw, "item")
	if outputIndex == nil || item == nil {
		return nil
	}
	itemID := asString(item, "id")
	itemType := asString(item, "type")
	if itemID == nil || itemType == nil {
		return nil
	}

	if toolType, ok := outputItemTypeToToolType[*itemType]; ok {
		if toolCallID := asString(item, "id"); toolCallID != nil {
			ts := state.ToolStateFor(*toolCallID, toolType)
			if ts.OutputIndex == nil {
				ts.OutputIndex = outputIndex
			}
			switch toolType {
			case ToolTypeFunction, ToolTypeMCP:
				if name := asString(item, "name"); name != nil {
					ts.ToolName = name
				} else if ts.ToolName == nil {
					ts.ToolName = asString(item, "tool_name")
				}
				if toolType == ToolTypeMCP {
					if label := asString(item, "server_label"); label != nil {
						ts.ServerLabel = label
					} else if server := asString(item, "server"); server != nil {
						ts.ServerLabel = server
					}
				}
			}
		}
	}

	ie := b.itemEnvelope(kind, *itemID, *outputIndex, ev.Sequence, nil)
	role := asString(item, "role")
	status := asString(item, "status")
	if kind == "output_item.added" {
		return []PublicEvent{OutputItemAddedEvent{ItemEnvelope: ie, ItemType: *itemType, Role: role, Status: status}}
	}
	return []PublicEvent{OutputItemDoneEvent{ItemEnvelope: ie, ItemType: *itemType, Role: role, Status: status}}
}

// applyAttachments folds raw attachment payloads carried on an event into
// the top-level projection state, deduplicating by object id. Only called
// for top-level events — scoped agent-as-tool sub-streams don't carry
// their own attachment list.
func applyAttachments(state *ProjectionState, ev *InternalEvent) {
	for _, raw := range ev.Attachments {
		objectID := asString(raw, "object_id")
		filename := asString(raw, "filename")
		if objectID == nil || filename == nil {
			continue
		}
		if _, seen := state.SeenAttachmentIDs[*objectID]; seen {
			continue
		}
		state.SeenAttachmentIDs[*objectID] = struct{}{}
		state.Attachments = append(state.Attachments, MessageAttachment{
			ObjectID:   *objectID,
			Filename:   *filename,
			MimeType:   asString(raw, "mime_type"),
			SizeBytes:  asInt64(raw, "size_bytes"),
			URL:        asString(raw, "url"),
			ToolCallID: asString(raw, "tool_call_id"),
		})
	}
}
