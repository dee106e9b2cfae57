package projector

import "strings"

// projectToolCallUpdates merges a declarative tool_call snapshot into
// ToolState and, once the item is fully done, re-emits a tool.status
// reflecting that snapshot.
func projectToolCallUpdates(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	item := asObject(ev.Raw, "item")
	if item == nil {
		return nil
	}
	merged := mergeToolCallIntoState(state, item)
	if merged == nil || ev.Kind != "raw_response_event" || ev.RawType != "response.output_item.done" {
		return nil
	}
	ts, ok := state.ToolState[merged.ToolCallID]
	if !ok {
		return nil
	}
	outputIndex := toolScope(merged.ToolCallID, state, ev.Raw)
	if outputIndex == nil {
		return nil
	}
	ie := b.itemEnvelope("tool.status", merged.ToolCallID, *outputIndex, ev.Sequence, nil)
	switch merged.ToolType {
	case ToolTypeFileSearch:
		var notices []StreamNotice
		if len(merged.Notices) > 0 {
			notices = merged.Notices
		}
		ie = b.itemEnvelope("tool.status", merged.ToolCallID, *outputIndex, ev.Sequence, notices)
		return []PublicEvent{ToolStatusEvent{ItemEnvelope: ie, Tool: FileSearchTool{
			ToolType:   ToolTypeFileSearch,
			ToolCallID: merged.ToolCallID,
			Status:     asSearchStatus(merged.Status),
			Queries:    ts.FileSearchQueries,
			Results:    ts.FileSearchResults,
		}}}
	case ToolTypeCodeInterpreter:
		return []PublicEvent{ToolStatusEvent{ItemEnvelope: ie, Tool: CodeInterpreterTool{
			ToolType:      ToolTypeCodeInterpreter,
			ToolCallID:    merged.ToolCallID,
			Status:        asCodeInterpreterStatus(merged.Status),
			ContainerID:   ts.ContainerID,
			ContainerMode: ts.ContainerMode,
		}}}
	case ToolTypeImageGeneration:
		return []PublicEvent{ToolStatusEvent{ItemEnvelope: ie, Tool: ImageGenerationTool{
			ToolType:          ToolTypeImageGeneration,
			ToolCallID:        merged.ToolCallID,
			Status:            asImageGenerationStatus(merged.Status),
			RevisedPrompt:     ts.ImageRevisedPrompt,
			Format:            ts.ImageFormat,
			Size:              ts.ImageSize,
			Quality:           ts.ImageQuality,
			Background:        ts.ImageBackground,
			PartialImageIndex: ts.ImagePartialIndex,
		}}}
	case ToolTypeWebSearch:
		status := merged.Status
		if status == nil {
			status = ts.LastStatus
		}
		resolvedStatus := "completed"
		if status != nil {
			resolvedStatus = asSearchStatus(status)
		}
		ts.LastStatus = &resolvedStatus
		state.LastWebSearchToolCallID = &merged.ToolCallID
		return []PublicEvent{ToolStatusEvent{ItemEnvelope: ie, Tool: WebSearchTool{
			ToolType:   ToolTypeWebSearch,
			ToolCallID: merged.ToolCallID,
			Status:     resolvedStatus,
			Query:      ts.Query,
			Sources:    ts.Sources,
		}}}
	}
	return nil
}

func projectToolStatusRaw(state *ProjectionState, b *eventBuilder, ev *InternalEvent, maxChunkChars int) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}
	toolCallID := asString(ev.Raw, "item_id")
	if toolCallID == nil {
		return nil
	}
	outputIndex := toolScope(*toolCallID, state, ev.Raw)
	ts := state.ToolState[*toolCallID]
	// The status is the raw_type's last segment, e.g.
	// "response.web_search_call.completed" -> "completed".
	statusFragment := ev.RawType[strings.LastIndex(ev.RawType, ".")+1:]

	switch {
	case strings.HasPrefix(ev.RawType, "response.web_search_call."):
		status := asSearchStatus(&statusFragment)
		ts.ToolType = ToolTypeWebSearch
		ts.LastStatus = &status
		setOutputIndexIfMissing(ts, ev.Raw)
		state.LastWebSearchToolCallID = toolCallID
		if outputIndex == nil {
			return nil
		}
		return []PublicEvent{ToolStatusEvent{
			ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, ev.Sequence, nil),
			Tool: WebSearchTool{
				ToolType: ToolTypeWebSearch, ToolCallID: *toolCallID, Status: status, Query: ts.Query, Sources: ts.Sources,
			},
		}}

	case strings.HasPrefix(ev.RawType, "response.file_search_call."):
		status := asSearchStatus(&statusFragment)
		ts.ToolType = ToolTypeFileSearch
		ts.LastStatus = &status
		setOutputIndexIfMissing(ts, ev.Raw)
		if outputIndex == nil {
			return nil
		}
		return []PublicEvent{ToolStatusEvent{
			ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, ev.Sequence, nil),
			Tool: FileSearchTool{
				ToolType: ToolTypeFileSearch, ToolCallID: *toolCallID, Status: status,
				Queries: ts.FileSearchQueries, Results: ts.FileSearchResults,
			},
		}}

	case strings.HasPrefix(ev.RawType, "response.code_interpreter_call."):
		status := asCodeInterpreterStatus(&statusFragment)
		ts.ToolType = ToolTypeCodeInterpreter
		ts.LastStatus = &status
		setOutputIndexIfMissing(ts, ev.Raw)
		if outputIndex == nil {
			return nil
		}
		return []PublicEvent{ToolStatusEvent{
			ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, ev.Sequence, nil),
			Tool: CodeInterpreterTool{
				ToolType: ToolTypeCodeInterpreter, ToolCallID: *toolCallID, Status: status,
				ContainerID: ts.ContainerID, ContainerMode: ts.ContainerMode,
			},
		}}

	case strings.HasPrefix(ev.RawType, "response.image_generation_call."):
		status := asImageGenerationStatus(&statusFragment)
		ts.ToolType = ToolTypeImageGeneration
		ts.LastStatus = &status
		setOutputIndexIfMissing(ts, ev.Raw)
		// Unlike the snapshot-merge path, a raw status frame always
		// overwrites partial_image_index, including clearing it back to
		// nil once a frame no longer carries one.
		ts.ImagePartialIndex = asInt(ev.Raw, "partial_image_index")
		if v := asString(ev.Raw, "revised_prompt"); v != nil {
			ts.ImageRevisedPrompt = v
		}
		if v := asString(ev.Raw, "format"); v != nil {
			ts.ImageFormat = v
		} else if v := asString(ev.Raw, "output_format"); v != nil {
			ts.ImageFormat = v
		}
		if v := asString(ev.Raw, "size"); v != nil {
			ts.ImageSize = v
		}
		if v := asString(ev.Raw, "quality"); v != nil {
			ts.ImageQuality = v
		}
		if v := asString(ev.Raw, "background"); v != nil {
			ts.ImageBackground = v
		}
		var out []PublicEvent
		if outputIndex != nil {
			out = append(out, ToolStatusEvent{
				ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, ev.Sequence, nil),
				Tool: ImageGenerationTool{
					ToolType: ToolTypeImageGeneration, ToolCallID: *toolCallID, Status: status,
					RevisedPrompt: ts.ImageRevisedPrompt, Format: ts.ImageFormat, Size: ts.ImageSize,
					Quality: ts.ImageQuality, Background: ts.ImageBackground, PartialImageIndex: ts.ImagePartialIndex,
				},
			})
		}
		if outputIndex != nil && status == "partial_image" {
			b64 := asString(ev.Raw, "partial_image_b64")
			if b64 == nil {
				b64 = asString(ev.Raw, "b64_json")
			}
			if b64 != nil && *b64 != "" {
				out = append(out, chunkBase64(b, *toolCallID, *outputIndex, ev.Sequence, "tool_call", *toolCallID, "partial_image_b64", ts.ImagePartialIndex, *b64, maxChunkChars)...)
			}
		}
		return out

	case strings.HasPrefix(ev.RawType, "response.mcp_call."):
		if statusFragment != "in_progress" && statusFragment != "completed" && statusFragment != "failed" {
			statusFragment = "in_progress"
		}
		toolName := "unknown"
		if ts.ToolName != nil {
			toolName = *ts.ToolName
		}
		ts.ToolType = ToolTypeMCP
		ts.LastStatus = &statusFragment
		setOutputIndexIfMissing(ts, ev.Raw)
		if outputIndex == nil {
			return nil
		}
		return []PublicEvent{ToolStatusEvent{
			ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, ev.Sequence, nil),
			Tool: McpTool{
				ToolType: ToolTypeMCP, ToolCallID: *toolCallID, Status: statusFragment,
				ToolName: toolName, ServerLabel: ts.ServerLabel,
			},
		}}
	}
	return nil
}

func projectCodeInterpreterCode(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}
	toolCallID := asString(ev.Raw, "item_id")
	if toolCallID == nil {
		return nil
	}
	ts := state.ToolState[*toolCallID]

	switch ev.RawType {
	case "response.code_interpreter_call_code.delta":
		delta := asString(ev.Raw, "delta")
		if delta == nil || *delta == "" {
			return nil
		}
		if ts != nil {
			setOutputIndexIfMissing(ts, ev.Raw)
		}
		outputIndex := toolScope(*toolCallID, state, nil)
		if outputIndex == nil {
			return nil
		}
		return []PublicEvent{ToolCodeDeltaEvent{
			ItemEnvelope: b.itemEnvelope("tool.code.delta", *toolCallID, *outputIndex, ev.Sequence, nil),
			ToolCallID:   *toolCallID,
			Delta:        *delta,
		}}
	case "response.code_interpreter_call_code.done":
		code, ok := ev.Raw["code"].(string)
		if !ok {
			return nil
		}
		if ts != nil {
			setOutputIndexIfMissing(ts, ev.Raw)
		}
		outputIndex := toolScope(*toolCallID, state, nil)
		if outputIndex == nil {
			return nil
		}
		return []PublicEvent{ToolCodeDoneEvent{
			ItemEnvelope: b.itemEnvelope("tool.code.done", *toolCallID, *outputIndex, ev.Sequence, nil),
			ToolCallID:   *toolCallID,
			Code:         code,
		}}
	}
	return nil
}
