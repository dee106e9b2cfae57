package projector

import "goa.design/sse-projector/runtime/projector/sanitize"

var runItemTypeToToolType = map[string]string{
	"web_search_call":       ToolTypeWebSearch,
	"file_search_call":      ToolTypeFileSearch,
	"code_interpreter_call": ToolTypeCodeInterpreter,
	"image_generation_call": ToolTypeImageGeneration,
}

func classifyRunItemToolType(runItemName, rawItemType string, inferredName *string) string {
	if runItemName == "mcp_approval_requested" || rawItemType == "mcp_call" {
		return ToolTypeMCP
	}
	if tt, ok := runItemTypeToToolType[rawItemType]; ok {
		return tt
	}
	if inferredName != nil {
		switch *inferredName {
		case ToolTypeWebSearch, ToolTypeFileSearch, ToolTypeCodeInterpreter, ToolTypeImageGeneration:
			return *inferredName
		}
	}
	return ToolTypeFunction
}

// extractURLs walks obj recursively collecting string values found under
// a "url" key, up to limit results, stopping as soon as the cap is hit.
func extractURLs(obj any, limit int, out *[]string) {
	if len(*out) >= limit {
		return
	}
	switch v := obj.(type) {
	case map[string]any:
		for key, val := range v {
			if len(*out) >= limit {
				return
			}
			if key == "url" {
				if s, ok := val.(string); ok && s != "" {
					*out = append(*out, s)
					continue
				}
			}
			extractURLs(val, limit, out)
		}
	case []any:
		for _, item := range v {
			if len(*out) >= limit {
				return
			}
			extractURLs(item, limit, out)
		}
	}
}

func projectRunItemEvent(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "run_item_stream_event" {
		return nil
	}
	switch ev.RunItemName {
	case "tool_called", "tool_output", "mcp_approval_requested":
	default:
		return nil
	}

	rawItem := ev.RunItem
	rawItemType := asStringOr(rawItem, "type", ev.RunItemType)

	var toolCallID *string
	if id := asString(rawItem, "call_id"); id != nil {
		toolCallID = id
	} else if id := asString(rawItem, "id"); id != nil {
		toolCallID = id
	} else {
		toolCallID = ev.ToolCallID
	}
	if toolCallID == nil {
		return nil
	}

	inferredName := toolNameFromRunItem(rawItem)
	var toolName string
	switch {
	case inferredName != nil:
		toolName = *inferredName
	case ev.ToolName != nil:
		toolName = *ev.ToolName
	default:
		if n := asString(rawItem, "name"); n != nil {
			toolName = *n
		} else {
			toolName = "unknown"
		}
	}

	toolType := classifyRunItemToolType(ev.RunItemName, rawItemType, inferredName)
	ts := state.ToolStateFor(*toolCallID, toolType)
	if ts.ToolType == ToolTypeFunction && toolType != ToolTypeFunction {
		ts.ToolType = toolType
	} else {
		toolType = ts.ToolType
	}
	ts.ToolName = &toolName

	if toolType == ToolTypeMCP {
		if label := asString(rawItem, "server_label"); label != nil {
			ts.ServerLabel = label
		} else if server := asString(rawItem, "server"); server != nil {
			ts.ServerLabel = server
		}
	}
	if toolType == ToolTypeWebSearch {
		state.LastWebSearchToolCallID = toolCallID
		if action := asObject(rawItem, "action"); action != nil {
			if q := asString(action, "query"); q != nil {
				ts.Query = q
			}
		}
		if ts.LastStatus == nil {
			if rawStatus := asString(rawItem, "status"); rawStatus != nil {
				ts.LastStatus = rawStatus
			}
		}
	}
	if toolType == ToolTypeFileSearch {
		if queries := asStringSlice(rawItem, "queries"); queries != nil {
			ts.FileSearchQueries = queries
		}
	}

	outputIndex := toolScope(*toolCallID, state, nil)
	if outputIndex == nil {
		return nil
	}
	ie := func(kind string) ItemEnvelope { return b.itemEnvelope(kind, *toolCallID, *outputIndex, ev.Sequence, nil) }

	var out []PublicEvent
	switch ev.RunItemName {
	case "mcp_approval_requested":
		if toolType == ToolTypeMCP && (ts.LastStatus == nil || *ts.LastStatus != "awaiting_approval") {
			status := "awaiting_approval"
			ts.LastStatus = &status
			out = append(out, ToolStatusEvent{ItemEnvelope: ie("tool.status"), Tool: McpTool{
				ToolType: ToolTypeMCP, ToolCallID: *toolCallID, Status: status, ToolName: toolName, ServerLabel: ts.ServerLabel,
			}})
		}
	case "tool_called":
		if toolType == ToolTypeFunction && (ts.LastStatus == nil || *ts.LastStatus != "in_progress") {
			status := "in_progress"
			ts.LastStatus = &status
			out = append(out, ToolStatusEvent{ItemEnvelope: ie("tool.status"), Tool: FunctionTool{
				ToolType: ToolTypeFunction, ToolCallID: *toolCallID, Status: status, Name: toolName,
			}})
		}
		if toolType == ToolTypeMCP && (ts.LastStatus == nil || *ts.LastStatus != "in_progress") {
			status := "in_progress"
			ts.LastStatus = &status
			out = append(out, ToolStatusEvent{ItemEnvelope: ie("tool.status"), Tool: McpTool{
				ToolType: ToolTypeMCP, ToolCallID: *toolCallID, Status: status, ToolName: toolName, ServerLabel: ts.ServerLabel,
			}})
		}
	case "tool_output":
		var output any
		if v, ok := rawItem["output"]; ok {
			output = v
		} else if v, ok := rawItem["content"]; ok {
			output = v
		}

		if toolType == ToolTypeWebSearch && output != nil {
			var urls []string
			extractURLs(output, 50, &urls)
			for _, u := range urls {
				if !containsString(ts.Sources, u) {
					ts.Sources = append(ts.Sources, u)
				}
			}
		}

		if (toolType == ToolTypeFunction || toolType == ToolTypeMCP) && output != nil {
			sanitized, notices := sanitize.JSON(output, "output", 8000)
			projNotices := make([]StreamNotice, 0, len(notices))
			for _, n := range notices {
				projNotices = append(projNotices, StreamNotice(n))
			}
			var toolNoticesArg []StreamNotice
			if len(projNotices) > 0 {
				toolNoticesArg = projNotices
			}
			out = append(out, ToolOutputEvent{
				ItemEnvelope: b.itemEnvelope("tool.output", *toolCallID, *outputIndex, ev.Sequence, toolNoticesArg),
				ToolCallID:   *toolCallID,
				ToolType:     toolType,
				Output:       sanitized,
			})
		}

		switch toolType {
		case ToolTypeFunction:
			status := "completed"
			ts.LastStatus = &status
			out = append(out, ToolStatusEvent{ItemEnvelope: ie("tool.status"), Tool: FunctionTool{
				ToolType: ToolTypeFunction, ToolCallID: *toolCallID, Status: status, Name: toolName,
			}})
		case ToolTypeMCP:
			status := "completed"
			ts.LastStatus = &status
			out = append(out, ToolStatusEvent{ItemEnvelope: ie("tool.status"), Tool: McpTool{
				ToolType: ToolTypeMCP, ToolCallID: *toolCallID, Status: status, ToolName: toolName, ServerLabel: ts.ServerLabel,
			}})
		case ToolTypeWebSearch:
			status := "completed"
			if ts.LastStatus != nil {
				status = asSearchStatus(ts.LastStatus)
			}
			out = append(out, ToolStatusEvent{ItemEnvelope: ie("tool.status"), Tool: WebSearchTool{
				ToolType: ToolTypeWebSearch, ToolCallID: *toolCallID, Status: status, Query: ts.Query, Sources: ts.Sources,
			}})
		}
	}
	return out
}
