package projector

import (
	"encoding/json"

	"goa.design/sse-projector/runtime/projector/sanitize"
)

var argumentsDeltaRawTypes = map[string]bool{
	"response.function_call_arguments.delta": true,
	"response.custom_tool_call_input.delta":   true,
	"response.mcp_call_arguments.delta":       true,
}

var argumentsDoneRawTypes = map[string]bool{
	"response.function_call_arguments.done": true,
	"response.custom_tool_call_input.done":   true,
	"response.mcp_call_arguments.done":       true,
}

func safeJSONParse(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil
	}
	return v
}

// projectToolArguments accumulates streamed argument text onto ToolState
// and, once a *.done frame arrives, sanitizes and emits it. agentToolNames
// is the set of tool names the calling workflow has declared as
// agent-as-tool wrappers, used to upgrade a function tool_type to agent.
func projectToolArguments(state *ProjectionState, b *eventBuilder, ev *InternalEvent, agentToolNames map[string]struct{}) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}

	if argumentsDeltaRawTypes[ev.RawType] {
		delta := asString(ev.Raw, "delta")
		toolCallID := asString(ev.Raw, "item_id")
		if delta == nil || *delta == "" || toolCallID == nil {
			return nil
		}
		toolType := argsToolTypeFromRawType(ev.RawType)
		ts := state.ToolStateFor(*toolCallID, toolType)
		ts.ArgumentsText += *delta
		return nil
	}

	if !argumentsDoneRawTypes[ev.RawType] {
		return nil
	}

	toolCallID := asString(ev.Raw, "item_id")
	if toolCallID == nil {
		return nil
	}
	toolType := argsToolTypeFromRawType(ev.RawType)
	ts := state.ToolStateFor(*toolCallID, toolType)

	var argumentsText string
	var toolName string
	if ev.RawType == "response.custom_tool_call_input.done" {
		input, ok := ev.Raw["input"].(string)
		if !ok {
			return nil
		}
		argumentsText = input
		if ts.ToolName != nil {
			toolName = *ts.ToolName
		} else {
			toolName = "unknown"
		}
	} else {
		arguments, ok := ev.Raw["arguments"].(string)
		if !ok {
			return nil
		}
		argumentsText = arguments
		if name := asString(ev.Raw, "name"); name != nil {
			toolName = *name
		} else if ts.ToolName != nil {
			toolName = *ts.ToolName
		} else {
			toolName = "unknown"
		}
	}

	// Step 2: a function tool whose name the workflow declared as an
	// agent-as-tool wrapper is upgraded to the agent tool type. This
	// handler overwrites ToolState.ToolType only while it still holds the
	// function default.
	if toolType == ToolTypeFunction {
		if _, isAgentTool := agentToolNames[toolName]; isAgentTool {
			toolType = ToolTypeAgent
		}
	}
	if ts.ToolType == ToolTypeFunction && toolType != ToolTypeFunction {
		ts.ToolType = toolType
	} else {
		toolType = ts.ToolType
	}

	setOutputIndexIfMissing(ts, ev.Raw)
	outputIndex := toolScope(*toolCallID, state, nil)

	if outputIndex == nil {
		ts.ArgumentsText = argumentsText
		ts.ToolName = &toolName
		if ts.LastStatus == nil {
			inProgress := "in_progress"
			ts.LastStatus = &inProgress
		}
		return nil
	}

	var sanitizedText string
	var sanitizedJSON map[string]any
	var notices []StreamNotice
	if parsed := safeJSONParse(argumentsText); parsed != nil {
		if parsedMap, ok := parsed.(map[string]any); ok {
			sanitized, ns := sanitize.JSON(parsedMap, "arguments_json", 4000)
			if sanitizedMap, ok := sanitized.(map[string]any); ok {
				sanitizedJSON = sanitizedMap
				for _, n := range ns {
					notices = append(notices, StreamNotice(n))
				}
				if encoded, err := json.Marshal(sanitizedMap); err == nil {
					sanitizedText = string(encoded)
				}
			}
		}
	}
	if sanitizedText == "" {
		sanitizedText = argumentsText
	}
	truncated, notice := sanitize.TruncateString(sanitizedText, "arguments_text", 8000)
	sanitizedText = truncated
	if notice != nil {
		notices = append(notices, StreamNotice(*notice))
	}

	ts.ArgumentsText = sanitizedText
	ts.ToolName = &toolName
	previouslyEmitted := ts.LastStatus != nil
	if ts.LastStatus == nil {
		inProgress := "in_progress"
		ts.LastStatus = &inProgress
	}

	var out []PublicEvent
	if toolType == ToolTypeFunction && !previouslyEmitted && *ts.LastStatus == "in_progress" {
		out = append(out, ToolStatusEvent{
			ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, nil, nil),
			Tool: FunctionTool{
				ToolType: ToolTypeFunction, ToolCallID: *toolCallID, Status: "in_progress", Name: toolName,
			},
		})
	} else if toolType == ToolTypeAgent && !previouslyEmitted && *ts.LastStatus == "in_progress" {
		out = append(out, ToolStatusEvent{
			ItemEnvelope: b.itemEnvelope("tool.status", *toolCallID, *outputIndex, nil, nil),
			Tool: AgentTool{
				ToolType: ToolTypeAgent, ToolCallID: *toolCallID, Status: "in_progress", Name: toolName, Agent: ts.AgentName,
			},
		})
	}

	if sanitizedText != "" {
		for _, chunkText := range chunkString(sanitizedText, 2000) {
			out = append(out, ToolArgumentsDeltaEvent{
				ItemEnvelope: b.itemEnvelope("tool.arguments.delta", *toolCallID, *outputIndex, nil, nil),
				ToolCallID:   *toolCallID,
				ToolType:     toolType,
				ToolName:     toolName,
				Delta:        chunkText,
			})
		}
	}

	out = append(out, ToolArgumentsDoneEvent{
		ItemEnvelope:  b.itemEnvelope("tool.arguments.done", *toolCallID, *outputIndex, nil, notices),
		ToolCallID:    *toolCallID,
		ToolType:      toolType,
		ToolName:      toolName,
		ArgumentsText: sanitizedText,
		ArgumentsJSON: sanitizedJSON,
	})
	return out
}

func chunkString(s string, maxChars int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	var parts []string
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
