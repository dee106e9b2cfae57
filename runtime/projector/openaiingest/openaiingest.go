// Package openaiingest adapts the OpenAI Responses API's streaming event
// union into projector.InternalEvent values. It never inspects the SDK's
// internal JSON representation beyond what's needed to classify an event
// and hand a generic map to the projector's tolerant field extractors —
// the same posture the provider adapter this package is grounded on takes
// toward vendor response shapes it doesn't otherwise care about.
package openaiingest

import (
	"encoding/json"

	"github.com/openai/openai-go/responses"

	"goa.design/sse-projector/runtime/projector"
)

// Adapter is an empty type with no methods; the conversions are the
// package-level Convert* functions. ConvertRaw passes every event through
// as a raw frame whatever its type, so the projector's own handler chain
// decides relevance.
type Adapter struct{}

func toRawMap(v any) map[string]any {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil
	}
	return m
}

// ConvertRaw wraps a response.* streaming frame (anything that isn't a
// run-item, agent-update, or lifecycle/error event) into a
// raw_response_event InternalEvent.
func ConvertRaw(evt responses.ResponseStreamEventUnion) *projector.InternalEvent {
	raw := toRawMap(evt)
	if raw == nil {
		raw = map[string]any{}
	}
	ie := &projector.InternalEvent{
		Kind:    "raw_response_event",
		RawType: evt.Type,
		Raw:     raw,
	}
	if seq, ok := raw["sequence_number"]; ok {
		if f, ok := seq.(float64); ok {
			s := int64(f)
			ie.Sequence = &s
		}
	}
	if annotations, ok := raw["annotations"].([]any); ok {
		out := make([]map[string]any, 0, len(annotations))
		for _, a := range annotations {
			if m, ok := a.(map[string]any); ok {
				out = append(out, m)
			}
		}
		ie.Annotations = out
	}
	return ie
}

// ConvertLifecycle builds a "lifecycle" InternalEvent for service-level
// notifications the Responses API itself doesn't emit (cancellation,
// memory compaction) but this runtime layers on top of the provider
// stream.
func ConvertLifecycle(payload map[string]any) *projector.InternalEvent {
	return &projector.InternalEvent{Kind: "lifecycle", Payload: payload}
}

// ConvertError builds a server-originated "error" InternalEvent, distinct
// from a raw provider error frame (which ConvertRaw already classifies
// via its own raw_type == "error").
func ConvertError(payload map[string]any) *projector.InternalEvent {
	return &projector.InternalEvent{Kind: "error", Payload: payload}
}

// ConvertAgentUpdated builds an "agent_updated_stream_event" InternalEvent
// for an agent-as-tool handoff notification from the orchestration layer.
func ConvertAgentUpdated(newAgent string) *projector.InternalEvent {
	return &projector.InternalEvent{Kind: "agent_updated_stream_event", NewAgent: &newAgent}
}

// ConvertRunItem builds a "run_item_stream_event" InternalEvent from the
// orchestration layer's run-item notifications (tool_called, tool_output,
// mcp_approval_requested), which ride alongside the raw Responses API
// stream rather than inside it.
func ConvertRunItem(name, itemType string, rawItem map[string]any, toolCallID, toolName *string) *projector.InternalEvent {
	return &projector.InternalEvent{
		Kind:        "run_item_stream_event",
		RunItemName: name,
		RunItemType: itemType,
		RunItem:     rawItem,
		ToolCallID:  toolCallID,
		ToolName:    toolName,
	}
}
