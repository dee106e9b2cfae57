package projector

var lifecycleRawTypeStatus = map[string]string{
	"response.created":     LifecycleInProgress,
	"response.in_progress":  LifecycleInProgress,
	"response.queued":       LifecycleQueued,
	"response.completed":    LifecycleCompleted,
	"response.failed":       LifecycleFailed,
	"response.incomplete":   LifecycleIncomplete,
}

func projectLifecycle(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}
	status, ok := lifecycleRawTypeStatus[ev.RawType]
	if !ok {
		return nil
	}
	state.LifecycleStatus = status
	return []PublicEvent{LifecycleEvent{
		Envelope: b.envelope("lifecycle", ev.Sequence, nil),
		Status:   status,
	}}
}

func projectServiceLifecycle(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "lifecycle" {
		return nil
	}
	serviceState := asStringOr(ev.Payload, "state", "")
	if serviceState != "cancelled" && serviceState != "canceled" {
		return nil
	}
	state.LifecycleStatus = LifecycleCancelled
	return []PublicEvent{LifecycleEvent{
		Envelope: b.envelope("lifecycle", nil, nil),
		Status:   LifecycleCancelled,
		Reason:   asString(ev.Payload, "reason"),
	}}
}

func coerceIntNoBool(v any) *int {
	if v == nil {
		return nil
	}
	if _, isBool := v.(bool); isBool {
		return nil
	}
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	}
	return nil
}

func coerceBoolStrict(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func coerceStrList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var validMemoryStrategies = map[string]bool{"compact": true, "summarize": true, "trim": true}

// projectMemoryCheckpoint emits a memory.checkpoint marker whenever the
// runtime reports it compacted conversation memory. The reference
// implementation this package is grounded on defines this projection but
// never wires it into its own dispatch chain; this package wires it in,
// since the wire contract names memory.checkpoint as a required variant.
func projectMemoryCheckpoint(b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "lifecycle" || asStringOr(ev.Payload, "event", "") != "memory_compaction" {
		return nil
	}
	strategy := asStringOr(ev.Payload, "strategy", "")
	if !validMemoryStrategies[strategy] {
		strategy = "compact"
	}
	payload := MemoryCheckpointPayload{
		Strategy:         strategy,
		TriggerReason:    asString(ev.Payload, "trigger_reason"),
		TokensBefore:     coerceIntNoBool(ev.Payload["tokens_before"]),
		TokensAfter:      coerceIntNoBool(ev.Payload["tokens_after"]),
		CompactedCount:   coerceIntNoBool(ev.Payload["compacted_count"]),
		CompactedInputs:  coerceIntNoBool(ev.Payload["compacted_inputs"]),
		CompactedOutputs: coerceIntNoBool(ev.Payload["compacted_outputs"]),
		KeepTurns:        coerceIntNoBool(ev.Payload["keep_turns"]),
		TriggerTurns:     coerceIntNoBool(ev.Payload["trigger_turns"]),
		ClearToolInputs:  coerceBoolStrict(ev.Payload["clear_tool_inputs"]),
		ExcludedTools:    coerceStrList(ev.Payload["excluded_tools"]),
		IncludedTools:    coerceStrList(ev.Payload["included_tools"]),
		TotalItemsBefore: coerceIntNoBool(ev.Payload["total_items_before"]),
		TotalItemsAfter:  coerceIntNoBool(ev.Payload["total_items_after"]),
		TurnsBefore:      coerceIntNoBool(ev.Payload["turns_before"]),
		TurnsAfter:       coerceIntNoBool(ev.Payload["turns_after"]),
	}
	return []PublicEvent{MemoryCheckpointEvent{
		Envelope:   b.envelope("memory.checkpoint", nil, nil),
		Checkpoint: payload,
	}}
}
