package projector

// projectAgentUpdate tracks agent handoffs within a single state (top
// level or a scoped sub-stream), emitting agent.updated only when the
// active agent actually changes.
func projectAgentUpdate(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "agent_updated_stream_event" || ev.NewAgent == nil || *ev.NewAgent == "" {
		return nil
	}
	fromAgent := state.CurrentAgent
	toAgent := *ev.NewAgent

	if fromAgent != nil && *fromAgent == toAgent {
		state.CurrentAgent = &toAgent
		return nil
	}

	state.HandoffCount++
	state.CurrentAgent = &toAgent
	handoffIndex := state.HandoffCount
	return []PublicEvent{AgentUpdatedEvent{
		Envelope:     b.envelope("agent.updated", ev.Sequence, nil),
		FromAgent:    fromAgent,
		ToAgent:      toAgent,
		HandoffIndex: &handoffIndex,
	}}
}
