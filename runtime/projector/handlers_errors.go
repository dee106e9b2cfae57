package projector

// projectTerminalErrors handles the two raw shapes that end a stream with
// an error: a provider-level raw "error" frame, and a server-originated
// "error" lifecycle kind. Either one sets state.TerminalEmitted so every
// later handler in the dispatch chain for this call is skipped.
func projectTerminalErrors(state *ProjectionState, b *eventBuilder, ev *InternalEvent) ([]PublicEvent, bool) {
	switch {
	case ev.Kind == "raw_response_event" && ev.RawType == "error":
		message := asStringOr(ev.Raw, "message", "Provider error")
		state.TerminalEmitted = true
		return []PublicEvent{ErrorEvent{
			Envelope: b.envelope("error", ev.Sequence, nil),
			Error: ErrorPayload{
				Code:        asString(ev.Raw, "code"),
				Message:     message,
				Source:      "provider",
				IsRetryable: false,
			},
		}}, true

	case ev.Kind == "error":
		message := asStringOr(ev.Payload, "message", "")
		if message == "" {
			message = asStringOr(ev.Payload, "error", "Server error")
		}
		state.TerminalEmitted = true
		return []PublicEvent{ErrorEvent{
			Envelope: b.envelope("error", nil, nil),
			Error: ErrorPayload{
				Message:     message,
				Source:      "server",
				IsRetryable: false,
			},
		}}, true
	}
	return nil, false
}
