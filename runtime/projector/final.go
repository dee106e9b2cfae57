package projector

// terminalFinalStatus picks the FinalPayload.Status closed-set value for
// a top-level stream's terminal event, in strict priority order: a
// refusal always wins, then an explicit failed/incomplete/cancelled
// lifecycle, then an incomplete-by-omission case where the provider
// ended without giving back any text or structured output, and
// completed as the default.
func terminalFinalStatus(state *ProjectionState, ev *InternalEvent) string {
	if state.RefusalText != "" {
		return FinalRefused
	}
	switch state.LifecycleStatus {
	case LifecycleFailed:
		return FinalFailed
	case LifecycleIncomplete:
		return FinalIncomplete
	case LifecycleCancelled:
		return FinalCancelled
	}
	if ev.ResponseText == nil && ev.StructuredOutput == nil {
		return FinalIncomplete
	}
	return FinalCompleted
}
