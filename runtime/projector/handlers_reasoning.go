package projector

import "strings"

func projectReasoningSummary(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}
	switch ev.RawType {
	case "response.reasoning_summary_text.delta":
		delta := asString(ev.Raw, "delta")
		scope := itemScopeFromRaw(ev.Raw, "item_id")
		summaryIndex := asInt(ev.Raw, "summary_index")
		if delta == nil || *delta == "" || scope == nil || summaryIndex == nil {
			return nil
		}
		state.ReasoningSummaryText += *delta
		return []PublicEvent{ReasoningSummaryDeltaEvent{
			ItemEnvelope: b.itemEnvelope("reasoning_summary.delta", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
			SummaryIndex: summaryIndex,
			Delta:        *delta,
		}}

	case "response.reasoning_summary_text.done":
		text := asString(ev.Raw, "text")
		scope := itemScopeFromRaw(ev.Raw, "item_id")
		summaryIndex := asInt(ev.Raw, "summary_index")
		if text == nil || *text == "" || scope == nil || summaryIndex == nil {
			return nil
		}
		var delta string
		switch {
		case state.ReasoningSummaryText == "":
			delta = *text
		case strings.HasPrefix(*text, state.ReasoningSummaryText):
			delta = (*text)[len(state.ReasoningSummaryText):]
			if delta == "" {
				return nil
			}
		default:
			return nil
		}
		state.ReasoningSummaryText = *text
		return []PublicEvent{ReasoningSummaryDeltaEvent{
			ItemEnvelope: b.itemEnvelope("reasoning_summary.delta", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
			SummaryIndex: summaryIndex,
			Delta:        delta,
		}}

	case "response.reasoning_summary_part.added", "response.reasoning_summary_part.done":
		scope := itemScopeFromRaw(ev.Raw, "item_id")
		summaryIndex := asInt(ev.Raw, "summary_index")
		part := asObject(ev.Raw, "part")
		if scope == nil || summaryIndex == nil || part == nil {
			return nil
		}
		if asStringOr(part, "type", "") != "summary_text" {
			return nil
		}
		text := asString(part, "text")
		if ev.RawType == "response.reasoning_summary_part.added" {
			return []PublicEvent{ReasoningSummaryPartAddedEvent{
				ItemEnvelope: b.itemEnvelope("reasoning_summary.part.added", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
				SummaryIndex: *summaryIndex,
				PartType:     "summary_text",
				Text:         text,
			}}
		}
		if text == nil || *text == "" {
			return nil
		}
		return []PublicEvent{ReasoningSummaryPartDoneEvent{
			ItemEnvelope: b.itemEnvelope("reasoning_summary.part.done", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
			SummaryIndex: *summaryIndex,
			PartType:     "summary_text",
			Text:         *text,
		}}
	}
	return nil
}

func projectRefusal(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" {
		return nil
	}
	scope := itemScopeFromRaw(ev.Raw, "item_id")
	contentIndex := asInt(ev.Raw, "content_index")
	if scope == nil || contentIndex == nil {
		return nil
	}
	switch ev.RawType {
	case "response.refusal.delta":
		delta := asString(ev.Raw, "delta")
		if delta == nil || *delta == "" {
			return nil
		}
		state.RefusalText += *delta
		return []PublicEvent{RefusalDeltaEvent{
			ItemEnvelope: b.itemEnvelope("refusal.delta", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
			ContentIndex: *contentIndex,
			Delta:        *delta,
		}}
	case "response.refusal.done":
		refusal := asString(ev.Raw, "refusal")
		if refusal == nil || *refusal == "" {
			return nil
		}
		state.RefusalText = *refusal
		return []PublicEvent{RefusalDoneEvent{
			ItemEnvelope: b.itemEnvelope("refusal.done", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
			ContentIndex: *contentIndex,
			RefusalText:  *refusal,
		}}
	}
	return nil
}
