package projector

// eventBuilder stamps the envelope fields shared by every event a single
// Project call might emit, and hands out monotonically increasing event
// ids via nextEventID (always the top-level stream's counter, even while
// building events for a scoped sub-stream).
type eventBuilder struct {
	streamID        string
	conversationID  string
	responseID      *string
	agent           *string
	workflow        *WorkflowContext
	scope           *StreamScope
	serverTimestamp string
	nextEventID     func() uint64
}

func (b *eventBuilder) envelope(kind string, providerSeq *int64, notices []StreamNotice) Envelope {
	return Envelope{
		Schema:                 SchemaVersion,
		Kind:                   kind,
		EventID:                b.nextEventID(),
		StreamID:               b.streamID,
		ServerTimestamp:        b.serverTimestamp,
		ConversationID:         b.conversationID,
		ResponseID:             b.responseID,
		Agent:                  b.agent,
		Workflow:               b.workflow,
		Scope:                  b.scope,
		ProviderSequenceNumber: providerSeq,
		Notices:                notices,
	}
}

func (b *eventBuilder) itemEnvelope(kind, itemID string, outputIndex int, providerSeq *int64, notices []StreamNotice) ItemEnvelope {
	return ItemEnvelope{
		Envelope:    b.envelope(kind, providerSeq, notices),
		ItemID:      itemID,
		OutputIndex: outputIndex,
	}
}
