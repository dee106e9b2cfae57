package projector

import "goa.design/sse-projector/runtime/projector/chunk"

// chunkBase64 splits b64 into ordered chunk.delta events followed by
// exactly one chunk.done, scoped to the given item/output index.
func chunkBase64(b *eventBuilder, itemID string, outputIndex int, providerSeq *int64, entityKind, entityID, field string, partIndex *int, b64 string, maxChunkChars int) []PublicEvent {
	parts := chunk.Base64(b64, maxChunkChars)
	out := make([]PublicEvent, 0, len(parts)+1)
	target := ChunkTarget{EntityKind: entityKind, EntityID: entityID, Field: field, PartIndex: partIndex}
	for _, part := range parts {
		out = append(out, ChunkDeltaEvent{
			ItemEnvelope: b.itemEnvelope("chunk.delta", itemID, outputIndex, providerSeq, nil),
			Target:       target,
			Encoding:     "base64",
			ChunkIndex:   part.ChunkIndex,
			Data:         part.Data,
		})
	}
	out = append(out, ChunkDoneEvent{
		ItemEnvelope: b.itemEnvelope("chunk.done", itemID, outputIndex, providerSeq, nil),
		Target:       target,
	})
	return out
}
