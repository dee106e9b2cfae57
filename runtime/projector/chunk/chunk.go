// Package chunk splits large base64 payloads into ordered delta events so
// a projector never has to hold (or a client never has to receive) one
// giant string in a single SSE frame.
package chunk

// Target identifies which field on which entity a chunk sequence
// reassembles into. It mirrors projector.ChunkTarget structurally so
// callers can convert freely between the two.
type Target struct {
	EntityKind string
	EntityID   string
	Field      string
	PartIndex  *int
}

// Part is one slice of a chunked payload, in emission order.
type Part struct {
	ChunkIndex int
	Data       string
}

// Base64 splits b64 into parts of at most maxChunkChars runes each,
// preserving order. An empty input yields no parts but the caller should
// still emit the trailing "done" marker, matching how the reference
// dispatcher always emits exactly one chunk.done after zero or more
// chunk.delta events.
func Base64(b64 string, maxChunkChars int) []Part {
	if maxChunkChars <= 0 {
		maxChunkChars = 131072
	}
	runes := []rune(b64)
	if len(runes) == 0 {
		return nil
	}
	parts := make([]Part, 0, (len(runes)/maxChunkChars)+1)
	for idx, start := 0, 0; start < len(runes); idx, start = idx+1, start+maxChunkChars {
		end := start + maxChunkChars
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, Part{ChunkIndex: idx, Data: string(runes[start:end])})
	}
	return parts
}

// DefaultMaxChunkChars is the projector's default chunk size, chosen to
// keep individual SSE frames well under common proxy/browser buffer
// limits while still amortizing per-event overhead.
const DefaultMaxChunkChars = 131072
