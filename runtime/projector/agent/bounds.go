package agent

// Bounds describes how a capped list has been bounded relative to the full
// underlying collection. The file-search result capper (ten entries max)
// derives its list-level truncation notice from a Bounds value.
type Bounds struct {
	Returned  int
	Total     int
	Truncated bool
}

// NewBounds computes Bounds for a returned/total pair.
func NewBounds(returned, total int) Bounds {
	return Bounds{Returned: returned, Total: total, Truncated: returned < total}
}
