package projector

// itemScope is the resolved (item_id, output_index) pair a raw provider
// frame scopes to. A nil *itemScope means the frame didn't carry enough
// to scope an item-level event and the caller should drop it.
type itemScope struct {
	ItemID      string
	OutputIndex int
}

// itemScopeFromRaw resolves an item scope directly off a raw frame,
// reading the item id from idKey (defaulting to "item_id" at call sites
// that don't need a different key) and requiring output_index to be
// present and integral.
func itemScopeFromRaw(raw map[string]any, idKey string) *itemScope {
	if idKey == "" {
		idKey = "item_id"
	}
	itemID := asString(raw, idKey)
	outputIndex := asInt(raw, "output_index")
	if itemID == nil || outputIndex == nil {
		return nil
	}
	return &itemScope{ItemID: *itemID, OutputIndex: *outputIndex}
}

// toolScope resolves the output_index a tool-call-keyed event should
// carry. It prefers the cached ToolState.OutputIndex over raw's own
// output_index; if nothing is cached yet but raw supplies one, it caches
// it into the ToolState for later lookups that don't have a raw frame to
// hand (code-interpreter-code and tool-arguments events resolve scope
// from state alone).
func toolScope(toolCallID string, state *ProjectionState, raw map[string]any) *int {
	ts, ok := state.ToolState[toolCallID]
	if !ok {
		ts = &ToolState{ToolType: ToolTypeFunction}
		state.ToolState[toolCallID] = ts
	}
	if ts.OutputIndex != nil {
		return ts.OutputIndex
	}
	if raw != nil {
		if candidate := asInt(raw, "output_index"); candidate != nil {
			ts.OutputIndex = candidate
			return candidate
		}
	}
	return nil
}

// setOutputIndexIfMissing caches raw's output_index onto ts only if ts
// doesn't already have one, matching the reference handlers' habit of
// seeding OutputIndex opportunistically from whichever frame happens to
// carry it first.
func setOutputIndexIfMissing(ts *ToolState, raw map[string]any) {
	if ts.OutputIndex != nil {
		return
	}
	if v := asInt(raw, "output_index"); v != nil {
		ts.OutputIndex = v
	}
}
