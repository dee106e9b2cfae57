package projector

// InternalEvent is the normalized shape every provider adapter (see
// openaiingest) converts its wire frames into before handing them to a
// Projector. Fields are deliberately loose — most handlers only care about
// a handful of them per Kind — so adapters aren't forced to populate
// fields that don't apply to a given frame.
type InternalEvent struct {
	// Kind discriminates the outer shape: "raw_response_event",
	// "lifecycle", "agent_updated_stream_event", "run_item_stream_event",
	// or "error".
	Kind string

	// RawType is the provider's own event type string when Kind is
	// "raw_response_event" (e.g. "response.output_text.delta").
	RawType string

	// Raw holds the raw_response_event's nested frame fields, keyed
	// exactly as the provider names them (item_id, output_index, delta,
	// annotations, and so on). Handlers pull fields out with the As*
	// helpers below since not every raw_type populates every field.
	Raw map[string]any

	// Payload holds the generic payload for "lifecycle" and "error"
	// events (state, reason, message, and the memory_compaction fields).
	Payload map[string]any

	// NewAgent is set on "agent_updated_stream_event" frames.
	NewAgent *string

	// RunItemName/RunItemType/RunItem describe a "run_item_stream_event".
	RunItemName string
	RunItemType string
	RunItem     map[string]any

	// ToolCallID/ToolName are adapter-supplied fallbacks used only when
	// RunItem itself doesn't carry them.
	ToolCallID *string
	ToolName   *string

	Sequence *int64

	// Scope carries the agent-as-tool sub-stream descriptor (type,
	// tool_call_id, tool_name, agent) when this event originated from a
	// nested agent run rather than the top-level stream.
	Scope map[string]any

	Annotations []map[string]any

	Attachments []map[string]any

	IsTerminal       bool
	ResponseText     *string
	StructuredOutput any
	Usage            map[string]any
}

func asString(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func asStringOr(m map[string]any, key, fallback string) string {
	if s := asString(m, key); s != nil {
		return *s
	}
	return fallback
}

func asInt(m map[string]any, key string) *int {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
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
	default:
		return nil
	}
}

func asInt64(m map[string]any, key string) *int64 {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case int64:
		return &n
	case int:
		i := int64(n)
		return &i
	case float64:
		i := int64(n)
		return &i
	default:
		return nil
	}
}

func asBool(m map[string]any, key string) *bool {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func asObject(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

func asObjectSlice(m map[string]any, key string) []map[string]any {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func asStringSlice(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

func coerceStr(v any) *string {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
