package projector

// SchemaVersion is the constant `schema` field stamped on every public
// event. Bump this if the wire contract ever changes incompatibly.
const SchemaVersion = "public_sse_v1"

// StreamNotice is an explicit marker for UX when content is altered for
// safety or stability. Every redaction or truncation performed by the
// Sanitizer or the file-search result capping attaches one of these (the
// Chunker splits without altering content and attaches none), carrying a dotted JSON path
// so a client can highlight exactly what was changed.
type StreamNotice struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// WorkflowContext carries optional orchestration metadata (stage/step
// names, parallel branch index) supplied by the workflow layer. All fields
// are nil unless the caller's workflow_meta populated them.
type WorkflowContext struct {
	WorkflowKey   *string `json:"workflow_key"`
	WorkflowRunID *string `json:"workflow_run_id"`
	StageName     *string `json:"stage_name"`
	StepName      *string `json:"step_name"`
	StepAgent     *string `json:"step_agent"`
	ParallelGroup *string `json:"parallel_group"`
	BranchIndex   *int    `json:"branch_index"`
}

// StreamScope identifies a nested agent-as-tool sub-stream.
type StreamScope struct {
	Type        string  `json:"type"`
	ToolCallID  string  `json:"tool_call_id"`
	ToolName    *string `json:"tool_name"`
	Agent       *string `json:"agent"`
}

// MessageAttachment describes a file produced or referenced during a run.
type MessageAttachment struct {
	ObjectID   string  `json:"object_id"`
	Filename   string  `json:"filename"`
	MimeType   *string `json:"mime_type"`
	SizeBytes  *int64  `json:"size_bytes"`
	URL        *string `json:"url"`
	ToolCallID *string `json:"tool_call_id"`
}

// PublicUsage is the client-facing token usage summary.
type PublicUsage struct {
	InputTokens            *int `json:"input_tokens"`
	OutputTokens           *int `json:"output_tokens"`
	TotalTokens            *int `json:"total_tokens"`
	CachedInputTokens      *int `json:"cached_input_tokens"`
	ReasoningOutputTokens  *int `json:"reasoning_output_tokens"`
	Requests               *int `json:"requests"`
}

// Envelope holds the fields present on every public event.
type Envelope struct {
	Schema                 string          `json:"schema"`
	Kind                   string          `json:"kind"`
	EventID                uint64          `json:"event_id"`
	StreamID               string          `json:"stream_id"`
	ServerTimestamp        string          `json:"server_timestamp"`
	ConversationID         string          `json:"conversation_id"`
	ResponseID             *string         `json:"response_id"`
	Agent                  *string         `json:"agent"`
	Workflow               *WorkflowContext `json:"workflow"`
	Scope                  *StreamScope    `json:"scope"`
	ProviderSequenceNumber *int64          `json:"provider_sequence_number"`
	Notices                []StreamNotice  `json:"notices"`
}

// ItemEnvelope is the Envelope plus the item-scoped fields every
// item-scoped variant carries.
type ItemEnvelope struct {
	Envelope
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
}

// EventKind returns the event's discriminator, satisfying PublicEvent.
func (e Envelope) EventKind() string { return e.Kind }

// GetEventID returns the envelope's monotonic event id.
func (e Envelope) GetEventID() uint64 { return e.EventID }
