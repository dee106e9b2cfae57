package projector

import "goa.design/sse-projector/runtime/projector/agent"

// ToolState is the accumulated view of a single tool call, keyed by
// tool_call_id inside ProjectionState.ToolState. It is mutated in place as
// raw provider frames and run-item events arrive, and read back whenever a
// handler needs to re-derive a tool.status or tool.output payload.
type ToolState struct {
	ToolType    string
	OutputIndex *int
	ToolName    *string
	AgentName   *agent.Ident
	Query       *string
	Sources     []string

	ServerLabel *string

	LastStatus      *string
	ArgumentsText   string

	FileSearchQueries []string
	FileSearchResults []FileSearchResult

	ContainerID   *string
	ContainerMode *string

	ImageRevisedPrompt     *string
	ImageFormat            *string
	ImageSize              *string
	ImageQuality           *string
	ImageBackground        *string
	ImagePartialIndex      *int
}

// ProjectionState is the mutable state a projector instance threads
// through every handler call. A fresh ProjectionState backs the top-level
// stream; one more is allocated per distinct agent-as-tool scope key.
type ProjectionState struct {
	EventID uint64

	LifecycleStatus string

	CurrentAgent  *string
	HandoffCount  uint32

	ReasoningSummaryText string
	RefusalText          string

	TerminalEmitted bool

	LastWebSearchToolCallID *string

	ToolState map[string]*ToolState

	Attachments        []MessageAttachment
	SeenAttachmentIDs  map[string]struct{}
}

// NewProjectionState returns a zero-valued, ready-to-use ProjectionState.
func NewProjectionState() *ProjectionState {
	return &ProjectionState{
		ToolState:         make(map[string]*ToolState),
		SeenAttachmentIDs: make(map[string]struct{}),
	}
}

// ToolStateFor returns the ToolState for toolCallID, allocating one with
// the given default tool type if it doesn't exist yet.
func (s *ProjectionState) ToolStateFor(toolCallID, defaultToolType string) *ToolState {
	if ts, ok := s.ToolState[toolCallID]; ok {
		return ts
	}
	ts := &ToolState{ToolType: defaultToolType}
	s.ToolState[toolCallID] = ts
	return ts
}

// Lifecycle status constants mirrored from the wire schema's closed set.
const (
	LifecycleQueued     = "queued"
	LifecycleInProgress = "in_progress"
	LifecycleCompleted  = "completed"
	LifecycleFailed     = "failed"
	LifecycleIncomplete = "incomplete"
	LifecycleCancelled  = "cancelled"
)

// Final status constants, the closed set FinalPayload.Status is drawn from.
const (
	FinalCompleted  = "completed"
	FinalFailed     = "failed"
	FinalIncomplete = "incomplete"
	FinalRefused    = "refused"
	FinalCancelled  = "cancelled"
)
