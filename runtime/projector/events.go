package projector

// PublicEvent is implemented by every event variant in the public_sse_v1
// wire union. The root wire object is the event itself — there is no
// wrapper — so PublicEvent values are marshaled directly.
type PublicEvent interface {
	EventKind() string
	GetEventID() uint64
}

type LifecycleEvent struct {
	Envelope
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}

// MemoryCheckpointPayload snapshots a memory-strategy mutation applied
// during a run. It is a UX marker only: it must not change the visible
// transcript, but helps users understand why the model may have lost
// context.
type MemoryCheckpointPayload struct {
	Strategy         string   `json:"strategy"`
	TriggerReason    *string  `json:"trigger_reason"`
	TokensBefore     *int     `json:"tokens_before"`
	TokensAfter      *int     `json:"tokens_after"`
	CompactedCount   *int     `json:"compacted_count"`
	CompactedInputs  *int     `json:"compacted_inputs"`
	CompactedOutputs *int     `json:"compacted_outputs"`
	KeepTurns        *int     `json:"keep_turns"`
	TriggerTurns     *int     `json:"trigger_turns"`
	ClearToolInputs  *bool    `json:"clear_tool_inputs"`
	ExcludedTools    []string `json:"excluded_tools"`
	IncludedTools    []string `json:"included_tools"`
	TotalItemsBefore *int     `json:"total_items_before"`
	TotalItemsAfter  *int     `json:"total_items_after"`
	TurnsBefore      *int     `json:"turns_before"`
	TurnsAfter       *int     `json:"turns_after"`
}

type MemoryCheckpointEvent struct {
	Envelope
	Checkpoint MemoryCheckpointPayload `json:"checkpoint"`
}

type AgentUpdatedEvent struct {
	Envelope
	FromAgent    *string `json:"from_agent"`
	ToAgent      string  `json:"to_agent"`
	HandoffIndex *uint32 `json:"handoff_index"`
}

type OutputItemAddedEvent struct {
	ItemEnvelope
	ItemType string  `json:"item_type"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

type OutputItemDoneEvent struct {
	ItemEnvelope
	ItemType string  `json:"item_type"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

type MessageDeltaEvent struct {
	ItemEnvelope
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

type MessageCitationEvent struct {
	ItemEnvelope
	ContentIndex int            `json:"content_index"`
	Citation     PublicCitation `json:"citation"`
}

type ReasoningSummaryDeltaEvent struct {
	ItemEnvelope
	SummaryIndex *int   `json:"summary_index"`
	Delta        string `json:"delta"`
}

type ReasoningSummaryPartAddedEvent struct {
	ItemEnvelope
	SummaryIndex int     `json:"summary_index"`
	PartType     string  `json:"part_type"`
	Text         *string `json:"text"`
}

type ReasoningSummaryPartDoneEvent struct {
	ItemEnvelope
	SummaryIndex int    `json:"summary_index"`
	PartType     string `json:"part_type"`
	Text         string `json:"text"`
}

type RefusalDeltaEvent struct {
	ItemEnvelope
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

type RefusalDoneEvent struct {
	ItemEnvelope
	ContentIndex int    `json:"content_index"`
	RefusalText  string `json:"refusal_text"`
}

type ToolStatusEvent struct {
	ItemEnvelope
	Tool PublicTool `json:"tool"`
}

type ToolArgumentsDeltaEvent struct {
	ItemEnvelope
	ToolCallID string `json:"tool_call_id"`
	ToolType   string `json:"tool_type"`
	ToolName   string `json:"tool_name"`
	Delta      string `json:"delta"`
}

type ToolArgumentsDoneEvent struct {
	ItemEnvelope
	ToolCallID    string         `json:"tool_call_id"`
	ToolType      string         `json:"tool_type"`
	ToolName      string         `json:"tool_name"`
	ArgumentsText string         `json:"arguments_text"`
	ArgumentsJSON map[string]any `json:"arguments_json"`
}

type ToolCodeDeltaEvent struct {
	ItemEnvelope
	ToolCallID string `json:"tool_call_id"`
	Delta      string `json:"delta"`
}

type ToolCodeDoneEvent struct {
	ItemEnvelope
	ToolCallID string `json:"tool_call_id"`
	Code       string `json:"code"`
}

type ToolOutputEvent struct {
	ItemEnvelope
	ToolCallID string `json:"tool_call_id"`
	ToolType   string `json:"tool_type"`
	Output     any    `json:"output"`
}

// ToolApprovalEvent is modeled for schema completeness (see DESIGN.md): no
// handler in this package currently emits it, matching the retrieved
// reference implementation, which declares the wire shape but never
// constructs one from the provider event vocabulary this package consumes.
type ToolApprovalEvent struct {
	ItemEnvelope
	ToolCallID        string  `json:"tool_call_id"`
	ToolType          string  `json:"tool_type"`
	ToolName          string  `json:"tool_name"`
	ServerLabel       *string `json:"server_label"`
	ApprovalRequestID *string `json:"approval_request_id"`
	Approved          bool    `json:"approved"`
	Reason            *string `json:"reason"`
}

// ChunkTarget identifies which field on which entity a chunk sequence
// reassembles into.
type ChunkTarget struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	Field      string `json:"field"`
	PartIndex  *int   `json:"part_index"`
}

type ChunkDeltaEvent struct {
	ItemEnvelope
	Target     ChunkTarget `json:"target"`
	Encoding   string      `json:"encoding"`
	ChunkIndex int         `json:"chunk_index"`
	Data       string      `json:"data"`
}

type ChunkDoneEvent struct {
	ItemEnvelope
	Target ChunkTarget `json:"target"`
}

type ErrorPayload struct {
	Code        *string `json:"code"`
	Message     string  `json:"message"`
	Source      string  `json:"source"`
	IsRetryable bool    `json:"is_retryable"`
}

type ErrorEvent struct {
	Envelope
	Error ErrorPayload `json:"error"`
}

type FinalPayload struct {
	Status               string              `json:"status"`
	ResponseText         *string             `json:"response_text"`
	StructuredOutput     any                 `json:"structured_output"`
	ReasoningSummaryText *string             `json:"reasoning_summary_text"`
	RefusalText          *string             `json:"refusal_text"`
	Attachments          []MessageAttachment `json:"attachments"`
	Usage                *PublicUsage        `json:"usage"`
}

type FinalEvent struct {
	Envelope
	Final FinalPayload `json:"final"`
}
