// Package projector translates internal agent-runtime provider events
// into the versioned, client-safe public_sse_v1 event stream. A Projector
// is stateful per stream: it tracks tool-call and lifecycle state across
// calls to Project so it can aggregate deltas into the coarser, scope-
// stable events clients consume.
package projector

import (
	"context"
	"time"

	"goa.design/sse-projector/runtime/projector/agent"
	"goa.design/sse-projector/runtime/projector/telemetry"
)

// DefaultMaxChunkChars bounds how large a single chunk.delta's data field
// can be before it's split into another part.
const DefaultMaxChunkChars = 131072

// Option configures a Projector at construction time.
type Option func(*Projector)

// WithMaxChunkChars overrides the default chunk size used when splitting
// base64 payloads into chunk.delta events.
func WithMaxChunkChars(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.maxChunkChars = n
		}
	}
}

// WithLogger attaches a structured logger the Projector reports terminal
// transitions through. Dropped or suppressed frames are not logged.
func WithLogger(logger telemetry.Logger) Option {
	return func(p *Projector) { p.logger = logger }
}

// WithMetrics attaches a metrics sink for per-event-kind counters.
func WithMetrics(metrics telemetry.Metrics) Option {
	return func(p *Projector) { p.metrics = metrics }
}

// Projector converts InternalEvent frames for one stream into PublicEvent
// values, maintaining whatever cross-event state (tool argument buffers,
// reasoning summary text, lifecycle status, terminal-emission guard) that
// conversion requires.
type Projector struct {
	streamID      string
	maxChunkChars int

	state        *ProjectionState
	scopedStates map[string]*ProjectionState

	logger  telemetry.Logger
	metrics telemetry.Metrics
}

// New returns a Projector for a single stream_id, ready to accept events
// through Project and ProjectError.
func New(streamID string, opts ...Option) *Projector {
	p := &Projector{
		streamID:      streamID,
		maxChunkChars: DefaultMaxChunkChars,
		state:         NewProjectionState(),
		scopedStates:  make(map[string]*ProjectionState),
		logger:        telemetry.NewNoopLogger(),
		metrics:       telemetry.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func scopeKey(scope map[string]any) (string, bool) {
	if scope == nil {
		return "", false
	}
	typ := asString(scope, "type")
	toolCallID := asString(scope, "tool_call_id")
	if typ == nil || toolCallID == nil {
		return "", false
	}
	return *typ + ":" + *toolCallID, true
}

func (p *Projector) stateForScope(scope map[string]any) *ProjectionState {
	key, ok := scopeKey(scope)
	if !ok {
		return p.state
	}
	st, ok := p.scopedStates[key]
	if !ok {
		st = NewProjectionState()
		p.scopedStates[key] = st
	}
	return st
}

// seedAgentToolState records (or refreshes) a top-level ToolState entry
// for a nested agent-as-tool call the moment its scope is first observed,
// so a tool.status for it can carry a tool_name/agent before the function-
// arguments handler ever sees it directly.
func (p *Projector) seedAgentToolState(scope map[string]any) {
	if scope == nil || asStringOr(scope, "type", "") != "agent_tool" {
		return
	}
	toolCallID := asString(scope, "tool_call_id")
	if toolCallID == nil {
		return
	}
	ts := p.state.ToolStateFor(*toolCallID, ToolTypeAgent)
	ts.ToolType = ToolTypeAgent
	if name := asString(scope, "tool_name"); name != nil {
		ts.ToolName = name
	}
	if name := asString(scope, "agent"); name != nil {
		id := agent.Ident(*name)
		ts.AgentName = &id
	}
}

func workflowContextFromMeta(meta map[string]any) *WorkflowContext {
	if meta == nil {
		return nil
	}
	return &WorkflowContext{
		WorkflowKey:   asString(meta, "workflow_key"),
		WorkflowRunID: asString(meta, "workflow_run_id"),
		StageName:     asString(meta, "stage_name"),
		StepName:      asString(meta, "step_name"),
		StepAgent:     asString(meta, "step_agent"),
		ParallelGroup: asString(meta, "parallel_group"),
		BranchIndex:   asInt(meta, "branch_index"),
	}
}

// agentToolNamesFromMeta returns the set of tool names the workflow
// layer has declared as agent-as-tool wrappers, used to upgrade a
// function tool_type to agent once its arguments are fully known.
func agentToolNamesFromMeta(meta map[string]any) map[string]struct{} {
	if meta == nil {
		return nil
	}
	names := asStringSlice(meta, "agent_tool_names")
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func usageToPublic(usage map[string]any) *PublicUsage {
	if usage == nil {
		return nil
	}
	return &PublicUsage{
		InputTokens:           asInt(usage, "input_tokens"),
		OutputTokens:          asInt(usage, "output_tokens"),
		TotalTokens:           asInt(usage, "total_tokens"),
		CachedInputTokens:     asInt(usage, "cached_input_tokens"),
		ReasoningOutputTokens: asInt(usage, "reasoning_output_tokens"),
		Requests:              asInt(usage, "requests"),
	}
}

// ProjectOptions carries the per-call metadata Project needs beyond the
// InternalEvent itself: the conversation/response identifiers and agent
// name to stamp on every emitted envelope, plus workflow orchestration
// metadata.
type ProjectOptions struct {
	ConversationID  string
	ResponseID      *string
	Agent           *string
	WorkflowMeta    map[string]any
	ServerTimestamp string
}

// Project converts one InternalEvent into zero or more PublicEvent
// values. Once the top-level stream has emitted a terminal event (error
// or final), every subsequent call returns nil immediately.
func (p *Projector) Project(ctx context.Context, ev *InternalEvent, opts ProjectOptions) []PublicEvent {
	if p.state.TerminalEmitted {
		return nil
	}
	p.metrics.IncCounter("projector.events_received", 1, "kind", ev.Kind)

	ts := opts.ServerTimestamp
	if ts == "" {
		ts = nowISO()
	}
	workflow := workflowContextFromMeta(opts.WorkflowMeta)
	agentToolNames := agentToolNamesFromMeta(opts.WorkflowMeta)

	scopePayload := ev.Scope
	p.seedAgentToolState(scopePayload)
	state := p.stateForScope(scopePayload)

	var scope *StreamScope
	if scopePayload != nil {
		if typ, toolCallID := asString(scopePayload, "type"), asString(scopePayload, "tool_call_id"); typ != nil && toolCallID != nil {
			scope = &StreamScope{
				Type:       *typ,
				ToolCallID: *toolCallID,
				ToolName:   asString(scopePayload, "tool_name"),
				Agent:      asString(scopePayload, "agent"),
			}
		}
	}

	b := &eventBuilder{
		streamID:        p.streamID,
		conversationID:  opts.ConversationID,
		responseID:      opts.ResponseID,
		agent:           opts.Agent,
		workflow:        workflow,
		scope:           scope,
		serverTimestamp: ts,
		nextEventID:     func() uint64 { p.state.EventID++; return p.state.EventID },
	}

	if scopePayload == nil {
		applyAttachments(p.state, ev)
	}

	if scopePayload == nil {
		if opts.Agent != nil && p.state.CurrentAgent == nil {
			p.state.CurrentAgent = opts.Agent
		}
	} else if state.CurrentAgent == nil {
		if scopedAgent := asString(scopePayload, "agent"); scopedAgent != nil {
			state.CurrentAgent = scopedAgent
		}
	}

	var out []PublicEvent
	out = append(out, projectAgentUpdate(state, b, ev)...)

	out = append(out, p.projectRawEvent(state, b, ev, agentToolNames)...)

	if p.state.TerminalEmitted {
		p.logger.Debug(ctx, "projector: terminal error emitted", "stream_id", p.streamID, "raw_type", ev.RawType)
		p.metrics.IncCounter("projector.terminal_emitted", 1, "stream_id", p.streamID, "reason", "error")
		return out
	}

	out = append(out, projectRunItemEvent(state, b, ev)...)

	if scopePayload == nil && opts.Agent != nil {
		p.state.CurrentAgent = opts.Agent
	}

	if ev.IsTerminal && scopePayload == nil {
		final := FinalEvent{
			Envelope: b.envelope("final", nil, nil),
			Final: FinalPayload{
				Status:               terminalFinalStatus(p.state, ev),
				ResponseText:         ev.ResponseText,
				StructuredOutput:     ev.StructuredOutput,
				ReasoningSummaryText: nonEmptyOrNil(p.state.ReasoningSummaryText),
				RefusalText:          nonEmptyOrNil(p.state.RefusalText),
				Attachments:          attachmentsOrEmpty(p.state.Attachments),
				Usage:                usageToPublic(ev.Usage),
			},
		}
		out = append(out, final)
		p.state.TerminalEmitted = true
		p.logger.Debug(ctx, "projector: final emitted", "stream_id", p.streamID, "status", final.Final.Status)
		p.metrics.IncCounter("projector.terminal_emitted", 1, "stream_id", p.streamID, "reason", "final")
	}

	p.metrics.IncCounter("projector.events_emitted", float64(len(out)), "kind", ev.Kind)
	return out
}

func nonEmptyOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func attachmentsOrEmpty(attachments []MessageAttachment) []MessageAttachment {
	if attachments == nil {
		return []MessageAttachment{}
	}
	return attachments
}

// projectRawEvent runs the fixed-order raw-frame dispatch chain: the
// first handler that both matches the event and wants to short-circuit
// (terminal errors) stops the chain immediately.
func (p *Projector) projectRawEvent(state *ProjectionState, b *eventBuilder, ev *InternalEvent, agentToolNames map[string]struct{}) []PublicEvent {
	// Terminal errors are tracked on the top-level state even when the
	// triggering frame is scoped to an agent-as-tool sub-stream: the
	// instance guarantees at most one terminal event across its whole
	// lifetime, not per scope (see ProjectionState.TerminalEmitted).
	if out, handled := projectTerminalErrors(p.state, b, ev); handled {
		return out
	}

	var out []PublicEvent
	out = append(out, projectToolCallUpdates(state, b, ev)...)
	out = append(out, projectLifecycle(state, b, ev)...)
	out = append(out, projectServiceLifecycle(state, b, ev)...)
	out = append(out, projectMemoryCheckpoint(b, ev)...)
	out = append(out, projectOutputItems(state, b, ev)...)
	out = append(out, projectMessageDeltas(b, ev)...)
	out = append(out, projectCitations(state, b, ev)...)
	out = append(out, projectReasoningSummary(state, b, ev)...)
	out = append(out, projectRefusal(state, b, ev)...)
	out = append(out, projectToolStatusRaw(state, b, ev, p.maxChunkChars)...)
	out = append(out, projectCodeInterpreterCode(state, b, ev)...)
	out = append(out, projectToolArguments(state, b, ev, agentToolNames)...)
	return out
}

// ErrorOptions carries the metadata ProjectError needs to stamp an
// envelope without an underlying InternalEvent.
type ErrorOptions struct {
	ConversationID  string
	ResponseID      *string
	Agent           *string
	WorkflowMeta    map[string]any
	Code            *string
	Message         string
	Source          string
	IsRetryable     bool
	ServerTimestamp string
}

// ProjectError emits a single top-level error event and marks the stream
// terminal. Once a stream has already emitted a terminal event, a second
// call is suppressed and returns nil: clients must be able to rely on at
// most one terminal event per stream.
func (p *Projector) ProjectError(ctx context.Context, opts ErrorOptions) []PublicEvent {
	if p.state.TerminalEmitted {
		return nil
	}
	ts := opts.ServerTimestamp
	if ts == "" {
		ts = nowISO()
	}
	b := &eventBuilder{
		streamID:        p.streamID,
		conversationID:  opts.ConversationID,
		responseID:      opts.ResponseID,
		agent:           opts.Agent,
		workflow:        workflowContextFromMeta(opts.WorkflowMeta),
		serverTimestamp: ts,
		nextEventID:     func() uint64 { p.state.EventID++; return p.state.EventID },
	}
	p.state.TerminalEmitted = true
	p.logger.Debug(ctx, "projector: caller error emitted", "stream_id", p.streamID, "source", opts.Source)
	p.metrics.IncCounter("projector.terminal_emitted", 1, "stream_id", p.streamID, "reason", "caller_error")
	return []PublicEvent{ErrorEvent{
		Envelope: b.envelope("error", nil, nil),
		Error: ErrorPayload{
			Code:        opts.Code,
			Message:     opts.Message,
			Source:      opts.Source,
			IsRetryable: opts.IsRetryable,
		},
	}}
}
