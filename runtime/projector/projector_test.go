package projector_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/sse-projector/runtime/projector"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func rawEvent(rawType string, raw map[string]any) *projector.InternalEvent {
	return &projector.InternalEvent{Kind: "raw_response_event", RawType: rawType, Raw: raw}
}

func kindsOf(events []projector.PublicEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventKind()
	}
	return out
}

// TestMinimalTextResponse covers spec scenario S1: a minimal text response
// with no tools, reaching a clean "final" with status completed.
func TestMinimalTextResponse(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	var all []projector.PublicEvent
	all = append(all, p.Project(context.Background(), rawEvent("response.created", map[string]any{}), opts)...)
	all = append(all, p.Project(context.Background(), rawEvent("response.output_item.added", map[string]any{
		"output_index": 0, "item": map[string]any{"id": "msg_1", "type": "message", "role": "assistant"},
	}), opts)...)
	all = append(all, p.Project(context.Background(), rawEvent("response.output_text.delta", map[string]any{
		"item_id": "msg_1", "output_index": 0, "content_index": 0, "delta": "Hi ",
	}), opts)...)
	all = append(all, p.Project(context.Background(), rawEvent("response.output_text.delta", map[string]any{
		"item_id": "msg_1", "output_index": 0, "content_index": 0, "delta": "there",
	}), opts)...)
	all = append(all, p.Project(context.Background(), rawEvent("response.output_item.done", map[string]any{
		"output_index": 0, "item": map[string]any{"id": "msg_1", "type": "message", "role": "assistant", "status": "completed"},
	}), opts)...)
	all = append(all, p.Project(context.Background(), rawEvent("response.completed", map[string]any{}), opts)...)

	respText := "Hi there"
	final := p.Project(context.Background(), &projector.InternalEvent{
		Kind: "lifecycle", IsTerminal: true, ResponseText: &respText,
	}, opts)
	all = append(all, final...)

	require.Equal(t, []string{
		"lifecycle", "output_item.added", "message.delta", "message.delta",
		"output_item.done", "lifecycle", "final",
	}, kindsOf(all))

	for i, e := range all {
		require.EqualValues(t, i+1, e.GetEventID())
	}

	finalEvt, ok := all[len(all)-1].(projector.FinalEvent)
	require.True(t, ok)
	require.Equal(t, projector.FinalCompleted, finalEvt.Final.Status)
	require.Equal(t, "Hi there", *finalEvt.Final.ResponseText)

	// Post-terminal calls return nothing.
	more := p.Project(context.Background(), rawEvent("response.output_text.delta", map[string]any{
		"item_id": "msg_1", "output_index": 0, "content_index": 0, "delta": "more",
	}), opts)
	require.Empty(t, more)
}

// TestProviderErrorMidStream covers spec scenario S2.
func TestProviderErrorMidStream(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out1 := p.Project(context.Background(), rawEvent("response.created", map[string]any{}), opts)
	require.Equal(t, []string{"lifecycle"}, kindsOf(out1))

	out2 := p.Project(context.Background(), rawEvent("error", map[string]any{
		"code": "rate_limited", "message": "slow down",
	}), opts)
	require.Len(t, out2, 1)
	errEvt, ok := out2[0].(projector.ErrorEvent)
	require.True(t, ok)
	require.Equal(t, "provider", errEvt.Error.Source)
	require.Equal(t, "rate_limited", *errEvt.Error.Code)
	require.Equal(t, "slow down", errEvt.Error.Message)
	require.False(t, errEvt.Error.IsRetryable)

	out3 := p.Project(context.Background(), rawEvent("response.completed", map[string]any{}), opts)
	require.Empty(t, out3)
}

// TestToolCallSanitizedArguments covers spec scenario S3.
func TestToolCallSanitizedArguments(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	argJSON := `{"api_key":"sk-abc","q":"hi"}`
	deltaOut := p.Project(context.Background(), rawEvent("response.function_call_arguments.delta", map[string]any{
		"item_id": "call_7", "delta": argJSON,
	}), opts)
	require.Empty(t, deltaOut) // deltas never emit until done

	doneOut := p.Project(context.Background(), rawEvent("response.function_call_arguments.done", map[string]any{
		"item_id": "call_7", "name": "lookup", "arguments": argJSON, "output_index": 2,
	}), opts)

	require.Equal(t, []string{"tool.status", "tool.arguments.delta", "tool.arguments.done"}, kindsOf(doneOut))

	status := doneOut[0].(projector.ToolStatusEvent)
	fn, ok := status.Tool.(projector.FunctionTool)
	require.True(t, ok)
	require.Equal(t, "lookup", fn.Name)
	require.Equal(t, "in_progress", fn.Status)

	delta := doneOut[1].(projector.ToolArgumentsDeltaEvent)
	require.Contains(t, delta.Delta, "<redacted>")
	require.Contains(t, delta.Delta, `"q":"hi"`)

	done := doneOut[2].(projector.ToolArgumentsDoneEvent)
	require.Equal(t, "<redacted>", done.ArgumentsJSON["api_key"])
	require.Equal(t, "hi", done.ArgumentsJSON["q"])
	require.Contains(t, done.ArgumentsText, "<redacted>")
	require.Len(t, done.Notices, 1)
	require.Equal(t, "redacted", done.Notices[0].Type)
	require.Equal(t, "arguments_json.api_key", done.Notices[0].Path)
}

// TestWebSearchWithPostCompletionCitation covers spec scenario S4.
func TestWebSearchWithPostCompletionCitation(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out1 := p.Project(context.Background(), rawEvent("response.web_search_call.in_progress", map[string]any{
		"item_id": "ws_1", "output_index": 0,
	}), opts)
	require.Equal(t, []string{"tool.status"}, kindsOf(out1))
	st1 := out1[0].(projector.ToolStatusEvent).Tool.(projector.WebSearchTool)
	require.Equal(t, "in_progress", st1.Status)

	out2 := p.Project(context.Background(), rawEvent("response.web_search_call.completed", map[string]any{
		"item_id": "ws_1", "output_index": 0,
	}), opts)
	require.Equal(t, []string{"tool.status"}, kindsOf(out2))
	st2 := out2[0].(projector.ToolStatusEvent).Tool.(projector.WebSearchTool)
	require.Equal(t, "completed", st2.Status)

	out3 := p.Project(context.Background(), &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "response.output_text.annotation.added",
		Raw: map[string]any{"item_id": "msg_2", "output_index": 1, "content_index": 0},
		Annotations: []map[string]any{
			{"type": "url_citation", "url": "https://x.example", "start_index": 0, "end_index": 5, "title": "X"},
		},
	}, opts)

	require.Equal(t, []string{"tool.status", "message.citation"}, kindsOf(out3))
	st3 := out3[0].(projector.ToolStatusEvent).Tool.(projector.WebSearchTool)
	require.Equal(t, []string{"https://x.example"}, st3.Sources)

	cite := out3[1].(projector.MessageCitationEvent)
	uc, ok := cite.Citation.(projector.UrlCitation)
	require.True(t, ok)
	require.Equal(t, "https://x.example", uc.URL)
}

// TestAgentHandoff covers spec scenario S5.
func TestAgentHandoff(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	names := []string{"planner", "writer", "writer"}
	var results [][]projector.PublicEvent
	for _, n := range names {
		n := n
		results = append(results, p.Project(context.Background(), &projector.InternalEvent{
			Kind: "agent_updated_stream_event", NewAgent: &n,
		}, opts))
	}

	require.Len(t, results[0], 1)
	first := results[0][0].(projector.AgentUpdatedEvent)
	require.Nil(t, first.FromAgent)
	require.Equal(t, "planner", first.ToAgent)
	require.EqualValues(t, 1, *first.HandoffIndex)

	require.Len(t, results[1], 1)
	second := results[1][0].(projector.AgentUpdatedEvent)
	require.Equal(t, "planner", *second.FromAgent)
	require.Equal(t, "writer", second.ToAgent)
	require.EqualValues(t, 2, *second.HandoffIndex)

	require.Empty(t, results[2])
}

// TestPartialImageChunking covers spec scenario S6.
func TestPartialImageChunking(t *testing.T) {
	p := projector.New("strm", projector.WithMaxChunkChars(131072))
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	b64 := strings.Repeat("a", 262145)
	out := p.Project(context.Background(), rawEvent("response.image_generation_call.partial_image", map[string]any{
		"item_id": "img_1", "output_index": 3, "partial_image_index": 0, "partial_image_b64": b64, "status": "partial_image",
	}), opts)

	require.Equal(t, []string{"tool.status", "chunk.delta", "chunk.delta", "chunk.delta", "chunk.done"}, kindsOf(out))

	d0 := out[1].(projector.ChunkDeltaEvent)
	d1 := out[2].(projector.ChunkDeltaEvent)
	d2 := out[3].(projector.ChunkDeltaEvent)
	require.Equal(t, 0, d0.ChunkIndex)
	require.Len(t, d0.Data, 131072)
	require.Equal(t, 1, d1.ChunkIndex)
	require.Len(t, d1.Data, 131072)
	require.Equal(t, 2, d2.ChunkIndex)
	require.Len(t, d2.Data, 1)

	reassembled := d0.Data + d1.Data + d2.Data
	require.Equal(t, b64, reassembled)

	done, ok := out[4].(projector.ChunkDoneEvent)
	require.True(t, ok)
	require.Equal(t, d0.Target, done.Target)
}

func TestMonotonicEventIDs(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	var ids []uint64
	for i := 0; i < 5; i++ {
		out := p.Project(context.Background(), rawEvent("response.output_text.delta", map[string]any{
			"item_id": "msg_1", "output_index": 0, "content_index": 0, "delta": "x",
		}), opts)
		for _, e := range out {
			ids = append(ids, e.GetEventID())
		}
	}
	for i := 1; i < len(ids); i++ {
		require.Greater(t, ids[i], ids[i-1])
	}
}

func TestAtMostOneTerminal(t *testing.T) {
	p := projector.New("strm")

	var terminals int
	for i := 0; i < 3; i++ {
		out := p.ProjectError(context.Background(), projector.ErrorOptions{
			ConversationID: "conv_1", Message: "boom", Source: "server",
		})
		terminals += len(out)
	}
	require.Equal(t, 1, terminals)
}

func TestUnresolvableScopeSuppressed(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	// content_index present but output_index missing: scope cannot resolve.
	out := p.Project(context.Background(), rawEvent("response.output_text.delta", map[string]any{
		"item_id": "msg_1", "content_index": 0, "delta": "x",
	}), opts)
	require.Empty(t, out)
}

func TestAttachmentDedupByObjectID(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	ev := &projector.InternalEvent{
		Kind: "lifecycle",
		Attachments: []map[string]any{
			{"object_id": "att_1", "filename": "a.png"},
			{"object_id": "att_1", "filename": "a-dup.png"},
			{"object_id": "att_2", "filename": "b.png"},
		},
	}
	p.Project(context.Background(), ev, opts)

	respText := "done"
	final := p.Project(context.Background(), &projector.InternalEvent{
		Kind: "lifecycle", IsTerminal: true, ResponseText: &respText,
	}, opts)
	require.Len(t, final, 1)
	f := final[0].(projector.FinalEvent)
	require.Len(t, f.Final.Attachments, 2)
	require.Equal(t, "a.png", f.Final.Attachments[0].Filename)
	require.Equal(t, "att_2", f.Final.Attachments[1].ObjectID)
}

func TestReasoningSummaryDoneEmitsOnlySuffix(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out1 := p.Project(context.Background(), rawEvent("response.reasoning_summary_text.delta", map[string]any{
		"item_id": "r_1", "output_index": 0, "summary_index": 0, "delta": "Thinking",
	}), opts)
	require.Len(t, out1, 1)

	out2 := p.Project(context.Background(), rawEvent("response.reasoning_summary_text.done", map[string]any{
		"item_id": "r_1", "output_index": 0, "summary_index": 0, "text": "Thinking about it",
	}), opts)
	require.Len(t, out2, 1)
	d := out2[0].(projector.ReasoningSummaryDeltaEvent)
	require.Equal(t, " about it", d.Delta)

	// A contradicting done text (doesn't extend the accumulated prefix)
	// yields nothing; the accumulated value wins.
	out3 := p.Project(context.Background(), rawEvent("response.reasoning_summary_text.done", map[string]any{
		"item_id": "r_1", "output_index": 0, "summary_index": 0, "text": "Something else entirely",
	}), opts)
	require.Empty(t, out3)
}

func TestToolTypeUpgradeFunctionToAgent(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{
		ConversationID: "conv_1",
		WorkflowMeta:   map[string]any{"agent_tool_names": []any{"sub_researcher"}},
	}

	out := p.Project(context.Background(), rawEvent("response.function_call_arguments.done", map[string]any{
		"item_id": "call_9", "name": "sub_researcher", "arguments": "{}", "output_index": 0,
	}), opts)

	require.Equal(t, []string{"tool.status", "tool.arguments.delta", "tool.arguments.done"}, kindsOf(out))
	status := out[0].(projector.ToolStatusEvent)
	_, ok := status.Tool.(projector.AgentTool)
	require.True(t, ok, "expected tool_type upgraded to agent")

	done := out[2].(projector.ToolArgumentsDoneEvent)
	require.Equal(t, projector.ToolTypeAgent, done.ToolType)
}

func TestScopedSubStreamIsolatesLifecycleButSharesEventIDAndTerminal(t *testing.T) {
	p := projector.New("strm")
	topOpts := projector.ProjectOptions{ConversationID: "conv_1"}

	scopedOpts := topOpts
	scoped := &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "response.created", Raw: map[string]any{},
		Scope: map[string]any{"type": "agent_tool", "tool_call_id": "call_1"},
	}
	topEvt := rawEvent("response.created", map[string]any{})

	outTop := p.Project(context.Background(), topEvt, topOpts)
	outScoped := p.Project(context.Background(), scoped, scopedOpts)

	require.Len(t, outTop, 1)
	require.Len(t, outScoped, 1)
	require.Equal(t, uint64(1), outTop[0].GetEventID())
	require.Equal(t, uint64(2), outScoped[0].GetEventID())

	scopedEnv, ok := outScoped[0].(projector.LifecycleEvent)
	require.True(t, ok)
	require.NotNil(t, scopedEnv.Scope)
	require.Equal(t, "call_1", scopedEnv.Scope.ToolCallID)

	// A terminal error inside the scoped sub-stream still makes the whole
	// instance terminal: the top-level stream sees no further output.
	errOut := p.Project(context.Background(), &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "error", Raw: map[string]any{"message": "scoped failure"},
		Scope: map[string]any{"type": "agent_tool", "tool_call_id": "call_1"},
	}, scopedOpts)
	require.Len(t, errOut, 1)
	_, isErr := errOut[0].(projector.ErrorEvent)
	require.True(t, isErr)

	more := p.Project(context.Background(), rawEvent("response.completed", map[string]any{}), topOpts)
	require.Empty(t, more, "terminal error in a scoped sub-stream must terminate the whole instance")
}

func TestSchemaConstantOnEveryEvent(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out := p.Project(context.Background(), rawEvent("response.output_item.added", map[string]any{
		"output_index": 0, "item": map[string]any{"id": "msg_1", "type": "message", "role": "assistant"},
	}), opts)
	require.NotEmpty(t, out)

	buf, err := json.Marshal(out[0])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf, &m))
	require.Equal(t, "public_sse_v1", m["schema"])
}

func TestItemScopedEventsCarryNonEmptyItemAndOutputIndex(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out := p.Project(context.Background(), rawEvent("response.output_item.added", map[string]any{
		"output_index": 2, "item": map[string]any{"id": "msg_7", "type": "message", "role": "assistant"},
	}), opts)
	require.Len(t, out, 1)
	added := out[0].(projector.OutputItemAddedEvent)
	require.NotEmpty(t, added.ItemID)
	require.GreaterOrEqual(t, added.OutputIndex, 0)
}

func TestMemoryCheckpointCoercesFields(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out := p.Project(context.Background(), &projector.InternalEvent{
		Kind: "lifecycle",
		Payload: map[string]any{
			"event":             "memory_compaction",
			"strategy":          "summarize",
			"tokens_before":     float64(5000),
			"tokens_after":      float64(1200),
			"clear_tool_inputs": true,
			"excluded_tools":    []any{"shell"},
		},
	}, opts)
	require.Len(t, out, 1)
	cp := out[0].(projector.MemoryCheckpointEvent)
	require.Equal(t, "summarize", cp.Checkpoint.Strategy)
	require.EqualValues(t, 5000, *cp.Checkpoint.TokensBefore)
	require.EqualValues(t, 1200, *cp.Checkpoint.TokensAfter)
	require.True(t, *cp.Checkpoint.ClearToolInputs)
	require.Equal(t, []string{"shell"}, cp.Checkpoint.ExcludedTools)
}

func TestCancellationLifecycleDoesNotAutoFinal(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	out := p.Project(context.Background(), &projector.InternalEvent{
		Kind:    "lifecycle",
		Payload: map[string]any{"state": "cancelled", "reason": "user requested"},
	}, opts)
	require.Len(t, out, 1)
	lc := out[0].(projector.LifecycleEvent)
	require.Equal(t, projector.LifecycleCancelled, lc.Status)
	require.Equal(t, "user requested", *lc.Reason)

	// Cancellation alone never sets terminal_emitted; later events still flow.
	more := p.Project(context.Background(), rawEvent("response.output_text.delta", map[string]any{
		"item_id": "msg_1", "output_index": 0, "content_index": 0, "delta": "x",
	}), opts)
	require.NotEmpty(t, more)
}

func TestContainerFileCitationSynthesizesDownloadURL(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_42"}

	out := p.Project(context.Background(), &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "response.output_text.annotation.added",
		Raw: map[string]any{"item_id": "msg_1", "output_index": 0, "content_index": 0},
		Annotations: []map[string]any{
			{"type": "container_file_citation", "container_id": "cntr_1", "file_id": "file_1", "filename": "out.csv"},
		},
	}, opts)
	require.Len(t, out, 1)
	cite := out[0].(projector.MessageCitationEvent)
	cf, ok := cite.Citation.(projector.ContainerFileCitation)
	require.True(t, ok)
	require.NotNil(t, cf.URL)
	require.Contains(t, *cf.URL, "/api/v1/openai/containers/cntr_1/files/file_1/download?")
	require.Contains(t, *cf.URL, "conversation_id=conv_42")
	require.Contains(t, *cf.URL, "filename=out.csv")
}

func TestFinalStatusPrecedence(t *testing.T) {
	t.Run("refusal wins over everything", func(t *testing.T) {
		p := projector.New("strm")
		opts := projector.ProjectOptions{ConversationID: "conv_1"}
		p.Project(context.Background(), rawEvent("response.refusal.done", map[string]any{
			"item_id": "msg_1", "output_index": 0, "content_index": 0, "refusal": "cannot help with that",
		}), opts)
		p.Project(context.Background(), rawEvent("response.failed", map[string]any{}), opts)
		respText := "ignored"
		out := p.Project(context.Background(), &projector.InternalEvent{
			Kind: "lifecycle", IsTerminal: true, ResponseText: &respText,
		}, opts)
		f := out[0].(projector.FinalEvent)
		require.Equal(t, projector.FinalRefused, f.Final.Status)
	})

	t.Run("incomplete when no text or structured output", func(t *testing.T) {
		p := projector.New("strm")
		opts := projector.ProjectOptions{ConversationID: "conv_1"}
		out := p.Project(context.Background(), &projector.InternalEvent{Kind: "lifecycle", IsTerminal: true}, opts)
		f := out[0].(projector.FinalEvent)
		require.Equal(t, projector.FinalIncomplete, f.Final.Status)
	})
}

func TestFileSearchResultsCappedAndTruncated(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	longText := strings.Repeat("x", 2500)
	results := make([]any, 0, 12)
	for i := 0; i < 12; i++ {
		results = append(results, map[string]any{"file_id": "f_" + strings.Repeat("a", i+1), "text": longText})
	}

	out := p.Project(context.Background(), rawEvent("response.output_item.done", map[string]any{
		"output_index": 0,
		"item": map[string]any{
			"id": "fs_1", "type": "file_search_call", "status": "completed",
			"queries": []any{"q1"}, "results": results,
		},
	}), opts)
	require.Equal(t, []string{"tool.status", "output_item.done"}, kindsOf(out))
	status := out[0].(projector.ToolStatusEvent)
	fs := status.Tool.(projector.FileSearchTool)
	require.Len(t, fs.Results, 10)
	require.Len(t, *fs.Results[0].Text, 2000)
	// 10 per-entry truncation notices (every processed entry's text
	// exceeds 2000 chars) plus one list-level truncation marker for the
	// two entries dropped past the 10-result cap.
	require.Len(t, status.Notices, 11)
}

func TestMalformedInputNeverPanics(t *testing.T) {
	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	require.NotPanics(t, func() {
		p.Project(context.Background(), &projector.InternalEvent{Kind: "totally_unknown"}, opts)
		p.Project(context.Background(), &projector.InternalEvent{Kind: "raw_response_event", RawType: "response.nonexistent.thing"}, opts)
		p.Project(context.Background(), &projector.InternalEvent{Kind: "raw_response_event", RawType: "response.output_text.delta", Raw: nil}, opts)
		p.Project(context.Background(), &projector.InternalEvent{}, opts)
	})
}
