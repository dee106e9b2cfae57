package schema_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/sse-projector/runtime/projector"
	"goa.design/sse-projector/runtime/projector/schema"
)

func TestValidateEmittedEventsAgainstPublicSchema(t *testing.T) {
	v, err := schema.Compile()
	require.NoError(t, err)

	p := projector.New("strm")
	opts := projector.ProjectOptions{ConversationID: "conv_1"}

	var events []projector.PublicEvent
	events = append(events, p.Project(context.Background(), &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "response.created", Raw: map[string]any{},
	}, opts)...)
	events = append(events, p.Project(context.Background(), &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "response.output_item.added",
		Raw: map[string]any{"output_index": 0, "item": map[string]any{"id": "msg_1", "type": "message", "role": "assistant"}},
	}, opts)...)
	events = append(events, p.Project(context.Background(), &projector.InternalEvent{
		Kind: "raw_response_event", RawType: "response.output_text.delta",
		Raw: map[string]any{"item_id": "msg_1", "output_index": 0, "content_index": 0, "delta": "hi"},
	}, opts)...)
	respText := "hi"
	events = append(events, p.Project(context.Background(), &projector.InternalEvent{
		Kind: "lifecycle", IsTerminal: true, ResponseText: &respText,
	}, opts)...)

	require.NotEmpty(t, events)
	for _, e := range events {
		buf, err := json.Marshal(e)
		require.NoError(t, err)
		require.NoErrorf(t, v.ValidateJSON(buf), "event failed schema validation: %s", buf)
	}
}

func TestValidateErrorEventAgainstPublicSchema(t *testing.T) {
	v, err := schema.Compile()
	require.NoError(t, err)

	p := projector.New("strm")
	out := p.ProjectError(context.Background(), projector.ErrorOptions{
		ConversationID: "conv_1", Message: "boom", Source: "server",
	})
	require.Len(t, out, 1)
	buf, err := json.Marshal(out[0])
	require.NoError(t, err)
	require.NoError(t, v.ValidateJSON(buf))
}
