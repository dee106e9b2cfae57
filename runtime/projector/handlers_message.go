package projector

import (
	"fmt"
	"net/url"
)

func projectMessageDeltas(b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" || ev.RawType != "response.output_text.delta" {
		return nil
	}
	delta := asString(ev.Raw, "delta")
	scope := itemScopeFromRaw(ev.Raw, "item_id")
	contentIndex := asInt(ev.Raw, "content_index")
	if delta == nil || scope == nil || contentIndex == nil {
		return nil
	}
	return []PublicEvent{MessageDeltaEvent{
		ItemEnvelope: b.itemEnvelope("message.delta", scope.ItemID, scope.OutputIndex, ev.Sequence, nil),
		ContentIndex: *contentIndex,
		Delta:        *delta,
	}}
}

// synthesizeContainerFileURL builds a stand-in download URL for a
// container_file_citation whose raw frame didn't carry one:
// /api/v1/openai/containers/{container_id}/files/{file_id}/download with
// conversation_id and, when present, filename as query parameters.
func synthesizeContainerFileURL(containerID, fileID, conversationID string, filename *string) string {
	qs := url.Values{}
	qs.Set("conversation_id", conversationID)
	if filename != nil && *filename != "" {
		qs.Set("filename", *filename)
	}
	return fmt.Sprintf("/api/v1/openai/containers/%s/files/%s/download?%s", containerID, fileID, qs.Encode())
}

func projectCitations(state *ProjectionState, b *eventBuilder, ev *InternalEvent) []PublicEvent {
	if ev.Kind != "raw_response_event" || ev.RawType != "response.output_text.annotation.added" {
		return nil
	}
	scope := itemScopeFromRaw(ev.Raw, "item_id")
	contentIndex := asInt(ev.Raw, "content_index")

	var out []PublicEvent
	for _, annotation := range ev.Annotations {
		annotationType := asStringOr(annotation, "type", "")
		var citation PublicCitation
		switch annotationType {
		case "url_citation":
			url := asString(annotation, "url")
			if url == nil {
				continue
			}
			uc := UrlCitation{
				Type:       "url_citation",
				StartIndex: asIntOr(annotation, "start_index", 0),
				EndIndex:   asIntOr(annotation, "end_index", 0),
				Title:      asString(annotation, "title"),
				URL:        *url,
			}
			citation = uc
			if state.LastWebSearchToolCallID != nil {
				ts := state.ToolState[*state.LastWebSearchToolCallID]
				if ts != nil && !containsString(ts.Sources, uc.URL) {
					ts.Sources = append(ts.Sources, uc.URL)
					if outputIndex := toolScope(*state.LastWebSearchToolCallID, state, nil); outputIndex != nil {
						out = append(out, ToolStatusEvent{
							ItemEnvelope: b.itemEnvelope("tool.status", *state.LastWebSearchToolCallID, *outputIndex, nil, nil),
							Tool: WebSearchTool{
								ToolType:   ToolTypeWebSearch,
								ToolCallID: *state.LastWebSearchToolCallID,
								Status:     asSearchStatus(ts.LastStatus),
								Query:      ts.Query,
								Sources:    ts.Sources,
							},
						})
					}
				}
			}
		case "container_file_citation":
			containerID := asStringOr(annotation, "container_id", "")
			fileID := asStringOr(annotation, "file_id", "")
			if containerID == "" || fileID == "" {
				continue
			}
			filename := asString(annotation, "filename")
			url := asString(annotation, "url")
			if url == nil {
				synthesized := synthesizeContainerFileURL(containerID, fileID, b.conversationID, filename)
				url = &synthesized
			}
			citation = ContainerFileCitation{
				Type:        "container_file_citation",
				StartIndex:  asIntOr(annotation, "start_index", 0),
				EndIndex:    asIntOr(annotation, "end_index", 0),
				ContainerID: containerID,
				FileID:      fileID,
				Filename:    filename,
				URL:         url,
			}
		default:
			fileID := asStringOr(annotation, "file_id", "")
			if fileID == "" {
				continue
			}
			citation = FileCitation{
				Type:       "file_citation",
				StartIndex: asInt(annotation, "start_index"),
				EndIndex:   asInt(annotation, "end_index"),
				Index:      asInt(annotation, "index"),
				FileID:     fileID,
				Filename:   asString(annotation, "filename"),
			}
		}

		if scope == nil || contentIndex == nil {
			continue
		}
		out = append(out, MessageCitationEvent{
			ItemEnvelope: b.itemEnvelope("message.citation", scope.ItemID, scope.OutputIndex, nil, nil),
			ContentIndex: *contentIndex,
			Citation:     citation,
		})
	}
	return out
}

func asIntOr(m map[string]any, key string, fallback int) int {
	if v := asInt(m, key); v != nil {
		return *v
	}
	return fallback
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
