package projector

import (
	"strings"

	"goa.design/sse-projector/runtime/projector/agent"
	"goa.design/sse-projector/runtime/projector/sanitize"
)

func asSearchStatus(v *string) string {
	if v == nil {
		return "in_progress"
	}
	switch *v {
	case "in_progress", "searching", "completed":
		return *v
	default:
		return "in_progress"
	}
}

func asCodeInterpreterStatus(v *string) string {
	if v == nil {
		return "in_progress"
	}
	switch *v {
	case "in_progress", "interpreting", "completed":
		return *v
	default:
		return "in_progress"
	}
}

func asImageGenerationStatus(v *string) string {
	if v == nil {
		return "in_progress"
	}
	switch *v {
	case "in_progress", "generating", "partial_image", "completed":
		return *v
	default:
		return "in_progress"
	}
}

// coerceFileSearchResults validates and caps a raw results list, dropping
// any entry that doesn't look like a FileSearchResult and truncating
// oversized text fields. It returns nil results when the input is empty
// or nothing survives validation.
func coerceFileSearchResults(raw []map[string]any, maxResults, maxTextChars int) ([]FileSearchResult, []StreamNotice) {
	if len(raw) == 0 {
		return nil, nil
	}
	var notices []StreamNotice
	results := make([]FileSearchResult, 0, len(raw))
	for idx, item := range raw {
		fileID := asString(item, "file_id")
		if fileID == nil {
			continue
		}
		r := FileSearchResult{
			FileID:        *fileID,
			Filename:      asString(item, "filename"),
			VectorStoreID: asString(item, "vector_store_id"),
			Attributes:    asObject(item, "attributes"),
		}
		if score := item["score"]; score != nil {
			if f, ok := score.(float64); ok {
				r.Score = &f
			}
		}
		if text := asString(item, "text"); text != nil {
			truncated, notice := sanitize.TruncateString(*text, jsonPathIndex("tool.results", idx, "text"), maxTextChars)
			r.Text = &truncated
			if notice != nil {
				notices = append(notices, StreamNotice(*notice))
			}
		}
		results = append(results, r)
		if len(results) >= maxResults {
			break
		}
	}
	if b := agent.NewBounds(len(results), len(raw)); b.Truncated && len(raw) > maxResults {
		notices = append(notices, StreamNotice{
			Type:    "truncated",
			Path:    "tool.results",
			Message: sprintfResultsTruncated(b.Returned),
		})
	}
	if len(results) == 0 {
		return nil, notices
	}
	return results, notices
}

func sprintfResultsTruncated(maxResults int) string {
	return "Results list truncated to " + itoa(maxResults) + " items."
}

func jsonPathIndex(base string, idx int, field string) string {
	return base + "[" + itoa(idx) + "]." + field
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// mergedToolCall is the result of folding a declarative tool_call
// snapshot (as carried on response.output_item.done) into ToolState.
type mergedToolCall struct {
	ToolCallID string
	ToolType   string
	Status     *string
	Notices    []StreamNotice
}

// mergeToolCallIntoState reads a declarative tool-call snapshot (an
// "item" as carried on a response.output_item.done frame) and applies it
// onto the matching ToolState, for the hosted tool types that report
// their full state as one complete snapshot rather than incremental
// deltas.
func mergeToolCallIntoState(state *ProjectionState, item map[string]any) *mergedToolCall {
	toolType, ok := outputItemTypeToToolType[asStringOr(item, "type", "")]
	if !ok {
		return nil
	}
	switch toolType {
	case ToolTypeWebSearch, ToolTypeFileSearch, ToolTypeCodeInterpreter, ToolTypeImageGeneration:
	default:
		return nil
	}
	inner := item
	toolCallID := asString(inner, "id")
	if toolCallID == nil {
		return nil
	}
	ts := state.ToolStateFor(*toolCallID, toolType)
	ts.ToolType = toolType
	status := asString(inner, "status")

	var notices []StreamNotice
	switch toolType {
	case ToolTypeWebSearch:
		if action := asObject(inner, "action"); action != nil {
			if q := asString(action, "query"); q != nil {
				ts.Query = q
			}
		}
	case ToolTypeFileSearch:
		if queries := asStringSlice(inner, "queries"); queries != nil {
			ts.FileSearchQueries = queries
		}
		if rawResults := asObjectSlice(inner, "results"); rawResults != nil {
			results, n := coerceFileSearchResults(rawResults, 10, 2000)
			ts.FileSearchResults = results
			notices = n
		}
	case ToolTypeCodeInterpreter:
		if cid := asString(inner, "container_id"); cid != nil {
			ts.ContainerID = cid
		}
		if mode := asString(inner, "container_mode"); mode != nil && (*mode == "auto" || *mode == "explicit") {
			ts.ContainerMode = mode
		}
	case ToolTypeImageGeneration:
		if v := asString(inner, "revised_prompt"); v != nil {
			ts.ImageRevisedPrompt = v
		}
		if v := asString(inner, "format"); v != nil {
			ts.ImageFormat = v
		}
		if v := asString(inner, "size"); v != nil {
			ts.ImageSize = v
		}
		if v := asString(inner, "quality"); v != nil {
			ts.ImageQuality = v
		}
		if v := asString(inner, "background"); v != nil {
			ts.ImageBackground = v
		}
		if v := asInt(inner, "partial_image_index"); v != nil {
			ts.ImagePartialIndex = v
		}
	}
	return &mergedToolCall{ToolCallID: *toolCallID, ToolType: toolType, Status: status, Notices: notices}
}

// argsToolTypeFromRawType classifies a function/mcp/custom-tool arguments
// raw_type into the two-way split the wire schema's tool_type uses for
// argument streaming events.
func argsToolTypeFromRawType(rawType string) string {
	if strings.Contains(rawType, "mcp_") {
		return ToolTypeMCP
	}
	return ToolTypeFunction
}

// toolNameFromRunItem infers a tool name from a run item's declared type
// when the item doesn't carry an explicit name of its own.
func toolNameFromRunItem(raw map[string]any) *string {
	if name := asString(raw, "name"); name != nil {
		return name
	}
	switch asStringOr(raw, "type", "") {
	case "web_search_call":
		return strPtr(ToolTypeWebSearch)
	case "file_search_call":
		return strPtr(ToolTypeFileSearch)
	case "code_interpreter_call":
		return strPtr(ToolTypeCodeInterpreter)
	case "image_generation_call":
		return strPtr(ToolTypeImageGeneration)
	default:
		return nil
	}
}

func strPtr(s string) *string { return &s }
