package projector

import "goa.design/sse-projector/runtime/projector/agent"

// PublicTool is implemented by every tool-specific payload carried on a
// tool.status event. Concrete types are plain structs; the interface exists
// only so ToolStatusEvent.Tool can't accidentally hold an unrelated value.
type PublicTool interface {
	isPublicTool()
}

// FileSearchResult is one hit returned by a file_search tool call.
type FileSearchResult struct {
	FileID        string         `json:"file_id"`
	Filename      *string        `json:"filename"`
	Score         *float64       `json:"score"`
	VectorStoreID *string        `json:"vector_store_id"`
	Attributes    map[string]any `json:"attributes"`
	Text          *string        `json:"text"`
}

type WebSearchTool struct {
	ToolType   string   `json:"tool_type"`
	ToolCallID string   `json:"tool_call_id"`
	Status     string   `json:"status"`
	Query      *string  `json:"query"`
	Sources    []string `json:"sources"`
}

type FileSearchTool struct {
	ToolType   string             `json:"tool_type"`
	ToolCallID string             `json:"tool_call_id"`
	Status     string             `json:"status"`
	Queries    []string           `json:"queries"`
	Results    []FileSearchResult `json:"results"`
}

type CodeInterpreterTool struct {
	ToolType      string  `json:"tool_type"`
	ToolCallID    string  `json:"tool_call_id"`
	Status        string  `json:"status"`
	ContainerID   *string `json:"container_id"`
	ContainerMode *string `json:"container_mode"`
}

type ImageGenerationTool struct {
	ToolType           string  `json:"tool_type"`
	ToolCallID         string  `json:"tool_call_id"`
	Status             string  `json:"status"`
	RevisedPrompt      *string `json:"revised_prompt"`
	Format             *string `json:"format"`
	Size               *string `json:"size"`
	Quality            *string `json:"quality"`
	Background         *string `json:"background"`
	PartialImageIndex  *int    `json:"partial_image_index"`
}

type FunctionTool struct {
	ToolType      string         `json:"tool_type"`
	ToolCallID    string         `json:"tool_call_id"`
	Status        string         `json:"status"`
	Name          string         `json:"name"`
	ArgumentsText *string        `json:"arguments_text"`
	ArgumentsJSON map[string]any `json:"arguments_json"`
	Output        any            `json:"output"`
}

type McpTool struct {
	ToolType      string         `json:"tool_type"`
	ToolCallID    string         `json:"tool_call_id"`
	Status        string         `json:"status"`
	ToolName      string         `json:"tool_name"`
	ServerLabel   *string        `json:"server_label"`
	ArgumentsText *string        `json:"arguments_text"`
	ArgumentsJSON map[string]any `json:"arguments_json"`
	Output        any            `json:"output"`
}

type AgentTool struct {
	ToolType   string       `json:"tool_type"`
	ToolCallID string       `json:"tool_call_id"`
	Status     string       `json:"status"`
	Name       string       `json:"name"`
	Agent      *agent.Ident `json:"agent"`
}

func (WebSearchTool) isPublicTool()       {}
func (FileSearchTool) isPublicTool()      {}
func (CodeInterpreterTool) isPublicTool() {}
func (ImageGenerationTool) isPublicTool() {}
func (FunctionTool) isPublicTool()        {}
func (McpTool) isPublicTool()             {}
func (AgentTool) isPublicTool()           {}

// Tool type discriminants, mirrored from ToolType so handler code can
// compare against named constants instead of string literals.
const (
	ToolTypeWebSearch       = "web_search"
	ToolTypeFileSearch      = "file_search"
	ToolTypeCodeInterpreter = "code_interpreter"
	ToolTypeImageGeneration = "image_generation"
	ToolTypeFunction        = "function"
	ToolTypeMCP             = "mcp"
	ToolTypeAgent           = "agent"
)
