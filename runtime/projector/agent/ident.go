// Package agent provides the strong identifier type used for the
// tool-state agent_name and the agent tool payload's `agent` field.
package agent

// Ident is the strong type for agent names carried on ToolState and on the
// AgentTool payload of a tool.status event. The envelope's own `agent`
// field is a plain string. Use this type instead of a bare string to avoid
// mixing agent names with other identifiers in maps or APIs.
type Ident string
