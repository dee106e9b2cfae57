package schema

// PublicSseV1Schema is the JSON Schema document describing the
// public_sse_v1 wire contract: the envelope fields common to every event,
// and the 23 discriminated variants dispatched on "kind". It validates
// required fields and the closed enums (status, tool_type, and so on); it
// does not forbid unknown fields (no additionalProperties:false) — see
// DESIGN.md for why.
const PublicSseV1Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "public_sse_v1.json",
  "title": "public_sse_v1 event",
  "type": "object",
  "required": ["schema", "kind", "event_id", "stream_id", "server_timestamp", "conversation_id"],
  "properties": {
    "schema": { "const": "public_sse_v1" },
    "kind": {
      "enum": [
        "lifecycle", "memory.checkpoint", "agent.updated",
        "output_item.added", "output_item.done",
        "message.delta", "message.citation",
        "reasoning_summary.delta", "reasoning_summary.part.added", "reasoning_summary.part.done",
        "refusal.delta", "refusal.done",
        "tool.status", "tool.arguments.delta", "tool.arguments.done",
        "tool.code.delta", "tool.code.done", "tool.output", "tool.approval",
        "chunk.delta", "chunk.done",
        "error", "final"
      ]
    },
    "event_id": { "type": "integer", "minimum": 1 },
    "stream_id": { "type": "string", "minLength": 1 },
    "server_timestamp": { "type": "string" },
    "conversation_id": { "type": "string" },
    "response_id": { "type": ["string", "null"] },
    "agent": { "type": ["string", "null"] },
    "workflow": { "type": ["object", "null"] },
    "scope": {
      "type": ["object", "null"],
      "properties": {
        "type": { "const": "agent_tool" },
        "tool_call_id": { "type": "string" },
        "tool_name": { "type": ["string", "null"] },
        "agent": { "type": ["string", "null"] }
      },
      "required": ["type", "tool_call_id"]
    },
    "provider_sequence_number": { "type": ["integer", "null"] },
    "notices": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["type", "path", "message"],
        "properties": {
          "type": { "enum": ["redacted", "truncated"] },
          "path": { "type": "string" },
          "message": { "type": "string" }
        }
      }
    },
    "item_id": { "type": "string" },
    "output_index": { "type": "integer", "minimum": 0 }
  },
  "allOf": [
    {
      "if": { "properties": { "kind": { "const": "lifecycle" } } },
      "then": {
        "required": ["status"],
        "properties": {
          "status": { "enum": ["queued", "in_progress", "completed", "failed", "incomplete", "cancelled"] },
          "reason": { "type": ["string", "null"] }
        }
      }
    },
    {
      "if": { "properties": { "kind": { "const": "memory.checkpoint" } } },
      "then": { "required": ["checkpoint"] }
    },
    {
      "if": { "properties": { "kind": { "const": "agent.updated" } } },
      "then": { "required": ["to_agent"] }
    },
    {
      "if": { "properties": { "kind": { "enum": ["output_item.added", "output_item.done"] } } },
      "then": { "required": ["item_id", "output_index", "item_type"] }
    },
    {
      "if": { "properties": { "kind": { "const": "message.delta" } } },
      "then": { "required": ["item_id", "output_index", "content_index", "delta"] }
    },
    {
      "if": { "properties": { "kind": { "const": "message.citation" } } },
      "then": { "required": ["item_id", "output_index", "content_index", "citation"] }
    },
    {
      "if": { "properties": { "kind": { "const": "tool.status" } } },
      "then": { "required": ["item_id", "output_index", "tool"] }
    },
    {
      "if": { "properties": { "kind": { "enum": ["tool.arguments.delta", "tool.arguments.done"] } } },
      "then": {
        "required": ["tool_call_id", "tool_type", "tool_name"],
        "properties": { "tool_type": { "enum": ["function", "mcp", "agent"] } }
      }
    },
    {
      "if": { "properties": { "kind": { "enum": ["chunk.delta", "chunk.done"] } } },
      "then": { "required": ["target"] }
    },
    {
      "if": { "properties": { "kind": { "const": "error" } } },
      "then": { "required": ["error"] }
    },
    {
      "if": { "properties": { "kind": { "const": "final" } } },
      "then": { "required": ["final"] }
    }
  ]
}`
