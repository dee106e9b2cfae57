// Package schema compiles and validates the public_sse_v1 wire contract
// using a real JSON Schema document.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator compiles the public_sse_v1 document once and validates
// arbitrary decoded event documents against it.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles the embedded public_sse_v1 schema document.
func Compile() (*Validator, error) {
	var doc any
	if err := json.Unmarshal([]byte(PublicSseV1Schema), &doc); err != nil {
		return nil, fmt.Errorf("schema: unmarshal public_sse_v1 document: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("public_sse_v1.json", doc); err != nil {
		return nil, fmt.Errorf("schema: add public_sse_v1 resource: %w", err)
	}
	compiled, err := c.Compile("public_sse_v1.json")
	if err != nil {
		return nil, fmt.Errorf("schema: compile public_sse_v1: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// ValidateJSON validates a single marshaled public event against the
// public_sse_v1 schema.
func (v *Validator) ValidateJSON(eventJSON []byte) error {
	var doc any
	if err := json.Unmarshal(eventJSON, &doc); err != nil {
		return fmt.Errorf("schema: unmarshal event: %w", err)
	}
	return v.schema.Validate(doc)
}
