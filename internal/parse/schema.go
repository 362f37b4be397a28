package parse

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Recovered payloads are structurally validated before typed mapping, so a
// syntactically valid response with the wrong shape (a JSON string, an
// array of numbers) is rejected up front with a clear diagnostic.

const votersSchemaSrc = `{
	"oneOf": [
		{"type": "array", "items": {"type": "object"}},
		{
			"type": "object",
			"properties": {
				"voters": {"type": "array", "items": {"type": "object"}}
			}
		}
	]
}`

const headerSchemaSrc = `{"type": "object"}`

var (
	votersSchema = jsonschema.MustCompileString("voters.json", votersSchemaSrc)
	headerSchema = jsonschema.MustCompileString("header.json", headerSchemaSrc)
)

func validateVotersPayload(payload json.RawMessage) error {
	return validate(votersSchema, payload)
}

func validateHeaderPayload(payload json.RawMessage) error {
	return validate(headerSchema, payload)
}

func validate(schema *jsonschema.Schema, payload json.RawMessage) error {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("payload shape: %w", err)
	}
	return nil
}
