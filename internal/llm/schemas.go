package llm

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Response schemas guard against structurally invalid model output
// before it reaches typed decoding.

var classificationSchema = jsonschema.MustCompileString("classification.json", `{
	"type": "object",
	"required": ["category", "confidence"],
	"properties": {
		"category": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"reasoning": {"type": "string"},
		"is_relevant": {"type": "boolean"}
	}
}`)

var extractionSchema = jsonschema.MustCompileString("extraction.json", `{
	"type": "object",
	"properties": {
		"client_name": {"type": ["string", "null"]},
		"case_title": {"type": ["string", "null"]},
		"field_updates": {
			"type": "object",
			"additionalProperties": {"type": ["string", "number"]}
		},
		"missing_fields": {
			"type": "array",
			"items": {"type": "string"}
		},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"additional_context": {"type": "object"}
	}
}`)

func validateSchema(schema *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
