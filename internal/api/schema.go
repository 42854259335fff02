package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxLetterPhotos matches the photo picker of the letter editor.
const maxLetterPhotos = 6

const cardSchemaJSON = `{
  "type": "object",
  "properties": {
    "recipient_name":  {"type": "string", "maxLength": 255},
    "girlfriend_name": {"type": "string", "maxLength": 255},
    "sender_name":     {"type": "string", "maxLength": 255},
    "description":     {"type": "string"},
    "photos":          {"type": ["array", "null"], "items": {"type": "string"}}
  },
  "required": ["sender_name", "description"],
  "anyOf": [
    {"required": ["recipient_name"]},
    {"required": ["girlfriend_name"]}
  ]
}`

var letterSchemaJSON = fmt.Sprintf(`{
  "type": "object",
  "properties": {
    "letter_type":    {"type": "string", "minLength": 1, "maxLength": 64},
    "recipient_name": {"type": "string", "maxLength": 255},
    "sender_name":    {"type": "string", "maxLength": 255},
    "context":        {"type": "string"},
    "custom_prompt":  {"type": ["string", "null"]},
    "tone":           {"type": ["string", "null"], "maxLength": 64},
    "photos":         {"type": ["array", "null"], "items": {"type": "string"}, "maxItems": %d},
    "template":       {"type": ["string", "null"], "maxLength": 64},
    "font":           {"type": ["string", "null"], "maxLength": 64},
    "color_scheme":   {"type": ["string", "null"], "maxLength": 64}
  },
  "required": ["letter_type", "recipient_name", "sender_name", "context"]
}`, maxLetterPhotos)

var (
	cardSchema   = mustSchema(cardSchemaJSON)
	letterSchema = mustSchema(letterSchemaJSON)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("api: invalid built-in schema: %v", err))
	}
	return schema
}

// validateBody checks a raw JSON body against schema. The returned error
// lists every violation and is safe to show to clients.
func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
