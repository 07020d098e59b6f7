// internal/workers/manufacturer/create-manufacturer-record/validation.go
package createmanufacturerrecord

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// registrationSchema constrains the registration payload before any
// database work. MOQ must be non-negative; name and contact email are
// the minimum viable registration.
const registrationSchema = `{
	"type": "object",
	"required": ["businessId", "profile"],
	"properties": {
		"businessId": {"type": "string", "minLength": 1},
		"profile": {
			"type": "object",
			"required": ["name", "contactEmail"],
			"properties": {
				"name": {"type": "string", "minLength": 1, "maxLength": 255},
				"description": {"type": "string", "maxLength": 5000},
				"industry": {"type": "string", "maxLength": 255},
				"contactEmail": {"type": "string", "format": "email"},
				"servicesOffered": {"type": "array", "items": {"type": "string"}},
				"moq": {"type": "integer", "minimum": 0},
				"headquarters": {
					"type": "object",
					"properties": {
						"country": {"type": "string"},
						"city": {"type": "string"},
						"address": {"type": "string"}
					}
				},
				"certifications": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(registrationSchema)

// ValidatePayload checks the raw job variables against the registration
// schema and returns a joined message of every violation.
func ValidatePayload(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid registration payload: %s", strings.Join(msgs, "; "))
}
