// internal/workers/manufacturer/match-criteria/validation.go
package matchcriteria

import "marketplace-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"manufacturer"},
		Properties: map[string]validation.Property{
			"manufacturer": {
				Type:        "object",
				Description: "Manufacturer profile to evaluate",
			},
			"criteria": {
				Type:        "object",
				Description: "Criteria set; empty criteria match vacuously",
				Properties: map[string]validation.Property{
					"industry": {
						Type:        "string",
						Description: "Single required industry",
					},
					"industries": {
						Type:        "array",
						Description: "Accepted industries; takes precedence over industry",
						Items:       &validation.Property{Type: "string"},
					},
					"requiredServices": {
						Type:        "array",
						Description: "Services the manufacturer must all offer",
						Items:       &validation.Property{Type: "string"},
					},
					"moqRange": {
						Type:        "object",
						Description: "Inclusive MOQ bounds",
						Properties: map[string]validation.Property{
							"min": {Type: "number", Minimum: floatPtr(0)},
							"max": {Type: "number", Minimum: floatPtr(0)},
						},
					},
				},
			},
		},
		AdditionalProperties: false,
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
