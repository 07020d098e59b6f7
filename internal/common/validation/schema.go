package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// JSONSchema describes the expected shape of a worker input payload.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput checks a decoded payload against a schema and collects every
// violation instead of stopping at the first one.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	errors := []ValidationError{}

	for _, required := range schema.Required {
		if _, ok := input[required]; !ok {
			errors = append(errors, ValidationError{
				Field:   required,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for name, value := range input {
		prop, ok := schema.Properties[name]
		if !ok {
			if !schema.AdditionalProperties {
				errors = append(errors, ValidationError{
					Field:   name,
					Message: "field not allowed in schema",
					Code:    "EXTRA_FIELD",
				})
			}
			continue
		}
		errors = append(errors, validateField(name, value, prop)...)
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func validateField(field string, value interface{}, prop Property) []ValidationError {
	if err := checkType(value, prop.Type); err != nil {
		return []ValidationError{{
			Field:   field,
			Message: err.Error(),
			Code:    "INVALID_TYPE",
		}}
	}

	var errors []ValidationError

	switch v := value.(type) {
	case string:
		errors = append(errors, checkString(field, v, prop)...)
	case float64:
		errors = append(errors, checkBounds(field, v, prop)...)
	case []interface{}:
		if prop.Items != nil {
			for i, item := range v {
				errors = append(errors, validateField(fmt.Sprintf("%s[%d]", field, i), item, *prop.Items)...)
			}
		}
	case map[string]interface{}:
		if prop.Properties != nil {
			nested := ValidateInput(v, JSONSchema{
				Type:                 "object",
				Properties:           prop.Properties,
				Required:             prop.Required,
				AdditionalProperties: true,
			})
			for _, e := range nested.Errors {
				errors = append(errors, ValidationError{
					Field:   field + "." + e.Field,
					Message: e.Message,
					Code:    e.Code,
				})
			}
		}
	}

	return errors
}

func checkString(field, value string, prop Property) []ValidationError {
	var errors []ValidationError

	if prop.MinLength != nil && len(value) < *prop.MinLength {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be at least %d characters", *prop.MinLength),
			Code:    "MIN_LENGTH_VIOLATION",
		})
	}
	if prop.MaxLength != nil && len(value) > *prop.MaxLength {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be at most %d characters", *prop.MaxLength),
			Code:    "MAX_LENGTH_VIOLATION",
		})
	}
	if prop.Pattern != nil {
		matched, err := regexp.MatchString(*prop.Pattern, value)
		if err != nil || !matched {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("value must match pattern %s", *prop.Pattern),
				Code:    "PATTERN_MISMATCH",
			})
		}
	}
	if len(prop.Enum) > 0 && !contains(prop.Enum, value) {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be one of %v", prop.Enum),
			Code:    "INVALID_ENUM_VALUE",
		})
	}

	return errors
}

func checkBounds(field string, value float64, prop Property) []ValidationError {
	var errors []ValidationError

	if prop.Minimum != nil && value < *prop.Minimum {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be >= %v", *prop.Minimum),
			Code:    "MINIMUM_VIOLATION",
		})
	}
	if prop.Maximum != nil && value > *prop.Maximum {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be <= %v", *prop.Maximum),
			Code:    "MAXIMUM_VIOLATION",
		})
	}

	return errors
}

func checkType(value interface{}, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number", "integer":
		if !isNumeric(value) {
			return fmt.Errorf("expected %s, got %T", expected, value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	}
	return nil
}

// json.Unmarshal decodes payload numbers as float64; typed inputs built in
// tests may carry Go ints.
func isNumeric(value interface{}) bool {
	switch value.(type) {
	case float64, int, int32, int64:
		return true
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ValidateTaskTypeNaming enforces the kebab-case convention used by the
// activity registry (e.g. calculate-profile-score).
func ValidateTaskTypeNaming(taskType string) error {
	kebab := regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
	if !kebab.MatchString(taskType) {
		return fmt.Errorf("task type must be kebab-case, e.g. calculate-profile-score")
	}
	return nil
}

// GetErrorMessages flattens the result into "field: message" strings for
// BPMN error payloads.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors reports whether the field or any of its nested paths failed.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			return true
		}
	}
	return false
}

// ValidateEmail checks the basic shape of a notification recipient address.
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidatePhone checks the basic shape of an SMS recipient number.
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	return phonePattern.MatchString(phone)
}
