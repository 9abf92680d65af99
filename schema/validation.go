package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const (
	typeObject  = "object"
	typeArray   = "array"
	typeString  = "string"
	typeInteger = "integer"
	typeNumber  = "number"
	typeBoolean = "boolean"
)

// ValidationError describes one schema violation.
type ValidationError struct {
	Path    string // JSON path to the invalid field, e.g. "user.email"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, err := range e {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate checks raw JSON against the schema. It returns nil when
// valid and ValidationErrors listing every violation otherwise.
func (s *Schema) Validate(data json.RawMessage) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &ValidationError{Message: fmt.Sprintf("invalid JSON: %s", err)}
	}
	return s.ValidateValue(value)
}

// ValidateValue checks a decoded Go value against the schema.
func (s *Schema) ValidateValue(value any) error {
	var errs ValidationErrors
	s.check("", value, &errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *Schema) check(path string, value any, errs *ValidationErrors) {
	// Required fields are enforced at the object level; a present null
	// satisfies any type.
	if value == nil {
		return
	}

	switch s.Type {
	case typeObject:
		s.checkObject(path, value, errs)
	case typeArray:
		s.checkArray(path, value, errs)
	case typeString:
		s.checkString(path, value, errs)
	case typeInteger:
		s.checkNumeric(path, value, errs, true)
	case typeNumber:
		s.checkNumeric(path, value, errs, false)
	case typeBoolean:
		if _, ok := value.(bool); !ok {
			fail(errs, path, "expected boolean, got %T", value)
		}
	}
}

func (s *Schema) checkObject(path string, value any, errs *ValidationErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		fail(errs, path, "expected object, got %T", value)
		return
	}

	for _, req := range s.Required {
		if _, exists := obj[req]; !exists {
			fail(errs, joinPath(path, req), "required field is missing")
		}
	}

	for name, prop := range s.Properties {
		if val, exists := obj[name]; exists {
			prop.check(joinPath(path, name), val, errs)
		}
	}
}

func (s *Schema) checkArray(path string, value any, errs *ValidationErrors) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		fail(errs, path, "expected array, got %T", value)
		return
	}

	if s.Items == nil {
		return
	}
	for i := 0; i < rv.Len(); i++ {
		s.Items.check(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface(), errs)
	}
}

func (s *Schema) checkString(path string, value any, errs *ValidationErrors) {
	str, ok := value.(string)
	if !ok {
		fail(errs, path, "expected string, got %T", value)
		return
	}

	if len(s.Enum) > 0 {
		for _, e := range s.Enum {
			if e == str {
				return
			}
		}
		fail(errs, path, "value must be one of: %v", s.Enum)
	}
}

func (s *Schema) checkNumeric(path string, value any, errs *ValidationErrors, wantInteger bool) {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
		if wantInteger && num != float64(int64(num)) {
			fail(errs, path, "expected integer, got decimal number")
			return
		}
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	default:
		if wantInteger {
			fail(errs, path, "expected integer, got %T", value)
		} else {
			fail(errs, path, "expected number, got %T", value)
		}
		return
	}

	if s.Minimum != nil && num < *s.Minimum {
		fail(errs, path, "value %v is less than minimum %v", num, *s.Minimum)
	}
	if s.Maximum != nil && num > *s.Maximum {
		fail(errs, path, "value %v is greater than maximum %v", num, *s.Maximum)
	}
}

func fail(errs *ValidationErrors, path, format string, args ...any) {
	*errs = append(*errs, &ValidationError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
