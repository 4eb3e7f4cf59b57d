package tool

import "fmt"

// ParamKind tags the accepted type of a parameter. The set mirrors the JSON
// primitive types a content generator can emit for function arguments.
type ParamKind string

const (
	// ParamString accepts string values.
	ParamString ParamKind = "string"
	// ParamNumber accepts any numeric value.
	ParamNumber ParamKind = "number"
	// ParamInteger accepts whole numeric values.
	ParamInteger ParamKind = "integer"
	// ParamBoolean accepts booleans.
	ParamBoolean ParamKind = "boolean"
	// ParamArray accepts slices.
	ParamArray ParamKind = "array"
	// ParamObject accepts nested maps.
	ParamObject ParamKind = "object"
)

// Param declares a single named parameter.
type Param struct {
	Kind        ParamKind `json:"kind"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	// Enum restricts a string parameter to the listed values.
	Enum []string `json:"enum,omitempty"`
}

// Schema maps parameter names to their declarations.
type Schema map[string]Param

// ValidationError reports a single failed parameter check.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Validate checks args against the schema: required fields must be present,
// present fields must match their declared kind, and enum-restricted strings
// must take a listed value. Unknown argument names are rejected.
func (s Schema) Validate(args map[string]any) error {
	for name, p := range s {
		v, ok := args[name]
		if !ok {
			if p.Required {
				return &ValidationError{Field: name, Message: "required field is missing"}
			}
			continue
		}
		if err := p.check(name, v); err != nil {
			return err
		}
	}
	for name := range args {
		if _, ok := s[name]; !ok {
			return &ValidationError{Field: name, Value: args[name], Message: "unknown field"}
		}
	}
	return nil
}

func (p Param) check(name string, v any) error {
	switch p.Kind {
	case ParamString:
		str, ok := v.(string)
		if !ok {
			return &ValidationError{Field: name, Value: v, Message: "expected type string"}
		}
		if len(p.Enum) > 0 {
			for _, e := range p.Enum {
				if str == e {
					return nil
				}
			}
			return &ValidationError{Field: name, Value: v, Message: fmt.Sprintf("value not in enum %v", p.Enum)}
		}
	case ParamNumber:
		switch v.(type) {
		case float64, float32, int, int32, int64:
		default:
			return &ValidationError{Field: name, Value: v, Message: "expected type number"}
		}
	case ParamInteger:
		switch n := v.(type) {
		case int, int32, int64:
		case float64:
			if n != float64(int64(n)) {
				return &ValidationError{Field: name, Value: v, Message: "expected type integer"}
			}
		default:
			return &ValidationError{Field: name, Value: v, Message: "expected type integer"}
		}
	case ParamBoolean:
		if _, ok := v.(bool); !ok {
			return &ValidationError{Field: name, Value: v, Message: "expected type boolean"}
		}
	case ParamArray:
		if _, ok := v.([]any); !ok {
			return &ValidationError{Field: name, Value: v, Message: "expected type array"}
		}
	case ParamObject:
		if _, ok := v.(map[string]any); !ok {
			return &ValidationError{Field: name, Value: v, Message: "expected type object"}
		}
	default:
		return &ValidationError{Field: name, Value: v, Message: fmt.Sprintf("unknown parameter kind %q", p.Kind)}
	}
	return nil
}

// JSONSchema renders the schema as a minimal JSON-Schema-like map for
// exposure to content generators.
func (s Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s))
	var required []string
	for name, p := range s {
		prop := map[string]any{"type": string(p.Kind)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	schema := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
