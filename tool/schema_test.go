package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	schema := Schema{
		"query": {Kind: ParamString, Required: true},
		"limit": {Kind: ParamInteger},
		"mode":  {Kind: ParamString, Enum: []string{"fast", "thorough"}},
		"flags": {Kind: ParamArray},
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
		field   string
	}{
		{name: "valid full", args: map[string]any{"query": "q", "limit": 3, "mode": "fast", "flags": []any{"a"}}},
		{name: "valid minimal", args: map[string]any{"query": "q"}},
		{name: "missing required", args: map[string]any{"limit": 3}, wantErr: true, field: "query"},
		{name: "wrong kind", args: map[string]any{"query": 7}, wantErr: true, field: "query"},
		{name: "enum violation", args: map[string]any{"query": "q", "mode": "sloppy"}, wantErr: true, field: "mode"},
		{name: "unknown field", args: map[string]any{"query": "q", "bogus": true}, wantErr: true, field: "bogus"},
		{name: "json number as integer", args: map[string]any{"query": "q", "limit": float64(5)}},
		{name: "fractional as integer", args: map[string]any{"query": "q", "limit": 5.5}, wantErr: true, field: "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.args)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSchemaJSONSchema(t *testing.T) {
	schema := Schema{
		"city": {Kind: ParamString, Description: "city name", Required: true},
		"days": {Kind: ParamInteger},
	}
	js := schema.JSONSchema()
	assert.Equal(t, "object", js["type"])

	props, ok := js["properties"].(map[string]any)
	require.True(t, ok)
	city, ok := props["city"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "city name", city["description"])

	assert.Equal(t, []string{"city"}, js["required"])
}
