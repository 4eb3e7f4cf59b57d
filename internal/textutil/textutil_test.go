package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "simple words", input: "Deploy the API", expected: []string{"deploy", "the", "api"}},
		{name: "punctuation split", input: "re-design: landing_page!", expected: []string{"re", "design", "landing", "page"}},
		{name: "short tokens dropped", input: "a b cd", expected: []string{"cd"}},
		{name: "empty", input: "", expected: []string{}},
		{name: "numbers kept", input: "port 8080 open", expected: []string{"port", "8080", "open"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 1.0, Overlap("build the landing page", "landing page"))
	assert.Equal(t, 0.5, Overlap("build the landing page", "landing zone"))
	assert.Equal(t, 0.0, Overlap("build the landing page", ""))
	assert.Equal(t, 0.0, Overlap("", "landing page"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Redesign the Landing Page", "landing"))
	assert.True(t, ContainsFold("redesign", "DESIGN"))
	assert.False(t, ContainsFold("redesign", "deploy"))
}

func TestCountAny(t *testing.T) {
	terms := []string{"api", "database", "cache"}
	assert.Equal(t, 2, CountAny("wire the API to the database", terms))
	assert.Equal(t, 0, CountAny("hello there", terms))
}
