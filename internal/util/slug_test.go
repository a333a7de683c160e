package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips punctuation",
			input:    "Acme, Inc.!!",
			expected: "acme-inc",
		},
		{
			name:     "collapses whitespace runs",
			input:    "  A   B  ",
			expected: "a-b",
		},
		{
			name:     "lowercases",
			input:    "PolicyHub",
			expected: "policyhub",
		},
		{
			name:     "keeps existing hyphens",
			input:    "north-west division",
			expected: "north-west-division",
		},
		{
			name:     "collapses repeated hyphens",
			input:    "a -- b",
			expected: "a-b",
		},
		{
			name:     "keeps digits",
			input:    "Area 51 Holdings",
			expected: "area-51-holdings",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "!!!",
			expected: "",
		},
		{
			name:     "tabs and newlines treated as whitespace",
			input:    "a\tb\nc",
			expected: "a-b-c",
		},
		{
			name:     "trims leading and trailing hyphens",
			input:    "-acme-",
			expected: "acme",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GenerateSlug(tc.input))
		})
	}
}

func TestGenerateSlugLength(t *testing.T) {
	t.Run("truncates to 50 characters", func(t *testing.T) {
		long := strings.Repeat("abcde ", 20)
		slug := GenerateSlug(long)
		assert.LessOrEqual(t, len(slug), 50)
		assert.False(t, strings.HasSuffix(slug, "-"))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, GenerateSlug("Acme, Inc.!!"), GenerateSlug("Acme, Inc.!!"))
	})
}
