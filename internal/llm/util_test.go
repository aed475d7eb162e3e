package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_Fences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence around a polished description",
			input:    "```json\n{\"description\": \"Add Go and PostgreSQL to your skills section.\"}\n```",
			expected: `{"description": "Add Go and PostgreSQL to your skills section."}`,
		},
		{
			name:     "bare fence around a summary",
			input:    "```\n{\"summary\": \"Backend engineer shipping Go services.\"}\n```",
			expected: `{"summary": "Backend engineer shipping Go services."}`,
		},
		{
			name:     "fence without newline",
			input:    "```{\"summary\": \"Go engineer\"}```",
			expected: `{"summary": "Go engineer"}`,
		},
		{
			name:     "unfenced answer",
			input:    "  {\"summary\": \"Go engineer\"}\n",
			expected: `{"summary": "Go engineer"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_SurroundingProse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble",
			input:    "Here is the rewritten suggestion:\n{\"description\": \"Lead with Kubernetes.\"}",
			expected: `{"description": "Lead with Kubernetes."}`,
		},
		{
			name:     "trailing offer",
			input:    "{\"summary\": \"Data engineer fluent in Python and SQL.\"}\n\nLet me know if you want a shorter version!",
			expected: `{"summary": "Data engineer fluent in Python and SQL."}`,
		},
		{
			name:     "braces inside the summary",
			input:    "Result: {\"summary\": \"Built {internal} tooling in Go.\"}",
			expected: `{"summary": "Built {internal} tooling in Go."}`,
		},
		{
			name:     "escaped quotes in a description",
			input:    "Output: {\"description\": \"Quote the \\\"99.9% uptime\\\" result.\"}",
			expected: `{"description": "Quote the \"99.9% uptime\" result."}`,
		},
		{
			name:     "keyword array",
			input:    "Keywords:\n[\"Go\", \"Kubernetes\", \"AWS\"] as requested",
			expected: `["Go", "Kubernetes", "AWS"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_NoJSON(t *testing.T) {
	assert.Equal(t, "I cannot rewrite this summary.", CleanJSONBlock("  I cannot rewrite this summary. \n"))
	assert.Equal(t, `{"summary": "cut off`, CleanJSONBlock(`{"summary": "cut off`))
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		open   byte
		closer byte
		want   string
	}{
		{name: "object", input: `{"description": "Add Go"} trailing`, open: '{', closer: '}', want: `{"description": "Add Go"}`},
		{name: "nested object", input: `{"summary": {"text": "Go"}}`, open: '{', closer: '}', want: `{"summary": {"text": "Go"}}`},
		{name: "array of suggestions", input: `[{"title": "Add Go"}, {"title": "Add AWS"}]`, open: '[', closer: ']', want: `[{"title": "Add Go"}, {"title": "Add AWS"}]`},
		{name: "bracket inside string", input: `["C]++", "Go"]`, open: '[', closer: ']', want: `["C]++", "Go"]`},
		{name: "wrong opener", input: `"summary"`, open: '{', closer: '}', want: ""},
		{name: "unbalanced", input: `{"summary": "Go"`, open: '{', closer: '}', want: ""},
		{name: "empty", input: "", open: '[', closer: ']', want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBalanced(tt.input, tt.open, tt.closer))
		})
	}
}
