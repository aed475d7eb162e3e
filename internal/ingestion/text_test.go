package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with    multiple    spaces"
	result := CleanText(input)

	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	result1 := CleanText(input)
	result2 := CleanText(input)

	assert.Equal(t, result1, result2)
}

func TestCleanText_EmptyInput(t *testing.T) {
	result := CleanText("")
	assert.Empty(t, result)
}

func TestCleanText_OnlyWhitespace(t *testing.T) {
	result := CleanText("   \n  \n  ")
	assert.Empty(t, result)
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "    Indented line\n  Less indented"
	result := CleanText(input)

	assert.Equal(t, "Indented line\n  Less indented", result)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJobText_PlainText(t *testing.T) {
	path := writeFile(t, "posting.txt", "Backend Engineer\r\n\r\n\r\n\r\nRequired:   Go,   SQL  \r\n")

	text, meta, err := LoadJobText(path)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\n\nRequired: Go, SQL", text)
	assert.Equal(t, FormatText, meta.Format)
	assert.Equal(t, path, meta.Source)
	assert.Equal(t, ContentHash(text), meta.Hash)
	assert.Len(t, meta.Hash, 64)
}

func TestLoadJobText_HTML(t *testing.T) {
	path := writeFile(t, "posting.HTML", `<html><body><h1>Backend Engineer</h1><ul><li>Go</li></ul></body></html>`)

	text, meta, err := LoadJobText(path)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\n- Go", text)
	assert.Equal(t, FormatHTML, meta.Format)
}

func TestLoadJobText_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		message string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") }, "file not found"},
		{"directory", func(t *testing.T) string { return t.TempDir() }, "path is a directory"},
		{"blank posting", func(t *testing.T) string { return writeFile(t, "blank.txt", " \n\t\n") }, "posting is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, meta, err := LoadJobText(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, meta)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.message, loadErr.Message)
		})
	}
}

func TestLoadJobText_MissingFileUnwraps(t *testing.T) {
	_, _, err := LoadJobText(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadProfile(t *testing.T) {
	path := writeFile(t, "profile.json", `{
		"personal": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"},
		"summary": "Engineer with 10 years of experience.",
		"skills": ["Go", "SQL"],
		"experience": [{"title": "Engineer", "company": "Acme", "start_date": "2015-01", "is_current": true}],
		"education": [{"degree": "Bachelor of Science", "school": "State"}]
	}`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Personal.FirstName)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
	require.Len(t, profile.Experience, 1)
	assert.True(t, profile.Experience[0].IsCurrent)
}

func TestLoadProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"malformed", `{"skills": [`, "failed to decode profile"},
		{"unknown field", `{"skils": ["Go"]}`, "failed to decode profile"},
		{"blank skill", `{"skills": ["Go", ""]}`, "invalid profile"},
		{"bad email", `{"personal": {"email": "not-an-email"}}`, "invalid profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfile(writeFile(t, "profile.json", tt.content))
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.message, loadErr.Message)
		})
	}
}
