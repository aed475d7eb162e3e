// Package ingestion loads job postings and candidate profiles from disk and
// normalizes posting text before extraction.
package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/resume-fit/internal/types"
)

var (
	innerSpacePattern  = regexp.MustCompile(`[ \t\f\v]+`)
	blankRunPattern    = regexp.MustCompile(`\n\n\n+`)
	htmlExtensions     = map[string]bool{".html": true, ".htm": true}
	maxPostingFileSize = int64(5 << 20)
)

// CleanText normalizes posting text while preserving its line structure:
// CRLF and CR become LF, trailing whitespace is trimmed, runs of spaces inside
// a line collapse to one, bullets and headings keep their markers, and more
// than one consecutive blank line collapses to a single blank line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := blankRunPattern.ReplaceAllString(strings.Join(cleaned, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine keeps leading indentation and collapses inner whitespace
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Markdown headings lose their indentation
	if strings.HasPrefix(trimmed, "#") {
		return innerSpacePattern.ReplaceAllString(trimmed, " ")
	}
	indent := strings.Repeat(" ", len(line)-len(trimmed))
	return indent + innerSpacePattern.ReplaceAllString(trimmed, " ")
}

// LoadJobText reads a posting from path. Files ending in .html or .htm are
// converted to text with ExtractHTMLText; everything else is read as text.
// The result is cleaned with CleanText.
func LoadJobText(path string) (string, *Metadata, error) {
	content, err := readFile(path)
	if err != nil {
		return "", nil, err
	}

	format := FormatText
	text := string(content)
	if htmlExtensions[strings.ToLower(filepath.Ext(path))] {
		format = FormatHTML
		text, err = ExtractHTMLText(text)
		if err != nil {
			return "", nil, &LoadError{Path: path, Message: "failed to parse HTML", Cause: err}
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, &LoadError{Path: path, Message: "posting is empty"}
	}
	return cleaned, NewMetadata(cleaned, path, format), nil
}

// LoadProfile decodes a candidate profile from a JSON file and validates it.
// Unknown fields are rejected.
func LoadProfile(path string) (*types.CandidateProfile, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeProfile(content)
}

// DecodeProfile decodes and validates a candidate profile from JSON bytes
func DecodeProfile(data []byte) (*types.CandidateProfile, error) {
	var profile types.CandidateProfile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&profile); err != nil {
		return nil, &LoadError{Message: "failed to decode profile", Cause: err}
	}
	if err := profile.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid profile", Cause: err}
	}
	return &profile, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Path: path, Message: "file not found", Cause: err}
		}
		return nil, &LoadError{Path: path, Message: "failed to stat file", Cause: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Message: "path is a directory"}
	}
	if info.Size() > maxPostingFileSize {
		return nil, &LoadError{Path: path, Message: "file too large"}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return content, nil
}
