package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Format is the source format of an ingested posting
type Format string

// Posting formats
const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Metadata describes where a posting came from and identifies its content
type Metadata struct {
	Source    string `json:"source,omitempty"`
	Format    Format `json:"format"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the cleaned text
}

// NewMetadata creates Metadata for cleaned content stamped with the current time
func NewMetadata(content, source string, format Format) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ContentHash(content),
	}
}

// ContentHash returns the SHA256 hex digest of content
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
