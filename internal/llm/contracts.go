package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Document is an in-memory source document handed to the extraction
// capability. Bytes is the raw file content, ContentType its MIME type.
type Document struct {
	Filename    string
	ContentType string
	Bytes       []byte
}

// Request describes one structured extraction call: a natural-language
// instruction, the JSON Schema the reply must satisfy, and how many
// leading pages of the document are in scope.
type Request struct {
	Instruction string
	Schema      map[string]any
	// MaxPages limits analysis to the document's first N pages.
	// 0 is treated as 1: invoices are read from page one only.
	MaxPages int
}

// Extractor issues a structured document-understanding call. The
// returned JSON has been validated against Request.Schema; callers
// still own numeric coercion of individual fields.
//
// Errors wrapping ErrNoStructuredOutput mean the model produced nothing
// usable. Callers decide whether that is recoverable for their stage.
type Extractor interface {
	Extract(ctx context.Context, doc Document, req Request) (json.RawMessage, error)
}

// ErrNoStructuredOutput marks a model response with no structured
// result: empty output, undecodable JSON, or JSON failing schema
// validation even after sanitization.
var ErrNoStructuredOutput = errors.New("model returned no structured output")
