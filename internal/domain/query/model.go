// Package query implements the retrieval side of the pipeline: topic
// classification, two-partition vector retrieval, structured fallbacks,
// prompt assembly, and the /api/query endpoint.
package query

import "errors"

var (
	// ErrEmptyQuery is returned for a blank query string.
	ErrEmptyQuery = errors.New("query is required")
	// ErrCompletion wraps failures of the generative completion call.
	ErrCompletion = errors.New("completion failed")
)

// Source types attached to citations.
const (
	SourceTypeKnowledge = "medical_knowledge"
	SourceTypePatient   = "patient_document"
)

type Request struct {
	Query      string `json:"query"`
	DocumentID string `json:"documentId"`
}

// Source is one citation returned with an answer.
type Source struct {
	ID       string `json:"id"`
	Excerpt  string `json:"excerpt"`
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type"`
}

type Response struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
