package types

import "io"

// IngestRequest carries at most one document and/or one URL for POST /ingest.
type IngestRequest struct {
	FileName string
	File     io.Reader
	URL      string
}

func (r IngestRequest) HasFile() bool {
	return r.File != nil && r.FileName != ""
}

// IngestResult is the body returned by POST /ingest.
type IngestResult struct {
	Message  string `json:"message,omitempty"`
	DocCount int    `json:"doc_count,omitempty"`
}

// ContactRequest is the marketing contact form.
type ContactRequest struct {
	Name    string
	Email   string
	Message string
}
