package models

// RawDocument is one ingested file after text extraction, before chunking.
// It is discarded once its chunks have been produced.
type RawDocument struct {
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Err carries the per-file extraction failure when the loader could not
	// read this document. Failed documents are excluded from chunking but
	// still reported, so one corrupt file never aborts a rebuild.
	Err error `json:"-"`
}

// Failed reports whether this document carries an extraction error.
func (d *RawDocument) Failed() bool {
	return d.Err != nil
}
