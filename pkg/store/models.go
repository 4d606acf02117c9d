package store

import "time"

// Extraction is one audit-trail record of a call through
// EmailBodyExtractor.ExtractWithMetadata.
type Extraction struct {
	ID               int64
	InputHash        string
	Body             string
	Confidence       float64
	Success          bool
	InlineQuoteCount int
	LabelsJSON       string // []extractor.LineResult, JSON-encoded
	CreatedAt        time.Time
}
