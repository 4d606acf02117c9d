package extractor

import "fmt"

// InvalidInput is returned when the raw input text cannot be processed
// at all (empty, or made entirely of whitespace).
type InvalidInput struct {
	Message string
}

func (e *InvalidInput) Error() string { return fmt.Sprintf("extractor: invalid input: %s", e.Message) }

// NoBodyDetected is returned when every stage ran successfully but the
// body assembler produced no text at all (§4.8's assembly genuinely
// found nothing to keep).
type NoBodyDetected struct{}

func (e *NoBodyDetected) Error() string { return "extractor: no body detected" }

// LowConfidence is returned by Extract (and set as Metadata.Err by
// ExtractWithMetadata) when a body was assembled but its confidence
// fell below the configured threshold. ExtractSafe swallows it.
type LowConfidence struct {
	Confidence float64
	Threshold  float64
}

func (e *LowConfidence) Error() string {
	return fmt.Sprintf("extractor: confidence %.3f below threshold %.3f", e.Confidence, e.Threshold)
}
