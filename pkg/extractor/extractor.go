// Package extractor implements spec §6: the public entry point that
// wires the normalization, structural-analysis, feature-extraction, CRF
// decoding and body-assembly stages into a single call.
package extractor

import (
	"math"
	"strings"

	"github.com/nkmr-lab/meichaku/internal/model"
	"github.com/nkmr-lab/meichaku/pkg/assemble"
	"github.com/nkmr-lab/meichaku/pkg/content"
	"github.com/nkmr-lab/meichaku/pkg/crf"
	"github.com/nkmr-lab/meichaku/pkg/features"
	"github.com/nkmr-lab/meichaku/pkg/label"
	"github.com/nkmr-lab/meichaku/pkg/normalize"
	"github.com/nkmr-lab/meichaku/pkg/patterns"
	"github.com/nkmr-lab/meichaku/pkg/structure"
)

// DefaultConfidenceThreshold is the confidence gate ExtractWithMetadata
// (and so Extract and ExtractSafe) applies when the caller doesn't set
// one explicitly.
const DefaultConfidenceThreshold = 0.5

// Metadata is everything ExtractWithMetadata reports alongside the
// extracted body: per-line labels and confidences over the content-line
// sequence, the document-level confidence the §4.9 gate checks against,
// the signature boundary, and the inline-quote count §6 exposes.
//
// A body that cleared assembly but falls below the confidence threshold
// is still returned here in full, with Err set to the *LowConfidence
// diagnostic rather than being surfaced as a Go error. The other two
// failure kinds are not reported through Err: for *InvalidInput and
// *NoBodyDetected, ExtractWithMetadata returns a nil *Metadata and the
// error itself. Extract is the thinner wrapper that turns Err into a Go
// error as well.
type Metadata struct {
	Body              string
	Confidence        float64
	InlineQuoteCount  int
	SignatureDetected bool
	SignatureIndex    int
	Lines             []LineResult
	Err               error
}

// LineResult is one content line's decoded label and confidence.
type LineResult struct {
	Text       string
	Label      label.Label
	Confidence float64
}

// EmailBodyExtractor is the stateful, reusable entry point: it owns a
// loaded CRF model and a pattern library (including the optional
// morphological name lookup), both expensive to build, so callers are
// expected to construct one and reuse it across many emails.
type EmailBodyExtractor struct {
	model               *crf.Model
	patterns            *patterns.Library
	confidenceThreshold float64
}

// Option configures an EmailBodyExtractor at construction time.
type Option func(*EmailBodyExtractor)

// WithConfidenceThreshold overrides DefaultConfidenceThreshold.
func WithConfidenceThreshold(t float64) Option {
	return func(e *EmailBodyExtractor) { e.confidenceThreshold = t }
}

// WithNameLookup installs a morphological person-name signal (see
// pkg/patterns.MorphNameLookup) on top of the bundled surname list.
func WithNameLookup(lookup patterns.NameLookup) Option {
	return func(e *EmailBodyExtractor) { e.patterns = patterns.New(lookup) }
}

// New builds an extractor using the bundled default model. Use
// LoadModel afterwards to swap in a model trained by pkg/crf.Trainer.
func New(opts ...Option) (*EmailBodyExtractor, error) {
	m, err := model.Default()
	if err != nil {
		return nil, err
	}
	e := &EmailBodyExtractor{
		model:               m,
		patterns:            patterns.New(nil),
		confidenceThreshold: DefaultConfidenceThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LoadModel replaces the extractor's CRF model with one loaded from
// path (the format pkg/crf.Model.Save writes).
func (e *EmailBodyExtractor) LoadModel(path string) error {
	m, err := crf.LoadModel(path)
	if err != nil {
		return err
	}
	e.model = m
	return nil
}

// IsModelLoaded reports whether the extractor has a usable model.
func (e *EmailBodyExtractor) IsModelLoaded() bool { return e.model != nil }

// Extract runs the full pipeline and returns the assembled body, or an
// error identifying which stage failed: *InvalidInput for unusable raw
// input, *NoBodyDetected when assembly produced nothing, *LowConfidence
// when a body was assembled but the §4.9 confidence gate rejected it.
func (e *EmailBodyExtractor) Extract(text string) (string, error) {
	meta, err := e.ExtractWithMetadata(text)
	if err != nil {
		return "", err
	}
	if meta.Err != nil {
		return "", meta.Err
	}
	return meta.Body, nil
}

// ExtractSafe behaves like Extract but swallows every failure kind
// (*InvalidInput, *NoBodyDetected, *LowConfidence) to an empty body and
// a nil error, per §6/§7's "extract_safe maps any error to null".
func (e *EmailBodyExtractor) ExtractSafe(text string) (string, error) {
	meta, err := e.ExtractWithMetadata(text)
	if err != nil {
		return "", nil
	}
	if meta.Err != nil {
		return "", nil
	}
	return meta.Body, nil
}

// ExtractWithMetadata runs the full pipeline and returns the body along
// with per-line labels, confidences, the signature boundary and the
// inline-quote count. It never returns a Go error for the §4.9
// confidence gate — a low-confidence result is returned in full with
// Metadata.Err set instead, so callers that want the full picture (e.g.
// why a body was rejected) still get it.
func (e *EmailBodyExtractor) ExtractWithMetadata(text string) (*Metadata, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &InvalidInput{Message: "input is empty or contains only whitespace"}
	}

	normalized, err := normalize.Normalize(text)
	if err != nil {
		return nil, err
	}

	filtered := content.Filter(normalized.Lines)
	if len(filtered.Lines) == 0 {
		return nil, &InvalidInput{Message: "input has no content lines after normalization"}
	}

	analysis := structure.Analyze(filtered.Lines)
	lines := features.Extract(analysis, e.patterns)

	decoded := e.model.Decode(lines)
	fixed := crf.PostProcess(decoded.Labels, lines)

	assembleLines := assemble.BuildLines(analysis, fixed, decoded.Confidence)
	result := assemble.Assemble(assembleLines)
	if !result.Success {
		return nil, &NoBodyDetected{}
	}

	lineResults := make([]LineResult, len(analysis.Lines))
	for i, sl := range analysis.Lines {
		lineResults[i] = LineResult{Text: sl.Text, Label: fixed[i], Confidence: decoded.Confidence[i]}
	}

	confidence := math.Exp(decoded.SequenceLogProb)

	meta := &Metadata{
		Body:              result.Body,
		Confidence:        confidence,
		InlineQuoteCount:  result.InlineQuoteCount,
		SignatureDetected: result.SignatureDetected,
		SignatureIndex:    result.SignatureIndex,
		Lines:             lineResults,
	}
	if confidence < e.confidenceThreshold {
		meta.Err = &LowConfidence{Confidence: confidence, Threshold: e.confidenceThreshold}
	}
	return meta, nil
}
