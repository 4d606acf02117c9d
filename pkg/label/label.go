// Package label defines the closed set of sequence-labeling tags the
// CRF assigns to each content line of a Japanese business email.
package label

// Label is one of the six tags a content line can carry.
type Label string

const (
	Greeting  Label = "GREETING"
	Body      Label = "BODY"
	Closing   Label = "CLOSING"
	Signature Label = "SIGNATURE"
	Quote     Label = "QUOTE"
	Other     Label = "OTHER"
)

// All enumerates every label in a fixed, stable order. Decoders and
// trainers iterate this array rather than reconstructing it, so the
// order features/weights are indexed by stays consistent everywhere.
// It is an array, not a slice, so len(All) is a compile-time constant
// usable as an array bound (see pkg/crf.numLabels).
var All = [6]Label{Greeting, Body, Closing, Signature, Quote, Other}

// Valid reports whether l is one of the six defined labels.
func (l Label) Valid() bool {
	switch l {
	case Greeting, Body, Closing, Signature, Quote, Other:
		return true
	default:
		return false
	}
}

// InBodySet reports whether l is one of the labels the body assembler
// treats as part of the author's own message (§4.8 step 3).
func InBodySet(l Label) bool {
	switch l {
	case Greeting, Body, Closing:
		return true
	default:
		return false
	}
}
