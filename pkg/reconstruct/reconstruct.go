// Package reconstruct implements spec §4.7: reinserting the
// blank lines pkg/content stripped out back into the labeled sequence,
// so downstream stages see the full original line numbering again.
package reconstruct

import (
	"github.com/nkmr-lab/meichaku/pkg/content"
	"github.com/nkmr-lab/meichaku/pkg/label"
)

// Line is one line of the reconstructed, fully-indexed sequence. Blank
// lines carry a copy of the label and confidence of the nearest
// preceding content line; a blank line before any content line has
// seen has neither.
type Line struct {
	OriginalIndex int
	Text          string
	IsBlank       bool
	Label         label.Label
	HasLabel      bool
	Confidence    float64
}

// Reconstruct reinterleaves content-line labels and confidences back
// into the full original line sequence using wsMap, the whitespace map
// pkg/content produced alongside the content lines these labels and
// confidences were computed from.
func Reconstruct(original []string, wsMap content.WhitespaceMap, labels []label.Label, confidence []float64) []Line {
	out := make([]Line, len(original))

	contentPtr := 0
	var curLabel label.Label
	var curConfidence float64
	haveLabel := false

	for i, text := range original {
		if contentPtr < len(wsMap.ContentIndexToOriginal) && wsMap.ContentIndexToOriginal[contentPtr] == i {
			curLabel = labels[contentPtr]
			if contentPtr < len(confidence) {
				curConfidence = confidence[contentPtr]
			}
			haveLabel = true
			contentPtr++
		}

		out[i] = Line{
			OriginalIndex: i,
			Text:          text,
			IsBlank:       wsMap.IsBlank(i),
			Label:         curLabel,
			HasLabel:      haveLabel,
			Confidence:    curConfidence,
		}
	}

	return out
}
