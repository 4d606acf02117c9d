package corpus

import (
	"fmt"
	"strings"

	"github.com/nkmr-lab/meichaku/pkg/content"
	"github.com/nkmr-lab/meichaku/pkg/features"
	"github.com/nkmr-lab/meichaku/pkg/label"
	"github.com/nkmr-lab/meichaku/pkg/normalize"
	"github.com/nkmr-lab/meichaku/pkg/patterns"
	"github.com/nkmr-lab/meichaku/pkg/structure"
)

// ToTrainingSequence recomputes the same normalization, blank-line
// filtering, structural analysis and feature vectors extraction would
// over ex's lines, and pairs them with the gold labels of the content
// (non-blank) lines, ready for crf.Trainer.AddSequence.
func ToTrainingSequence(ex Example, lib *patterns.Library) ([]features.Line, []label.Label, error) {
	texts := make([]string, len(ex.Lines))
	gold := make([]label.Label, len(ex.Lines))
	for i, ll := range ex.Lines {
		texts[i] = ll.Text
		l := label.Label(ll.Label)
		if !l.Valid() {
			return nil, nil, fmt.Errorf("corpus: line %d has invalid label %q", i, ll.Label)
		}
		gold[i] = l
	}

	normalized, err := normalize.Normalize(strings.Join(texts, "\n"))
	if err != nil {
		return nil, nil, fmt.Errorf("corpus: %w", err)
	}
	if len(normalized.Lines) != len(texts) {
		return nil, nil, fmt.Errorf("corpus: line texts must not contain line breaks")
	}
	filtered := content.Filter(normalized.Lines)
	contentGold := make([]label.Label, len(filtered.Lines))
	for i, cl := range filtered.Lines {
		contentGold[i] = gold[cl.OriginalIndex]
	}
	a := structure.Analyze(filtered.Lines)
	lines := features.Extract(a, lib)

	return lines, contentGold, nil
}
