package crf

import (
	"github.com/nkmr-lab/meichaku/pkg/features"
	"github.com/nkmr-lab/meichaku/pkg/label"
)

// PostProcess runs the two repair passes over a decoded label sequence:
// forbidden-transition repair, then bracket-block unification. It
// returns a new slice; labels is left untouched.
func PostProcess(labels []label.Label, lines []features.Line) []label.Label {
	out := make([]label.Label, len(labels))
	copy(out, labels)
	repairForbiddenTransitions(out, lines)
	unifyBracketBlocks(out, lines)
	return out
}

// repairForbiddenTransitions enforces two structural constraints the
// decoder alone does not guarantee: no CLOSING appears anywhere after a
// SIGNATURE (a signature block doesn't resume a sign-off; such a line
// becomes SIGNATURE), and a delimiter line is never labeled CLOSING
// (it becomes OTHER).
func repairForbiddenTransitions(labels []label.Label, lines []features.Line) {
	var seenSignature bool
	for i, l := range labels {
		if l == label.Signature {
			seenSignature = true
		}
		if l != label.Closing {
			continue
		}
		if lines[i].IsDelimiter {
			labels[i] = label.Other
			continue
		}
		if seenSignature {
			labels[i] = label.Signature
		}
	}
}

// unifyBracketBlocks relabels an entire bracketed block (§4.5),
// boundaries included, to BODY or SIGNATURE when more than half of the
// lines strictly inside the block (excluding the two bounding
// separators) already carry that label, smoothing over lines the
// decoder labeled inconsistently inside a clearly-delimited block.
// Blocks of fewer than 2 lines are left alone — there's no majority to
// find.
func unifyBracketBlocks(labels []label.Label, lines []features.Line) {
	blocks := bracketBlockSpans(lines)
	for _, span := range blocks {
		if span.end-span.start+1 < 2 {
			continue
		}
		var bodyCount, sigCount, total int
		for i := span.start + 1; i < span.end; i++ {
			total++
			switch labels[i] {
			case label.Body:
				bodyCount++
			case label.Signature:
				sigCount++
			}
		}
		if total == 0 {
			continue
		}
		var majority label.Label
		switch {
		case float64(bodyCount)/float64(total) > 0.5:
			majority = label.Body
		case float64(sigCount)/float64(total) > 0.5:
			majority = label.Signature
		default:
			continue
		}
		for i := span.start; i <= span.end; i++ {
			labels[i] = majority
		}
	}
}

type span struct{ start, end int }

// bracketBlockSpans recovers contiguous InBracketedSection runs from
// the feature vector. features.Extract already resolved pairing and
// distance rules (§4.5); this just groups the resulting flags back
// into spans for the unification pass.
func bracketBlockSpans(lines []features.Line) []span {
	var spans []span
	start := -1
	for i, l := range lines {
		if l.InBracketedSection {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			spans = append(spans, span{start: start, end: i - 1})
			start = -1
		}
	}
	if start != -1 {
		spans = append(spans, span{start: start, end: len(lines) - 1})
	}
	return spans
}
