// Package assemble implements spec §4.8: turning a labeled content-line
// sequence into the final extracted body text.
package assemble

import (
	"strings"

	"github.com/nkmr-lab/meichaku/pkg/label"
	"github.com/nkmr-lab/meichaku/pkg/structure"
)

// Line is the per-content-line input the assembler needs: its label
// and confidence from the CRF decoder, plus the structural facts that
// decide hard breaks and quote-run classification.
type Line struct {
	OriginalIndex  int
	Text           string
	Label          label.Label
	Confidence     float64
	IsDelimiter    bool
	IsForwardReply bool
	QuoteDepth     int
}

// BuildLines zips a structural analysis with the decoder's per-line
// labels and confidences into the assembler's input shape.
func BuildLines(a structure.Analysis, labels []label.Label, confidence []float64) []Line {
	out := make([]Line, len(a.Lines))
	for i, sl := range a.Lines {
		var lbl label.Label
		var conf float64
		if i < len(labels) {
			lbl = labels[i]
		}
		if i < len(confidence) {
			conf = confidence[i]
		}
		out[i] = Line{
			OriginalIndex:  sl.OriginalIndex,
			Text:           sl.Text,
			Label:          lbl,
			Confidence:     conf,
			IsDelimiter:    sl.IsDelimiter,
			IsForwardReply: sl.IsForwardReply,
			QuoteDepth:     sl.QuoteDepth,
		}
	}
	return out
}

// Result is the assembled body plus the bookkeeping §6's
// extract_with_metadata exposes alongside it.
type Result struct {
	Body              string
	Success           bool
	InlineQuoteCount  int
	SignatureDetected bool
	SignatureIndex    int // original index of the signature boundary, -1 if none
}

// Assemble builds the final body text from a labeled line sequence.
func Assemble(lines []Line) Result {
	sigBoundary := len(lines)
	sigIndex := -1
	for i, l := range lines {
		if l.Label == label.Signature {
			sigBoundary = i
			sigIndex = l.OriginalIndex
			break
		}
	}
	sigDetected := sigBoundary < len(lines)

	segments := hardBreakSegments(lines[:sigBoundary])
	runs := classifyRuns(segments)

	var body string
	var inlineCount int
	if sigDetected {
		// §4.8 step 4, if-branch: concatenate every surviving block.
		body, inlineCount = joinRuns(runs)
	} else {
		// §4.8 step 4, else-branch: the single largest surviving
		// block, ties broken by earliest starting index.
		body, inlineCount = largestRun(runs)
	}

	if body != "" {
		return Result{
			Body: body, Success: true, InlineQuoteCount: inlineCount,
			SignatureDetected: sigDetected, SignatureIndex: sigIndex,
		}
	}

	if block := longestBodyRun(lines); block != "" {
		return Result{
			Body: block, Success: true,
			SignatureDetected: sigDetected, SignatureIndex: sigIndex,
		}
	}

	return Result{SignatureDetected: sigDetected, SignatureIndex: sigIndex}
}

// hardBreakSegments splits lines at delimiter and forward/reply-header
// lines. Those boundary lines themselves are never part of the body and
// are dropped; what remains on either side becomes an independent
// segment, so no quote or non-quote run spans a break. Leading/trailing
// classification (classifyRuns) then looks at the runs of all segments
// together, in document order.
func hardBreakSegments(lines []Line) [][]Line {
	var segments [][]Line
	var cur []Line
	for _, l := range lines {
		if l.IsDelimiter || l.IsForwardReply {
			if len(cur) > 0 {
				segments = append(segments, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		segments = append(segments, cur)
	}
	return segments
}

func isQuoteLine(l Line) bool {
	return l.QuoteDepth > 0 || l.Label == label.Quote
}

// run is one maximal quote or non-quote stretch of lines within a
// hard-break segment.
type run struct {
	isQuote bool
	lines   []Line
}

// classifyRuns walks every segment's maximal quote/non-quote runs and
// decides which survive into the body: non-quote runs always do
// (Other-labeled lines inside them are neutral filler, absorbed rather
// than breaking the run); a quote run survives only when it is neither
// the very first run of the whole document nor the very last — those
// are the leading "replying below the full quoted thread" and trailing
// "quoted thread left under my reply" shapes, neither of which is the
// author's own text.
func classifyRuns(segments [][]Line) []run {
	var runs []run
	for _, seg := range segments {
		var cur run
		started := false
		for _, l := range seg {
			q := isQuoteLine(l)
			if !started {
				cur = run{isQuote: q}
				started = true
			}
			if q != cur.isQuote {
				runs = append(runs, cur)
				cur = run{isQuote: q}
			}
			cur.lines = append(cur.lines, l)
		}
		if started {
			runs = append(runs, cur)
		}
	}

	var surviving []run
	for i, r := range runs {
		if !r.isQuote {
			surviving = append(surviving, r)
			continue
		}
		leading := i == 0
		trailing := i == len(runs)-1
		if leading || trailing {
			continue
		}
		surviving = append(surviving, r)
	}
	return surviving
}

// joinRuns concatenates every surviving run in document order (§4.8
// step 4, if-branch), counting the quote runs among them.
func joinRuns(runs []run) (string, int) {
	var parts []string
	var inlineQuoteCount int
	for _, r := range runs {
		if s := runText(r.lines); s != "" {
			parts = append(parts, s)
			if r.isQuote {
				inlineQuoteCount++
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n")), inlineQuoteCount
}

// largestRun selects the single largest surviving run by line count,
// ties broken by earliest starting index (§4.8 step 4, else-branch).
// runs is already in document order, so the first run reached at the
// maximum length is the earliest-starting one.
func largestRun(runs []run) (string, int) {
	var best run
	for _, r := range runs {
		if len(r.lines) > len(best.lines) {
			best = r
		}
	}
	if len(best.lines) == 0 {
		return "", 0
	}
	inlineQuoteCount := 0
	if best.isQuote {
		inlineQuoteCount = 1
	}
	return runText(best.lines), inlineQuoteCount
}

func runText(lines []Line) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	return strings.TrimSpace(sb.String())
}

// longestBodyRun is the fallback when no body survives pre-signature
// assembly: the single longest contiguous run of non-quote,
// non-delimiter lines anywhere in the document.
func longestBodyRun(lines []Line) string {
	var best []Line
	var cur []Line
	flush := func() {
		if len(cur) > len(best) {
			best = cur
		}
		cur = nil
	}
	for _, l := range lines {
		if l.IsDelimiter || l.IsForwardReply || isQuoteLine(l) || l.Label == label.Signature {
			flush()
			continue
		}
		cur = append(cur, l)
	}
	flush()

	if len(best) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, l := range best {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	return strings.TrimSpace(sb.String())
}
