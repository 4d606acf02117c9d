// Package structure implements spec §4.4: per-content-line structural
// annotation (quote depth, forward/reply headers, delimiters) over the
// content-line sequence produced by pkg/content.
package structure

import (
	"strings"

	"github.com/araddon/dateparse"
	"github.com/nkmr-lab/meichaku/pkg/content"
	"github.com/nkmr-lab/meichaku/pkg/patterns"
)

// Line is a content line annotated with structural facts.
type Line struct {
	content.Line
	QuoteDepth          int
	IsForwardReply      bool
	IsDelimiter         bool
	PrecededByDelimiter bool
}

// Analysis is the structural annotation of an entire content-line
// sequence, plus the document-level facts the body assembler and
// feature extractor need.
type Analysis struct {
	Lines           []Line
	HasQuotes       bool
	HasForwardReply bool
	FirstQuoteIndex int // content-line index, -1 if none
	LastQuoteIndex  int // content-line index, -1 if none
}

var quoteMarkerRunes = map[rune]bool{'>': true, '｜': true, '|': true}

// Analyze annotates every content line in lines.
func Analyze(lines []content.Line) Analysis {
	out := make([]Line, len(lines))
	analysis := Analysis{FirstQuoteIndex: -1, LastQuoteIndex: -1}

	prevDelimiter := false
	for i, l := range lines {
		depth := quoteDepth(l.Text)
		isDelim := patterns.IsSeparatorLine(l.Text)
		isFwd := isForwardReplyHeader(l.Text)

		out[i] = Line{
			Line:                l,
			QuoteDepth:          depth,
			IsForwardReply:      isFwd,
			IsDelimiter:         isDelim,
			PrecededByDelimiter: prevDelimiter,
		}

		if depth > 0 {
			analysis.HasQuotes = true
			if analysis.FirstQuoteIndex == -1 {
				analysis.FirstQuoteIndex = i
			}
			analysis.LastQuoteIndex = i
		}
		if isFwd {
			analysis.HasForwardReply = true
		}
		prevDelimiter = isDelim
	}

	analysis.Lines = out
	return analysis
}

// quoteDepth strips leading ASCII whitespace, then counts consecutive
// leading quote markers from {>, ｜, |}, allowing single spaces
// between markers.
func quoteDepth(text string) int {
	s := strings.TrimLeft(text, " \t")
	depth := 0
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		if quoteMarkerRunes[runes[i]] {
			depth++
			i++
			// allow a single space before the next marker
			if i < len(runes) && runes[i] == ' ' {
				i++
			}
			continue
		}
		break
	}
	return depth
}

// isForwardReplyHeader strengthens patterns.IsForwardReplyHeader: the
// English "On <date> ... wrote:" template additionally requires the
// date portion to actually parse as a date, so a line that merely
// mimics the template's shape without a real date doesn't count.
func isForwardReplyHeader(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "On ") || !strings.HasSuffix(t, "wrote:") {
		return patterns.IsForwardReplyHeader(line)
	}
	middle := strings.TrimSuffix(strings.TrimPrefix(t, "On "), "wrote:")
	middle = strings.TrimSpace(middle)
	if parsableDatePrefix(middle) {
		return true
	}
	// Fall back to the other templates (Original Message, Forwarded
	// message, 差出人:, etc.) in case this line matched one of those
	// instead of the English "wrote:" shape. The "wrote:" suffix is
	// dropped first so the generic "On ... wrote:" pattern cannot
	// re-accept a line whose date did not parse.
	return patterns.IsForwardReplyHeader(strings.TrimSuffix(t, "wrote:"))
}

// parsableDatePrefix reports whether some leading run of words in s
// parses as a date/time via dateparse. Gmail-style quote headers
// interleave a sender name after the date with no fixed delimiter
// ("On Fri, Jan 5, 2024 at 3:04 PM John Smith wrote:"), so the longest
// prefix that parses is taken as the date portion.
func parsableDatePrefix(s string) bool {
	words := strings.Fields(s)
	for n := len(words); n >= 2; n-- {
		candidate := strings.Join(words[:n], " ")
		if _, err := dateparse.ParseAny(candidate); err == nil {
			return true
		}
	}
	return false
}
