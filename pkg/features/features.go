// Package features implements spec §4.5: the ~37-dimensional
// per-content-line feature vector the CRF decoder consumes.
package features

import (
	"github.com/nkmr-lab/meichaku/pkg/patterns"
	"github.com/nkmr-lab/meichaku/pkg/structure"
)

// Line is the feature vector for a single content line.
type Line struct {
	// Positional (6)
	PositionNormalized   float64
	PositionReverse      float64
	LinesFromStart       int
	LinesFromEnd         int
	PositionRelFirstQuote float64
	PositionRelLastQuote  float64

	// Content (9)
	LineLength         int
	KanjiRatio         float64
	HiraganaRatio      float64
	KatakanaRatio      float64
	ASCIILetterRatio   float64
	DigitRatio         float64
	SymbolRatio        float64
	LeadingWhitespace  int
	TrailingWhitespace int

	// Whitespace context (2)
	BlankLinesBefore int
	BlankLinesAfter  int

	// Structural (4)
	QuoteDepth          int
	IsForwardReplyHeader bool
	PrecededByDelimiter  bool
	IsDelimiter          bool

	// Pattern flags (9)
	IsGreeting             bool
	IsClosing              bool
	HasContactInfo         bool
	HasCompanyPattern      bool
	HasPositionPattern     bool
	HasNamePattern         bool
	IsVisualSeparator      bool
	HasMetaDiscussion      bool
	IsInsideQuotationMarks bool

	// Contextual window, ±2 content lines inclusive of self (5)
	WindowGreetingCount  int
	WindowClosingCount   int
	WindowContactCount   int
	WindowQuoteCount     int
	WindowSeparatorCount int

	// Bracket block (2)
	InBracketedSection          bool
	BracketHasSignaturePatterns bool
}

// Extract computes the feature vector for every content line in a,
// using lib for the pattern-flag and name-lookup predicates.
func Extract(a structure.Analysis, lib *patterns.Library) []Line {
	n := len(a.Lines)
	out := make([]Line, n)
	if n == 0 {
		return out
	}

	flags := make([]lineFlags, n)
	for i, l := range a.Lines {
		flags[i] = computeFlags(l.Text, lib)
	}

	blocks := detectBracketBlocks(flags)

	for i, l := range a.Lines {
		var lf Line

		lf.PositionNormalized = ratio(float64(i), float64(maxInt(1, n-1)))
		lf.PositionReverse = 1 - lf.PositionNormalized
		lf.LinesFromStart = i
		lf.LinesFromEnd = n - 1 - i
		lf.PositionRelFirstQuote = relativeQuotePosition(i, a.FirstQuoteIndex, n)
		lf.PositionRelLastQuote = relativeQuotePosition(i, a.LastQuoteIndex, n)

		lf.LineLength = len([]rune(l.Text))
		kanji, hira, kata, ascii, digit, symbol := scriptRatios(l.Text)
		lf.KanjiRatio, lf.HiraganaRatio, lf.KatakanaRatio = kanji, hira, kata
		lf.ASCIILetterRatio, lf.DigitRatio, lf.SymbolRatio = ascii, digit, symbol
		lf.LeadingWhitespace, lf.TrailingWhitespace = whitespaceCounts(l.Text)

		lf.BlankLinesBefore = l.BlankLinesBefore
		lf.BlankLinesAfter = l.BlankLinesAfter

		lf.QuoteDepth = l.QuoteDepth
		lf.IsForwardReplyHeader = l.IsForwardReply
		lf.PrecededByDelimiter = l.PrecededByDelimiter
		lf.IsDelimiter = l.IsDelimiter

		f := flags[i]
		lf.IsGreeting = f.greeting
		lf.IsClosing = f.closing
		lf.HasContactInfo = f.contact
		lf.HasCompanyPattern = f.company
		lf.HasPositionPattern = f.position
		lf.HasNamePattern = f.name
		lf.IsVisualSeparator = f.separator
		lf.HasMetaDiscussion = f.meta
		lf.IsInsideQuotationMarks = f.insideQuotes

		lo, hi := windowBounds(i, n, 2)
		for j := lo; j <= hi; j++ {
			wf := flags[j]
			if wf.greeting {
				lf.WindowGreetingCount++
			}
			if wf.closing {
				lf.WindowClosingCount++
			}
			if wf.contact {
				lf.WindowContactCount++
			}
			if a.Lines[j].QuoteDepth > 0 {
				lf.WindowQuoteCount++
			}
			if wf.separator {
				lf.WindowSeparatorCount++
			}
		}

		lf.InBracketedSection, lf.BracketHasSignaturePatterns = blocks.membership(i)

		out[i] = lf
	}

	return out
}

type lineFlags struct {
	greeting, closing, contact, company, position, name, separator, meta, insideQuotes bool
}

func computeFlags(text string, lib *patterns.Library) lineFlags {
	return lineFlags{
		greeting:     patterns.IsGreetingLine(text),
		closing:      patterns.IsClosingLine(text),
		contact:      patterns.IsContactInfoLine(text),
		company:      patterns.IsCompanyLine(text),
		position:     patterns.IsPositionLine(text),
		name:         lib.ContainsKnownName(text),
		separator:    patterns.IsSeparatorLine(text),
		meta:         patterns.HasMetaDiscussion(text),
		insideQuotes: patterns.IsInsideQuotationMarks(text),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func relativeQuotePosition(i, quoteIdx, n int) float64 {
	if quoteIdx < 0 {
		return 0
	}
	denom := float64(maxInt(1, n-1))
	return float64(i-quoteIdx) / denom
}

func windowBounds(i, n, radius int) (int, int) {
	lo := i - radius
	if lo < 0 {
		lo = 0
	}
	hi := i + radius
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

func scriptRatios(text string) (kanji, hira, kata, ascii, digit, symbol float64) {
	runes := []rune(text)
	var nonSpace, kanjiN, hiraN, kataN, asciiN, digitN, symbolN int
	for _, r := range runes {
		switch patterns.Classify(r) {
		case patterns.ScriptOther:
			continue
		case patterns.ScriptKanji:
			kanjiN++
		case patterns.ScriptHiragana:
			hiraN++
		case patterns.ScriptKatakana:
			kataN++
		case patterns.ScriptASCIILetter:
			asciiN++
		case patterns.ScriptDigit:
			digitN++
		case patterns.ScriptSymbol:
			symbolN++
		}
		nonSpace++
	}
	if nonSpace == 0 {
		return 0, 0, 0, 0, 0, 0
	}
	d := float64(nonSpace)
	return float64(kanjiN) / d, float64(hiraN) / d, float64(kataN) / d,
		float64(asciiN) / d, float64(digitN) / d, float64(symbolN) / d
}

func whitespaceCounts(text string) (leading, trailing int) {
	runes := []rune(text)
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			leading++
		} else {
			break
		}
	}
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' || runes[i] == '\t' {
			trailing++
		} else {
			break
		}
	}
	return leading, trailing
}
