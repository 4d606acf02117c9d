// Package crf implements a linear-chain conditional random field over
// the label.Label alphabet: Viterbi decoding, forward-backward
// marginals, the forbidden-transition and bracket-unification
// post-processing passes, and an online training loop implementing the
// §6 training interface.
//
// No crfsuite-equivalent Go library turned up anywhere in the example
// pack, so the model, decoder and trainer below are hand-written; see
// DESIGN.md for the tradeoffs this implies.
package crf

import (
	"strconv"

	"github.com/nkmr-lab/meichaku/pkg/features"
)

// activeFeatures returns the sparse list of named, binary feature-template
// instantiations active for line i. Continuous features are bucketed so
// they behave as the binary indicator functions a linear-chain CRF
// expects; boolean features contribute a feature name only when true.
func activeFeatures(l features.Line) []string {
	names := make([]string, 0, 24)

	names = append(names, "position_bucket="+bucket5(l.PositionNormalized))
	if l.LinesFromStart == 0 {
		names = append(names, "is_first_line")
	}
	if l.LinesFromEnd == 0 {
		names = append(names, "is_last_line")
	}

	names = append(names, "length_bucket="+lengthBucket(l.LineLength))
	if l.KanjiRatio > 0.5 {
		names = append(names, "mostly_kanji")
	}
	if l.HiraganaRatio > 0.5 {
		names = append(names, "mostly_hiragana")
	}
	if l.KatakanaRatio > 0.3 {
		names = append(names, "has_katakana")
	}
	if l.ASCIILetterRatio > 0.5 {
		names = append(names, "mostly_ascii")
	}
	if l.DigitRatio > 0.3 {
		names = append(names, "digit_heavy")
	}
	if l.SymbolRatio > 0.3 {
		names = append(names, "symbol_heavy")
	}
	if l.LeadingWhitespace > 0 {
		names = append(names, "indented")
	}

	if l.BlankLinesBefore > 0 {
		names = append(names, "blank_before")
	}
	if l.BlankLinesAfter > 0 {
		names = append(names, "blank_after")
	}

	names = append(names, "quote_depth="+strconv.Itoa(minInt(l.QuoteDepth, 3)))
	if l.IsForwardReplyHeader {
		names = append(names, "is_forward_reply_header")
	}
	if l.PrecededByDelimiter {
		names = append(names, "preceded_by_delimiter")
	}
	if l.IsDelimiter {
		names = append(names, "is_delimiter")
	}

	if l.IsGreeting {
		names = append(names, "is_greeting")
	}
	if l.IsClosing {
		names = append(names, "is_closing")
	}
	if l.HasContactInfo {
		names = append(names, "has_contact_info")
	}
	if l.HasCompanyPattern {
		names = append(names, "has_company_pattern")
	}
	if l.HasPositionPattern {
		names = append(names, "has_position_pattern")
	}
	if l.HasNamePattern {
		names = append(names, "has_name_pattern")
	}
	if l.IsVisualSeparator {
		names = append(names, "is_visual_separator")
	}
	if l.HasMetaDiscussion {
		names = append(names, "has_meta_discussion")
	}
	if l.IsInsideQuotationMarks {
		names = append(names, "is_inside_quotation_marks")
	}

	if l.WindowGreetingCount > 0 {
		names = append(names, "window_has_greeting")
	}
	if l.WindowClosingCount > 0 {
		names = append(names, "window_has_closing")
	}
	if l.WindowContactCount > 0 {
		names = append(names, "window_has_contact")
	}
	if l.WindowQuoteCount > 0 {
		names = append(names, "window_has_quote")
	}
	if l.WindowSeparatorCount > 0 {
		names = append(names, "window_has_separator")
	}

	if l.InBracketedSection {
		names = append(names, "in_bracketed_section")
	}
	if l.BracketHasSignaturePatterns {
		names = append(names, "bracket_has_signature_patterns")
	}

	return names
}

func bucket5(v float64) string {
	b := int(v * 5)
	if b > 4 {
		b = 4
	}
	if b < 0 {
		b = 0
	}
	return strconv.Itoa(b)
}

func lengthBucket(n int) string {
	switch {
	case n == 0:
		return "empty"
	case n <= 10:
		return "short"
	case n <= 40:
		return "medium"
	default:
		return "long"
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
