// Package normalize implements spec §4.2: line-ending unification, a
// neologdn-equivalent Japanese-aware width/prolonged-sound-mark pass,
// Unicode NFKC, zero-width stripping, and delimiter-line preservation.
package normalize

import (
	"strings"

	"github.com/nkmr-lab/meichaku/pkg/patterns"
	"golang.org/x/text/unicode/norm"
)

// InvalidInput is returned when the input has no non-whitespace
// character at all.
type InvalidInput struct {
	Message string
}

func (e *InvalidInput) Error() string { return e.Message }

// Email is the normalized output: an ordered sequence of lines with no
// trailing line separators, plus the newline-joined concatenation.
type Email struct {
	Lines []string
	Text  string
}

const (
	zeroWidthSpace    = '​'
	zeroWidthNonJoin  = '‌'
	zeroWidthJoin     = '‍'
	byteOrderMark     = '﻿'
	wordJoiner        = '⁠'
	waveDash          = '〜'
	fullwidthTilde    = '～'
	prolongedSoundMrk = 'ー'
)

// Normalize runs the ordered normalization pipeline described in
// spec §4.2 over raw UTF-8 text and returns the resulting line
// sequence. It fails with *InvalidInput when text is empty or
// contains no non-whitespace character.
func Normalize(text string) (*Email, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &InvalidInput{Message: "input is empty or contains no non-whitespace character"}
	}

	rawLines := splitLines(text)

	out := make([]string, len(rawLines))
	for i, line := range rawLines {
		if patterns.IsSeparatorLine(line) {
			// Delimiter runs must survive the transform verbatim: a
			// width fold or NFKC pass could otherwise shorten a run of
			// full-width glyphs or collapse a katakana prolonged-sound
			// delimiter.
			out[i] = line
			continue
		}
		out[i] = normalizeLine(line)
	}

	for i, line := range out {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
		}
	}

	return &Email{Lines: out, Text: strings.Join(out, "\n")}, nil
}

// splitLines unifies CRLF and lone CR into LF, then splits on LF.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func normalizeLine(line string) string {
	runes := []rune(line)
	runes = foldFullwidthASCII(runes)
	runes = widenHalfKana(runes)
	runes = unifyTildes(runes)
	runes = collapseRuns(runes, prolongedSoundMrk)
	line = string(runes)

	line = norm.NFKC.String(line)

	line = stripZeroWidth(line)

	return line
}

// foldFullwidthASCII maps U+FF01-FF5E to their ASCII equivalents and
// the ideographic space U+3000 to a regular space.
func foldFullwidthASCII(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		switch {
		case r == '　':
			out[i] = ' '
		case r >= 0xFF01 && r <= 0xFF5E:
			out[i] = r - 0xFEE0
		default:
			out[i] = r
		}
	}
	return out
}

// unifyTildes folds ASCII '~' and the wave dash / fullwidth tilde
// variants into a single canonical wave dash.
func unifyTildes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		if r == '~' || r == waveDash || r == fullwidthTilde {
			out[i] = waveDash
		} else {
			out[i] = r
		}
	}
	return out
}

// collapseRuns collapses any run of two or more consecutive glyph
// runes into a single occurrence.
func collapseRuns(runes []rune, glyph rune) []rune {
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if r == glyph && i > 0 && runes[i-1] == glyph {
			continue
		}
		out = append(out, r)
	}
	return out
}

func stripZeroWidth(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case zeroWidthSpace, zeroWidthNonJoin, zeroWidthJoin, byteOrderMark, wordJoiner:
			return -1
		default:
			return r
		}
	}, s)
}
