// Package content implements spec §4.3: splitting a normalized email
// into content lines (non-blank) and blank positions, while recording
// enough information to reconstruct the original interleaving later.
package content

import "strings"

// Line is one non-empty (after trim) line of the normalized email.
type Line struct {
	OriginalIndex    int
	Text             string
	BlankLinesBefore int
	BlankLinesAfter  int
}

// WhitespaceMap records where the blank lines were, so a later stage
// can reinterleave content lines with blanks in original order.
type WhitespaceMap struct {
	// ContentIndexToOriginal maps a content-line index to its original
	// line index. It is strictly increasing.
	ContentIndexToOriginal []int
	// BlankOriginalIndices is the set of original indices that were
	// blank lines.
	BlankOriginalIndices map[int]struct{}
	OriginalLineCount    int
}

// IsBlank reports whether originalIndex was a blank line.
func (m *WhitespaceMap) IsBlank(originalIndex int) bool {
	_, ok := m.BlankOriginalIndices[originalIndex]
	return ok
}

// Filtered is the output of Filter: content lines plus the whitespace
// map plus the original (normalized) line sequence.
type Filtered struct {
	Lines         []Line
	WhitespaceMap WhitespaceMap
	Original      []string
}

// Filter splits normalizedLines into content lines and blank
// positions. A line is blank when it is empty after trimming (the
// normalizer already reduces whitespace-only lines to "").
func Filter(normalizedLines []string) Filtered {
	wsMap := WhitespaceMap{
		BlankOriginalIndices: make(map[int]struct{}),
		OriginalLineCount:    len(normalizedLines),
	}

	var lines []Line
	blankRunStart := -1

	for i, text := range normalizedLines {
		if strings.TrimSpace(text) == "" {
			wsMap.BlankOriginalIndices[i] = struct{}{}
			if blankRunStart == -1 {
				blankRunStart = i
			}
			continue
		}

		blanksBefore := 0
		if blankRunStart != -1 {
			blanksBefore = i - blankRunStart
			blankRunStart = -1
		}

		lines = append(lines, Line{
			OriginalIndex:    i,
			Text:             text,
			BlankLinesBefore: blanksBefore,
		})
		wsMap.ContentIndexToOriginal = append(wsMap.ContentIndexToOriginal, i)
	}

	// Second pass: blank_lines_after is the count of blanks
	// immediately following this content line, up to the next content
	// line or end of document.
	for ci := range lines {
		start := lines[ci].OriginalIndex + 1
		end := len(normalizedLines)
		if ci+1 < len(lines) {
			end = lines[ci+1].OriginalIndex
		}
		lines[ci].BlankLinesAfter = end - start
	}

	return Filtered{Lines: lines, WhitespaceMap: wsMap, Original: normalizedLines}
}
