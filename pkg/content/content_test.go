package content

import "testing"

func TestFilterBasic(t *testing.T) {
	lines := []string{"a", "", "b", "c", "", "", "d", ""}
	f := Filter(lines)

	wantTexts := []string{"a", "b", "c", "d"}
	if len(f.Lines) != len(wantTexts) {
		t.Fatalf("got %d content lines, want %d", len(f.Lines), len(wantTexts))
	}
	for i, want := range wantTexts {
		if f.Lines[i].Text != want {
			t.Errorf("line %d text = %q, want %q", i, f.Lines[i].Text, want)
		}
	}

	if f.Lines[0].BlankLinesBefore != 0 || f.Lines[0].BlankLinesAfter != 1 {
		t.Errorf("line 0 blanks = (%d,%d), want (0,1)", f.Lines[0].BlankLinesBefore, f.Lines[0].BlankLinesAfter)
	}
	if f.Lines[1].BlankLinesBefore != 1 || f.Lines[1].BlankLinesAfter != 0 {
		t.Errorf("line 1 (b) blanks = (%d,%d), want (1,0)", f.Lines[1].BlankLinesBefore, f.Lines[1].BlankLinesAfter)
	}
	if f.Lines[2].BlankLinesBefore != 0 || f.Lines[2].BlankLinesAfter != 2 {
		t.Errorf("line 2 (c) blanks = (%d,%d), want (0,2)", f.Lines[2].BlankLinesBefore, f.Lines[2].BlankLinesAfter)
	}
	if f.Lines[3].BlankLinesBefore != 2 || f.Lines[3].BlankLinesAfter != 1 {
		t.Errorf("line 3 (d) blanks = (%d,%d), want (2,1)", f.Lines[3].BlankLinesBefore, f.Lines[3].BlankLinesAfter)
	}
}

func TestFilterWhitespaceMapRoundTrip(t *testing.T) {
	lines := []string{"", "a", "", "b", "", ""}
	f := Filter(lines)

	reconstructed := make([]string, f.WhitespaceMap.OriginalLineCount)
	for _, line := range f.Lines {
		reconstructed[line.OriginalIndex] = line.Text
	}
	for oi := range reconstructed {
		if f.WhitespaceMap.IsBlank(oi) {
			if reconstructed[oi] != "" {
				t.Errorf("index %d expected blank", oi)
			}
		}
	}

	for i, oi := range f.WhitespaceMap.ContentIndexToOriginal {
		if i > 0 && f.WhitespaceMap.ContentIndexToOriginal[i-1] >= oi {
			t.Errorf("content indices not strictly increasing at %d", i)
		}
	}
}

func TestFilterAllBlank(t *testing.T) {
	f := Filter([]string{"", "", ""})
	if len(f.Lines) != 0 {
		t.Errorf("expected zero content lines, got %d", len(f.Lines))
	}
}

func TestFilterNoBlank(t *testing.T) {
	f := Filter([]string{"a", "b", "c"})
	for i, l := range f.Lines {
		if l.BlankLinesBefore != 0 || l.BlankLinesAfter != 0 {
			t.Errorf("line %d expected no surrounding blanks, got (%d,%d)", i, l.BlankLinesBefore, l.BlankLinesAfter)
		}
	}
}
