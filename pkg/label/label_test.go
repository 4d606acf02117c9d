package label

import "testing"

func TestValidAcceptsOnlyDefinedLabels(t *testing.T) {
	if !Body.Valid() {
		t.Error("Body should be valid")
	}
	if Label("NOT_A_LABEL").Valid() {
		t.Error("unknown label should not be valid")
	}
}

func TestInBodySet(t *testing.T) {
	for _, l := range []Label{Greeting, Body, Closing} {
		if !InBodySet(l) {
			t.Errorf("%s should be in body set", l)
		}
	}
	for _, l := range []Label{Signature, Quote, Other} {
		if InBodySet(l) {
			t.Errorf("%s should not be in body set", l)
		}
	}
}

func TestAllMatchesOrderUsedByModel(t *testing.T) {
	if len(All) != 6 {
		t.Fatalf("got %d labels, want 6", len(All))
	}
	want := [6]Label{Greeting, Body, Closing, Signature, Quote, Other}
	if All != want {
		t.Errorf("All = %v, want %v", All, want)
	}
}
