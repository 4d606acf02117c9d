package corpus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nkmr-lab/meichaku/pkg/patterns"
)

const sampleJSONL = `{"email_text":"greeting\nbody","lines":[{"text":"お世話になっております。","label":"GREETING"},{"text":"ご連絡いたします。","label":"BODY"}],"metadata":{"source":"unit-test"}}
` + "\n" + `{"email_text":"closing","lines":[{"text":"よろしくお願いいたします。","label":"CLOSING"}]}`

func TestDecodeSkipsBlankLinesAndParsesRecords(t *testing.T) {
	examples, err := Decode(strings.NewReader(sampleJSONL))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("got %d examples, want 2", len(examples))
	}
	if examples[0].Lines[0].Label != "GREETING" {
		t.Errorf("first line label = %q, want GREETING", examples[0].Lines[0].Label)
	}
	if examples[0].Metadata["source"] != "unit-test" {
		t.Errorf("metadata not round-tripped: %v", examples[0].Metadata)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	examples, err := Decode(strings.NewReader(sampleJSONL))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, examples); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	roundTripped, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode after Encode: %v", err)
	}
	if len(roundTripped) != len(examples) {
		t.Fatalf("got %d examples after round trip, want %d", len(roundTripped), len(examples))
	}
}

func TestToTrainingSequenceRejectsInvalidLabel(t *testing.T) {
	ex := Example{Lines: []LabeledLine{{Text: "foo", Label: "NOT_A_LABEL"}}}
	if _, _, err := ToTrainingSequence(ex, patterns.New(nil)); err == nil {
		t.Errorf("expected error for invalid label")
	}
}

func TestToTrainingSequenceProducesMatchingLengths(t *testing.T) {
	examples, err := Decode(strings.NewReader(sampleJSONL))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	lines, gold, err := ToTrainingSequence(examples[0], patterns.New(nil))
	if err != nil {
		t.Fatalf("ToTrainingSequence: %v", err)
	}
	if len(lines) != len(gold) || len(lines) != 2 {
		t.Fatalf("got %d feature lines and %d labels, want 2/2", len(lines), len(gold))
	}
}
