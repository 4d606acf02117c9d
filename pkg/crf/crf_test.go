package crf

import (
	"bytes"
	"testing"

	"github.com/nkmr-lab/meichaku/pkg/content"
	"github.com/nkmr-lab/meichaku/pkg/features"
	"github.com/nkmr-lab/meichaku/pkg/label"
	"github.com/nkmr-lab/meichaku/pkg/patterns"
	"github.com/nkmr-lab/meichaku/pkg/structure"
)

func extractLines(texts []string) []features.Line {
	lines := make([]content.Line, len(texts))
	for i, t := range texts {
		lines[i] = content.Line{OriginalIndex: i, Text: t}
	}
	a := structure.Analyze(lines)
	return features.Extract(a, patterns.New(nil))
}

func TestDecodeEmptySequence(t *testing.T) {
	m := NewModel()
	d := m.Decode(nil)
	if len(d.Labels) != 0 {
		t.Errorf("expected empty decode for empty input")
	}
}

func TestDecodeConfidenceWithinUnitInterval(t *testing.T) {
	m := NewModel()
	lines := extractLines([]string{"お世話になっております。", "本文です。", "よろしくお願いいたします。"})
	d := m.Decode(lines)
	if len(d.Labels) != 3 {
		t.Fatalf("got %d labels, want 3", len(d.Labels))
	}
	for i, c := range d.Confidence {
		if c <= 0 || c > 1.0001 {
			t.Errorf("line %d confidence = %v, want in (0,1]", i, c)
		}
	}
}

func TestTrainPerceptronLearnsGreetingAsGreeting(t *testing.T) {
	trainer := NewTrainer(AlgorithmAP)
	trainer.MaxIterations = 30

	texts := []string{"お世話になっております。", "本文の一行目です。", "よろしくお願いいたします。"}
	gold := []label.Label{label.Greeting, label.Body, label.Closing}
	lines := extractLines(texts)
	if err := trainer.AddSequence(lines, gold); err != nil {
		t.Fatalf("AddSequence: %v", err)
	}

	model, err := trainer.Train()
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	d := model.Decode(lines)
	if d.Labels[0] != label.Greeting {
		t.Errorf("line 0 decoded as %v, want %v", d.Labels[0], label.Greeting)
	}
}

func TestTrainRejectsMismatchedLengths(t *testing.T) {
	trainer := NewTrainer(AlgorithmAP)
	lines := extractLines([]string{"a", "b"})
	if err := trainer.AddSequence(lines, []label.Label{label.Body}); err == nil {
		t.Errorf("expected error for mismatched lengths")
	}
}

func TestTrainWithNoSequencesErrors(t *testing.T) {
	trainer := NewTrainer(AlgorithmAP)
	if _, err := trainer.Train(); err == nil {
		t.Errorf("expected error training with zero sequences")
	}
}

func TestModelRoundTripsThroughEncodeDecode(t *testing.T) {
	m := NewModel()
	m.Initial[0] = 1.5
	m.Transition[0][1] = -2.0
	m.StateWeights["is_greeting"] = [numLabels]float64{1, 2, 3, 4, 5, 6}

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	loaded, err := DecodeModel(&buf)
	if err != nil {
		t.Fatalf("DecodeModel: %v", err)
	}
	if loaded.Initial[0] != 1.5 {
		t.Errorf("initial[0] = %v, want 1.5", loaded.Initial[0])
	}
	if loaded.Transition[0][1] != -2.0 {
		t.Errorf("transition[0][1] = %v, want -2.0", loaded.Transition[0][1])
	}
	if loaded.StateWeights["is_greeting"][2] != 3 {
		t.Errorf("state weight mismatch after round trip")
	}
}

func TestPostProcessForbidsClosingAfterSignature(t *testing.T) {
	lines := extractLines([]string{"田中太郎", "よろしくお願いいたします。"})
	labels := []label.Label{label.Signature, label.Closing}
	fixed := PostProcess(labels, lines)
	if fixed[1] != label.Signature {
		t.Errorf("closing after signature = %v, want it folded into signature", fixed[1])
	}
}

func TestPostProcessForbidsClosingOnDelimiter(t *testing.T) {
	lines := extractLines([]string{"----------"})
	labels := []label.Label{label.Closing}
	fixed := PostProcess(labels, lines)
	if fixed[0] != label.Other {
		t.Errorf("delimiter labeled closing = %v, want other", fixed[0])
	}
}

func TestPostProcessUnifiesBracketBlockMajority(t *testing.T) {
	texts := []string{
		"本文です",
		"----------",
		"株式会社テスト",
		"TEL: 03-1234-5678",
		"----------",
		"以上です",
	}
	lines := extractLines(texts)
	labels := []label.Label{label.Body, label.Body, label.Signature, label.Signature, label.Signature, label.Body}
	fixed := PostProcess(labels, lines)
	for i := 1; i <= 4; i++ {
		if fixed[i] != label.Signature {
			t.Errorf("line %d = %v, want whole bracket unified to signature", i, fixed[i])
		}
	}
}
