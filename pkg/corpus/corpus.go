// Package corpus loads the JSONL training corpus format §6's training
// interface expects: one labeled email per line.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LabeledLine is one line of a training email with its gold label.
type LabeledLine struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Example is one training email: its raw text, the gold label for
// every line, and arbitrary provenance metadata.
type Example struct {
	EmailText string                 `json:"email_text"`
	Lines     []LabeledLine          `json:"lines"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Load reads every JSONL record from path.
func Load(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads every JSONL record from r. Blank lines are skipped,
// matching the relaxed-JSONL convention most labeling tools export.
func Decode(r io.Reader) ([]Example, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var examples []Example
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		var ex Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			return nil, fmt.Errorf("corpus: line %d: %w", lineNo, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("corpus: scan: %w", err)
	}
	return examples, nil
}

// Save writes examples back out in the same JSONL format, one record
// per line.
func Save(path string, examples []Example) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("corpus: create %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, examples)
}

// Encode writes examples to w.
func Encode(w io.Writer, examples []Example) error {
	enc := json.NewEncoder(w)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("corpus: encode: %w", err)
		}
	}
	return nil
}
