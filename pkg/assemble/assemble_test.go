package assemble

import (
	"strings"
	"testing"

	"github.com/nkmr-lab/meichaku/pkg/label"
)

func line(text string, lbl label.Label) Line {
	return Line{Text: text, Label: lbl}
}

func TestAssembleSimpleGreetingBodyClosing(t *testing.T) {
	lines := []Line{
		line("お世話になっております。", label.Greeting),
		line("ご依頼の件、承知いたしました。", label.Body),
		line("よろしくお願いいたします。", label.Closing),
		line("田中太郎", label.Signature),
	}
	r := Assemble(lines)
	if !r.Success {
		t.Fatalf("expected success")
	}
	if !strings.Contains(r.Body, "ご依頼の件") {
		t.Errorf("body missing content: %q", r.Body)
	}
	if strings.Contains(r.Body, "田中太郎") {
		t.Errorf("body should not include signature: %q", r.Body)
	}
}

func TestAssembleDropsLeadingAndTrailingQuotes(t *testing.T) {
	lines := []Line{
		{Text: "> 前回の内容です", Label: label.Quote, QuoteDepth: 1},
		line("承知いたしました。", label.Body),
		{Text: "> 参考までに貼っておきます", Label: label.Quote, QuoteDepth: 1},
	}
	r := Assemble(lines)
	if !r.Success {
		t.Fatalf("expected success")
	}
	if strings.Contains(r.Body, "前回の内容です") || strings.Contains(r.Body, "参考までに貼っておきます") {
		t.Errorf("leading/trailing quotes should be dropped: %q", r.Body)
	}
	if !strings.Contains(r.Body, "承知いたしました") {
		t.Errorf("body missing content: %q", r.Body)
	}
}

func TestAssembleCountsInlineQuote(t *testing.T) {
	lines := []Line{
		line("ご質問について回答します。", label.Body),
		{Text: "> 納期はいつですか", Label: label.Quote, QuoteDepth: 1},
		line("来週中に対応いたします。", label.Body),
		line("田中太郎", label.Signature),
	}
	r := Assemble(lines)
	if r.InlineQuoteCount != 1 {
		t.Errorf("inline quote count = %d, want 1", r.InlineQuoteCount)
	}
	if !strings.Contains(r.Body, "納期はいつですか") {
		t.Errorf("inline quote should remain in body: %q", r.Body)
	}
	if !r.SignatureDetected {
		t.Errorf("expected signature to be detected")
	}
}

func TestAssembleHardBreakAtDelimiter(t *testing.T) {
	lines := []Line{
		line("以上、よろしくお願いします。", label.Closing),
		{Text: "----------", Label: label.Other, IsDelimiter: true},
		line("株式会社テスト", label.Signature),
	}
	r := Assemble(lines)
	if !r.Success {
		t.Fatalf("expected success")
	}
	if strings.Contains(r.Body, "----------") {
		t.Errorf("delimiter should never appear in body: %q", r.Body)
	}
}

func TestAssembleFallsBackToLongestBlockWithNoPreSignatureBody(t *testing.T) {
	lines := []Line{
		{Text: "> 古いスレッドの引用です", Label: label.Quote, QuoteDepth: 1},
		line("田中太郎", label.Signature),
		line("本文がここに続きます。", label.Body),
		line("長めの本文ブロックです。", label.Body),
	}
	r := Assemble(lines)
	if !r.Success {
		t.Fatalf("expected success")
	}
}

func TestAssembleEmptyInputFails(t *testing.T) {
	r := Assemble(nil)
	if r.Success {
		t.Errorf("expected failure on empty input")
	}
}

func TestAssembleNoSignatureSelectsLargestBlockOnly(t *testing.T) {
	lines := []Line{
		line("短い用件です。", label.Body),
		{Text: "----------", Label: label.Other, IsDelimiter: true},
		line("こちらは二つ目のまとまりです。", label.Body),
		line("こちらもその続きの本文です。", label.Body),
		line("三行目の本文です。", label.Body),
	}
	r := Assemble(lines)
	if !r.Success {
		t.Fatalf("expected success")
	}
	if r.SignatureDetected {
		t.Errorf("expected no signature to be detected")
	}
	if strings.Contains(r.Body, "短い用件です") {
		t.Errorf("smaller block should not be concatenated in without a signature boundary: %q", r.Body)
	}
	if !strings.Contains(r.Body, "二つ目のまとまり") || !strings.Contains(r.Body, "三行目の本文") {
		t.Errorf("expected the larger block to be selected whole: %q", r.Body)
	}
}

func TestAssembleSignatureIndexReportsOriginalIndex(t *testing.T) {
	lines := []Line{
		{OriginalIndex: 0, Text: "お世話になっております。", Label: label.Greeting},
		{OriginalIndex: 1, Text: "ご依頼の件、承知いたしました。", Label: label.Body},
		{OriginalIndex: 2, Text: "田中太郎", Label: label.Signature},
	}
	r := Assemble(lines)
	if !r.SignatureDetected {
		t.Fatalf("expected signature to be detected")
	}
	if r.SignatureIndex != 2 {
		t.Errorf("signature index = %d, want 2", r.SignatureIndex)
	}
}

func TestAssembleNoSignatureReportsNotDetected(t *testing.T) {
	lines := []Line{line("本文のみです。", label.Body)}
	r := Assemble(lines)
	if r.SignatureDetected {
		t.Errorf("expected no signature to be detected")
	}
	if r.SignatureIndex != -1 {
		t.Errorf("signature index = %d, want -1", r.SignatureIndex)
	}
}
