package htmlinput

import (
	"strings"
	"testing"
)

func TestToPlainTextStripsQuotedThread(t *testing.T) {
	htmlDoc := []byte(`<html><body>
		<p>お世話になっております。本文の内容です。</p>
		<blockquote class="gmail_quote">
			<p>以前のメッセージの引用です。</p>
		</blockquote>
	</body></html>`)

	text, err := ToPlainText(htmlDoc)
	if err != nil {
		t.Fatalf("ToPlainText: %v", err)
	}
	if !strings.Contains(text, "本文の内容です") {
		t.Errorf("expected body text to survive extraction, got %q", text)
	}
	if strings.Contains(text, "以前のメッセージの引用です") {
		t.Errorf("expected quoted blockquote to be stripped, got %q", text)
	}
}

func TestToPlainTextStripsRubyAnnotations(t *testing.T) {
	htmlDoc := []byte(`<html><body><p>漢字<ruby>漢字<rt>かんじ</rt></ruby>の本文です。</p></body></html>`)
	text, err := ToPlainText(htmlDoc)
	if err != nil {
		t.Fatalf("ToPlainText: %v", err)
	}
	if strings.Contains(text, "かんじ") {
		t.Errorf("expected ruby reading to be stripped, got %q", text)
	}
}

func TestToPlainTextPlainUTF8Passthrough(t *testing.T) {
	htmlDoc := []byte(`<html><body><p>よろしくお願いいたします。</p></body></html>`)
	text, err := ToPlainText(htmlDoc)
	if err != nil {
		t.Fatalf("ToPlainText: %v", err)
	}
	if !strings.Contains(text, "よろしくお願いいたします") {
		t.Errorf("expected plain UTF-8 text to pass through, got %q", text)
	}
}
