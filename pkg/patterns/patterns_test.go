package patterns

import "testing"

func TestIsGreetingLine(t *testing.T) {
	cases := map[string]bool{
		"お世話になっております。":     true,
		"いつもお世話になっております":   true,
		"拝啓 時下ますますご清祥の":     true,
		"資料を添付いたします。":       false,
		"":                   false,
	}
	for line, want := range cases {
		if got := IsGreetingLine(line); got != want {
			t.Errorf("IsGreetingLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsClosingLine(t *testing.T) {
	cases := map[string]bool{
		"よろしくお願いいたします。": true,
		"何卒よろしくお願い致します":  true,
		"敬具":              true,
		"資料を添付いたします。":    false,
	}
	for line, want := range cases {
		if got := IsClosingLine(line); got != want {
			t.Errorf("IsClosingLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsSeparatorLine(t *testing.T) {
	cases := map[string]bool{
		"----------":  true,
		"━━━━━━":       true,
		"★---★":        true,
		"--":          false,
		"a---b---c":   false,
		"資料を添付いたします。": false,
	}
	for line, want := range cases {
		if got := IsSeparatorLine(line); got != want {
			t.Errorf("IsSeparatorLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsContactInfoLine(t *testing.T) {
	cases := map[string]bool{
		"TEL: 03-1234-5678":        true,
		"電話 03-1234-5678":         true,
		"FAX：03-1234-5679":         true,
		"test@example.com":         true,
		"http://example.com/path":  true,
		"www.example.com":          true,
		"〒123-4567":                true,
		"資料を添付いたします。":              false,
	}
	for line, want := range cases {
		if got := IsContactInfoLine(line); got != want {
			t.Errorf("IsContactInfoLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsCompanyLine(t *testing.T) {
	cases := map[string]bool{
		"株式会社テスト":  true,
		"(株)テスト":   true,
		"テスト有限会社":  true,
		"資料を添付します": false,
	}
	for line, want := range cases {
		if got := IsCompanyLine(line); got != want {
			t.Errorf("IsCompanyLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsPositionLine(t *testing.T) {
	cases := map[string]bool{
		"営業部長": true,
		"代表取締役": true,
		"資料を添付": false,
	}
	for line, want := range cases {
		if got := IsPositionLine(line); got != want {
			t.Errorf("IsPositionLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsForwardReplyHeader(t *testing.T) {
	cases := map[string]bool{
		"-----Original Message-----":                true,
		"---------- Forwarded message ----------":    true,
		"On Mon, Jan 1, 2024 at 10:00 AM John wrote:": true,
		"2024年1月1日 10:00 山田太郎 wrote:":                true,
		"差出人: 山田太郎":                                   true,
		"資料を添付いたします。":                                 false,
	}
	for line, want := range cases {
		if got := IsForwardReplyHeader(line); got != want {
			t.Errorf("IsForwardReplyHeader(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestIsNameLineAndKnownName(t *testing.T) {
	lib := New(nil)

	if !IsNameLine("山田 太郎") {
		t.Errorf("expected structural name-line match")
	}
	if !lib.ContainsKnownName("山田太郎") {
		t.Errorf("expected bundled surname match for 山田太郎")
	}
	if lib.ContainsKnownName("資料を添付いたします") {
		t.Errorf("did not expect a name match in a plain body line")
	}
}

func TestContainsKnownNameWithLookup(t *testing.T) {
	called := false
	lookup := func(text string) bool {
		called = true
		return text == "特殊な名前です"
	}
	lib := New(lookup)
	if !lib.ContainsKnownName("特殊な名前です") {
		t.Errorf("expected morphological lookup to supply the match")
	}
	if !called {
		t.Errorf("expected lookup to be consulted")
	}
}

func TestHasMetaDiscussion(t *testing.T) {
	if !HasMetaDiscussion("例えば、以下のようになります") {
		t.Errorf("expected discourse marker match")
	}
	if HasMetaDiscussion("資料を添付いたします") {
		t.Errorf("did not expect a discourse marker match")
	}
}

func TestIsInsideQuotationMarks(t *testing.T) {
	if !IsInsideQuotationMarks("「これは引用です」") {
		t.Errorf("expected quotation match")
	}
	if IsInsideQuotationMarks("これは引用です") {
		t.Errorf("did not expect a quotation match")
	}
}
