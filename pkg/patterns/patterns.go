// Package patterns holds the pattern library described in spec §4.1:
// a small set of predicates over a single normalized line of Japanese
// business-email text. Every pattern is compiled once at package
// initialization; callers never pay per-line regex compilation.
package patterns

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	greetingRe = regexp.MustCompile(
		`(お世話になっております|お世話になります|いつもお世話|拝啓|前略|お疲れ様です|お疲れさまです|ご無沙汰しております|初めてご連絡|突然のご連絡失礼)`,
	)
	closingRe = regexp.MustCompile(
		`(よろしくお願いいたします|よろしくお願い致します|よろしくお願いします|申し上げます|^以上、|敬具|草々|ご確認(の)?ほど|お手数(をおかけしますが|ですが)|何卒よろしく)`,
	)
	// delimiterGlyphs are the glyphs a separator line may repeat. Order
	// does not matter; membership does.
	delimiterGlyphs = []rune{'-', '─', '━', '=', '＝', '_', '*', '★', '☆'}

	telRe      = regexp.MustCompile(`(?i)(TEL|電話)[：:\s]*[\d０-９][\d０-９\-ー\s]{2,}`)
	faxRe      = regexp.MustCompile(`(?i)(FAX|ファックス)[：:\s]*[\d０-９][\d０-９\-ー\s]{2,}`)
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	urlRe      = regexp.MustCompile(`(https?://|www\.)[^\s]+`)
	postalRe   = regexp.MustCompile(`〒\s*\d{3}-?\d{4}`)
	companyRe  = regexp.MustCompile(`(株式会社|有限会社|合同会社|\(株\)|\(有\)|（株）|（有）)`)
	positionRe = regexp.MustCompile(`(部長|課長|係長|マネージャー|マネジャー|代表取締役|代表|担当|取締役|主任|所長|次長|室長|局長)`)

	discourseMarkers = []string{"例えば", "以下の", "サンプル", "参考までに", "参考:", "参考：", "下記の通り", "下記のとおり"}

	// surnameGivenRe matches "姓 名" structural shape: two runs of kanji
	// or kana separated by exactly one half-width or full-width space,
	// with no other content on the line.
	surnameGivenRe = regexp.MustCompile(`^[\p{Han}\p{Hiragana}\p{Katakana}ー]{1,6}[ 　][\p{Han}\p{Hiragana}\p{Katakana}ー]{1,6}$`)

	forwardReplyRe = regexp.MustCompile(
		`(-----Original Message-----|---------- ?Forwarded message ?----------|^On .+wrote:$|差出人[：:]|転送[：:]|返信[：:])`,
	)
	jpDateWroteRe = regexp.MustCompile(`^\d{4}年\d{1,2}月\d{1,2}日.{0,20}wrote:$`)

	insideQuoteRe = regexp.MustCompile(`^[「『].*[」』]$`)
)

// NameLookup is injected by the pattern library's owner (typically the
// feature extractor) to strengthen contains_known_name with a
// morphological signal. It reports whether text contains a token the
// lookup's backing analyzer considers a proper noun / person name. A
// nil NameLookup disables the morphological signal; the bundled-list
// and structural checks still apply.
type NameLookup func(text string) bool

// Library bundles the compiled predicates plus the curated data they
// close over (the name list, the morphological lookup hook).
type Library struct {
	names      map[string]struct{}
	nameLookup NameLookup
}

// New builds a Library using the bundled surname list. Pass a non-nil
// lookup to layer a morphological person-name signal on top of the
// bundled list and the structural heuristic; pass nil to skip it.
func New(lookup NameLookup) *Library {
	names := make(map[string]struct{}, len(bundledSurnames))
	for _, n := range bundledSurnames {
		names[n] = struct{}{}
	}
	return &Library{names: names, nameLookup: lookup}
}

// IsGreetingLine matches greeting formulas (§4.1).
func IsGreetingLine(line string) bool { return greetingRe.MatchString(line) }

// IsClosingLine matches closing formulas (§4.1).
func IsClosingLine(line string) bool { return closingRe.MatchString(line) }

// IsSeparatorLine reports whether the trimmed line consists of three or
// more repetitions of the same delimiter glyph, optionally capped by a
// short decorative terminator (e.g. "★---★").
func IsSeparatorLine(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	runes := []rune(t)
	for _, glyph := range delimiterGlyphs {
		if run := longestRun(runes, glyph); run >= 3 {
			// Require that the run accounts for most of the line, so a
			// sentence that merely contains three dashes in passing
			// doesn't qualify; decorative terminators on either side
			// (e.g. "★---★") are tolerated.
			if run+2 >= len(runes) {
				return true
			}
		}
	}
	return false
}

func longestRun(runes []rune, glyph rune) int {
	best, cur := 0, 0
	for _, r := range runes {
		if r == glyph {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// IsContactInfoLine matches phone/fax/email/URL/postal-code shapes.
func IsContactInfoLine(line string) bool {
	return telRe.MatchString(line) || faxRe.MatchString(line) ||
		emailRe.MatchString(line) || urlRe.MatchString(line) || postalRe.MatchString(line)
}

// IsCompanyLine matches Japanese corporate-entity suffixes.
func IsCompanyLine(line string) bool { return companyRe.MatchString(line) }

// IsPositionLine matches Japanese job-title vocabulary.
func IsPositionLine(line string) bool { return positionRe.MatchString(line) }

// HasMetaDiscussion reports whether line contains a curated discourse
// marker such as 例えば or 参考までに. The list is intentionally small;
// §9 Open Question (b) leaves it to the pattern library to evolve.
func HasMetaDiscussion(line string) bool {
	for _, m := range discourseMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// IsInsideQuotationMarks reports whether line begins with a Japanese
// opening quote mark and ends with the matching closing mark.
func IsInsideQuotationMarks(line string) bool {
	t := strings.TrimSpace(line)
	return insideQuoteRe.MatchString(t)
}

// IsForwardReplyHeader matches the forward/reply header templates of
// §4.4, including a Japanese-date "wrote:" variant.
func IsForwardReplyHeader(line string) bool {
	t := strings.TrimSpace(line)
	return forwardReplyRe.MatchString(t) || jpDateWroteRe.MatchString(t)
}

// IsNameLine reports whether line has the structural shape of a
// Japanese "surname given-name" pair separated by a single space.
func IsNameLine(line string) bool {
	return surnameGivenRe.MatchString(strings.TrimSpace(line))
}

// ContainsKnownName reports whether line contains a surname from the
// bundled list, matches the structural surname-given shape, or — when
// a NameLookup was supplied — carries a morphologically detected
// person name.
func (lib *Library) ContainsKnownName(line string) bool {
	if IsNameLine(line) {
		return true
	}
	for name := range lib.names {
		if strings.Contains(line, name) {
			return true
		}
	}
	if lib.nameLookup != nil && lib.nameLookup(line) {
		return true
	}
	return false
}

// RuneScript and Classify are shared with pkg/features for script-ratio
// computation, kept here so both packages agree on script boundaries.

// RuneScript classifies a rune into the coarse script buckets the
// feature extractor needs.
type RuneScript int

const (
	ScriptOther RuneScript = iota
	ScriptKanji
	ScriptHiragana
	ScriptKatakana
	ScriptASCIILetter
	ScriptDigit
	ScriptSymbol
)

// Classify buckets r into one of the RuneScript categories.
func Classify(r rune) RuneScript {
	switch {
	case unicode.Is(unicode.Han, r):
		return ScriptKanji
	case unicode.Is(unicode.Hiragana, r):
		return ScriptHiragana
	case unicode.Is(unicode.Katakana, r):
		return ScriptKatakana
	case r < 128 && unicode.IsLetter(r):
		return ScriptASCIILetter
	case unicode.IsDigit(r):
		return ScriptDigit
	case unicode.IsSpace(r):
		return ScriptOther
	default:
		return ScriptSymbol
	}
}
