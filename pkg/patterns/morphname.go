package patterns

import (
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// MorphNameLookup builds a NameLookup backed by a Kagome/IPA-dictionary
// tokenizer: a line is considered to contain a name when one of its
// tokens is classified 名詞 (noun) with a 固有名詞/人名 (proper-noun /
// person-name) sub-part-of-speech. The tokenizer is built once, the
// way NewAnalyzer in the teacher's readerer package builds its
// tokenizer once, and reused for every call to the returned closure.
//
// Construction can fail if the embedded IPA dictionary cannot be
// loaded; callers that don't need the morphological signal can ignore
// the error and pass a nil NameLookup to patterns.New instead.
func MorphNameLookup() (NameLookup, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return func(text string) bool {
		for _, tok := range t.Tokenize(text) {
			if tok.Class == tokenizer.DUMMY {
				continue
			}
			features := tok.Features()
			if len(features) < 3 {
				continue
			}
			if features[0] != "名詞" {
				continue
			}
			if features[1] == "固有名詞" && (features[2] == "人名" || features[2] == "姓" || features[2] == "名") {
				return true
			}
		}
		return false
	}, nil
}
