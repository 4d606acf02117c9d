// Package htmlinput is the external-collaborator adapter spec §1's
// "out of scope" list keeps out of the core pipeline: turning an HTML email body
// (of unknown charset, possibly carrying a quoted-thread container the
// core pipeline would rather not have to parse HTML to recognize) into
// plain text that pkg/normalize can consume. Nothing in pkg/extractor
// calls this package; a caller that receives HTML mail wires it in
// explicitly before handing text to EmailBodyExtractor.
package htmlinput

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	readability "github.com/go-shiori/go-readability"
	"github.com/gogs/chardet"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// quotedThreadSelectors are the container shapes mail clients wrap a
// quoted reply chain in. They're stripped before extraction so
// readability's boilerplate-removal heuristics don't have to guess
// whether a blockquote is content or history.
var quotedThreadSelectors = cascadia.MustCompile(
	"blockquote, .gmail_quote, .moz-cite-prefix, .yahoo_quoted, .OutlookMessageHeader",
)

var (
	rubyTextRe  = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	rubyParenRe = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// ToPlainText decodes raw HTML mail bytes (detecting and converting the
// charset if it isn't already UTF-8), strips ruby annotations and
// quoted-thread containers, and returns the remaining body as plain
// text ready for pkg/normalize.
func ToPlainText(raw []byte) (string, error) {
	utf8HTML, err := decodeToUTF8(raw)
	if err != nil {
		return "", fmt.Errorf("htmlinput: decode charset: %w", err)
	}

	cleaned := stripRuby(utf8HTML)

	doc, err := dom.Parse(bytes.NewReader(cleaned))
	if err != nil {
		return "", fmt.Errorf("htmlinput: parse html: %w", err)
	}
	for _, n := range quotedThreadSelectors.MatchAll(doc) {
		dom.RemoveNode(n)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("htmlinput: render cleaned document: %w", err)
	}

	article, err := readability.FromReader(&buf, placeholderBaseURL())
	if err != nil {
		return "", fmt.Errorf("htmlinput: extract article: %w", err)
	}

	return article.TextContent, nil
}

func stripRuby(rawHTML []byte) []byte {
	cleaned := rubyTextRe.ReplaceAll(rawHTML, nil)
	cleaned = rubyParenRe.ReplaceAll(cleaned, nil)
	return cleaned
}

// decodeToUTF8 detects raw's charset via chardet and transcodes it to
// UTF-8 when it isn't already. Japanese business mail frequently
// arrives as Shift_JIS or EUC-JP rather than UTF-8.
func decodeToUTF8(raw []byte) ([]byte, error) {
	det := chardet.NewHtmlDetector()
	result, err := det.DetectBest(raw)
	if err != nil || result == nil {
		return raw, nil
	}

	switch result.Charset {
	case "UTF-8", "ASCII":
		return raw, nil
	case "Shift_JIS":
		return transformBytes(raw, japanese.ShiftJIS.NewDecoder())
	case "EUC-JP":
		return transformBytes(raw, japanese.EUCJP.NewDecoder())
	case "ISO-2022-JP":
		return transformBytes(raw, japanese.ISO2022JP.NewDecoder())
	default:
		return raw, nil
	}
}

func transformBytes(raw []byte, t transform.Transformer) ([]byte, error) {
	out, _, err := transform.Bytes(t, raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// placeholderBaseURL gives readability a base URL to resolve relative
// links against; email bodies rarely carry real relative links, and
// the extractor only consumes TextContent, so the exact host is moot.
func placeholderBaseURL() *url.URL {
	u, _ := url.Parse("http://localhost/")
	return u
}
