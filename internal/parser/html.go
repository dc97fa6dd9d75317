package parser

import (
	"bytes"
	"errors"
	"html"
	"io"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

type htmlParser struct{}

func (htmlParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") ||
		strings.HasSuffix(name, "_html.txt")
}

func (htmlParser) Parse(content []byte) (string, error) {
	text, err := tokenizeHTML(content)
	if err != nil {
		return stripHTML(string(content)), nil
	}
	return text, nil
}

// tokenizeHTML collects visible text, skipping script and style bodies. Every
// tag boundary starts a new line.
func tokenizeHTML(content []byte) (string, error) {
	z := xhtml.NewTokenizer(bytes.NewReader(content))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return visibleLines(b.String()), nil
			}
			return "", z.Err()
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			if isHidden(name) {
				skip++
			}
			b.WriteByte('\n')
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if isHidden(name) && skip > 0 {
				skip--
			}
			b.WriteByte('\n')
		case xhtml.SelfClosingTagToken:
			b.WriteByte('\n')
		case xhtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isHidden(tag []byte) bool {
	t := string(tag)
	return t == "script" || t == "style"
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style.*?>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
)

// stripHTML is the regexp fallback for markup the tokenizer rejects.
func stripHTML(text string) string {
	text = scriptRe.ReplaceAllString(text, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "\n")
	return visibleLines(html.UnescapeString(text))
}
