package tokenize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTML extracts the readable text of an HTML document and hands it to
// Inner. Scripts, styles and page chrome are dropped.
type HTML struct {
	Inner Tokenizer
}

func (h HTML) Tokenize(text string) ([]string, error) {
	plain, err := ExtractText(text)
	if err != nil {
		return nil, err
	}
	return h.Inner.Tokenize(plain)
}

func (h HTML) Name() string {
	return h.Inner.Name() + "+html"
}

// ExtractText returns the title and body text of an HTML document, one
// block element per line.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, aside").Remove()
	// Keep words in adjacent blocks apart once the tags are gone.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr, td, th, pre, blockquote").AppendHtml("\n")

	var content strings.Builder
	if title := strings.TrimSpace(doc.Find("title").Text()); title != "" {
		content.WriteString(title)
		content.WriteString("\n")
	}
	content.WriteString(doc.Find("body").Text())
	return content.String(), nil
}
