package rendering

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// unsafeSelectors are removed from generated HTML.
const unsafeSelectors = "script, style, iframe, object, embed, form"

var newlines = regexp.MustCompile(`\s*\n\s*`)

// StripMarkdownFence removes a ``` or ```markdown fence wrapped around a whole document.
func StripMarkdownFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		if tag := strings.TrimSpace(text[:idx]); tag == "" || tag == "markdown" || tag == "md" {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// MarkdownToHTML converts Markdown to an HTML fragment with active content removed and
// newlines collapsed, ready to embed in a JSON response.
func MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(StripMarkdownFence(markdown)), &buf); err != nil {
		return "", renderError(StageMarkdown, "", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", renderError(StageSanitize, "parse generated HTML", err)
	}
	doc.Find(unsafeSelectors).Remove()
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
			a.RemoveAttr("href")
		}
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", renderError(StageSanitize, "serialize body", err)
	}
	return strings.TrimSpace(newlines.ReplaceAllString(html, " ")), nil
}

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", renderError(StageSanitize, "parse fragment", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
