package render

import (
	"html/template"
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"porch/domain"
)

var (
	sanitizerStrict = bluemonday.StrictPolicy()
	sanitizerUGC    = bluemonday.UGCPolicy()
)

const summaryLimit = 200

func mdToHTML(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

// Markdown renders a Markdown body into HTML that is safe to embed in a
// template. Raw HTML in the source survives only as far as the UGC
// policy allows.
func Markdown(md []byte) template.HTML {
	return template.HTML(sanitizerUGC.SanitizeBytes(mdToHTML(md)))
}

// Title sanitizes a front-matter title for display: all tags stripped.
func Title(s string) string {
	return sanitizerStrict.Sanitize(s)
}

// Summary returns the front-matter description when present, otherwise
// the first paragraph of the body as plain text, truncated on a word
// boundary.
func Summary(doc *domain.Document) string {
	if doc.Meta.Description != "" {
		return doc.Meta.Description
	}

	paragraph := firstParagraph(doc.Body)
	plain := sanitizerStrict.Sanitize(string(mdToHTML([]byte(paragraph))))
	plain = strings.Join(strings.Fields(plain), " ")
	return truncate(plain, summaryLimit)
}

func firstParagraph(body []byte) string {
	text := strings.TrimSpace(string(body))
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		return block
	}
	return ""
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}
