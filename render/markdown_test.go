package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"porch/domain"
	"porch/render"
)

func TestMarkdownRendersHTML(t *testing.T) {
	t.Parallel()

	out := string(render.Markdown([]byte("# Heading\n\nSome *emphasis* here.")))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>emphasis</em>")
}

func TestMarkdownStripsScripts(t *testing.T) {
	t.Parallel()

	out := string(render.Markdown([]byte("hello\n\n<script>alert(1)</script>\n")))
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, "hello")
}

func TestTitleStripsTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello", render.Title("<b>Hello</b>"))
}

func TestSummaryPrefersDescription(t *testing.T) {
	t.Parallel()

	doc := &domain.Document{
		Meta: domain.FrontMatter{Description: "the description"},
		Body: []byte("The body says something else entirely."),
	}
	assert.Equal(t, "the description", render.Summary(doc))
}

func TestSummaryFallsBackToFirstParagraph(t *testing.T) {
	t.Parallel()

	doc := &domain.Document{
		Body: []byte("# Title heading\n\nFirst *real* paragraph.\n\nSecond paragraph."),
	}
	summary := render.Summary(doc)
	assert.Equal(t, "First real paragraph.", summary)
}

func TestSummaryTruncatesOnWordBoundary(t *testing.T) {
	t.Parallel()

	doc := &domain.Document{
		Body: []byte(strings.Repeat("backpressure ", 40)),
	}
	summary := render.Summary(doc)
	assert.LessOrEqual(t, len([]rune(summary)), 201)
	assert.True(t, strings.HasSuffix(summary, "…"), "summary should end with an ellipsis: %q", summary)
	assert.NotContains(t, summary, "backpressur…", "should not cut mid-word")
}

func TestSummaryEmptyBody(t *testing.T) {
	t.Parallel()

	doc := &domain.Document{Body: []byte("")}
	assert.Equal(t, "", render.Summary(doc))
}
