package domain

import (
	"time"
)

// Sections of the content tree. The section is derived from the first
// path element under the content directory.
const (
	SectionPosts = "posts"
	SectionDecks = "decks"
	SectionPages = "pages"
)

// FrontMatter is the YAML metadata block at the top of a content file.
// Date stays a raw string here so that malformed values survive loading
// and can be reported by the lint rules instead of aborting the walk.
type FrontMatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Date        string         `yaml:"date"`
	Draft       bool           `yaml:"draft"`
	Slug        string         `yaml:"slug"`
	Tags        []string       `yaml:"tags"`
	Custom      map[string]any `yaml:",inline"`
}

// Document is a single content file: a blog post, a standalone page, or
// the source of a presentation deck.
type Document struct {
	Meta       FrontMatter
	Date       time.Time // parsed Meta.Date; zero when absent or malformed
	Section    string
	SourcePath string
	Slug       string
	Permalink  string
	Body       []byte // Markdown body without the front matter block
}

func (d *Document) Year() int {
	return d.Date.Year()
}

// Published reports whether the document should be visible to anonymous
// visitors.
func (d *Document) Published() bool {
	return !d.Meta.Draft
}
