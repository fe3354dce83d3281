package site

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"porch/domain"
)

// Date formats accepted in front matter.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var titleCaser = cases.Title(language.English)

// Load walks the content directory and builds a Library. The expected
// tree is posts/<year>/*.md, decks/*.md and pages/*.md; Markdown files
// outside those sections are treated as pages.
//
// Malformed front matter does not abort the walk: the file is loaded as
// a bare Markdown body and left for `porch check` to complain about.
func Load(dir string) (*Library, error) {
	lib := newLibrary()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return lib, nil
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		doc, err := loadDocument(dir, path)
		if err != nil {
			return err
		}
		lib.add(doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	lib.finalize()
	return lib, nil
}

func loadDocument(root, path string) (*domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var meta domain.FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		// No usable front matter block; keep the file as pure Markdown.
		meta = domain.FrontMatter{}
		body = raw
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("relativizing %s: %w", path, err)
	}

	doc := &domain.Document{
		Meta:       meta,
		Section:    sectionOf(rel),
		SourcePath: path,
		Slug:       slugOf(meta, rel),
		Body:       body,
	}
	doc.Date = parseDate(meta.Date)
	if doc.Meta.Title == "" {
		doc.Meta.Title = titleFromFilename(rel)
	}
	doc.Permalink = permalink(doc)
	return doc, nil
}

func sectionOf(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch parts[0] {
	case domain.SectionPosts, domain.SectionDecks:
		return parts[0]
	default:
		return domain.SectionPages
	}
}

func slugOf(meta domain.FrontMatter, rel string) string {
	if meta.Slug != "" {
		return Slugify(meta.Slug)
	}
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	return Slugify(base)
}

func titleFromFilename(rel string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return titleCaser.String(base)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func permalink(doc *domain.Document) string {
	switch doc.Section {
	case domain.SectionPosts:
		year := postYear(doc)
		return fmt.Sprintf("/posts/%d/%s/", year, doc.Slug)
	case domain.SectionDecks:
		return "/decks/" + doc.Slug + "/"
	default:
		return "/" + doc.Slug + "/"
	}
}

// postYear prefers the year directory (posts/2024/foo.md) over the
// front-matter date, so a post keeps its URL even with a bad date.
func postYear(doc *domain.Document) int {
	parts := strings.Split(filepath.ToSlash(doc.SourcePath), "/")
	for i, p := range parts {
		if p == domain.SectionPosts && i+1 < len(parts) {
			var year int
			if _, err := fmt.Sscanf(parts[i+1], "%d", &year); err == nil && year > 1900 {
				return year
			}
		}
	}
	return doc.Year()
}

// splitSlides breaks a deck body into slides. A slide boundary is a
// `---` rule alone on a line; the front-matter delimiters are already
// gone by the time this runs. Interior empty slides are kept so the
// lint rules can flag them; trailing ones are noise and dropped.
func splitSlides(body []byte) []string {
	var slides []string
	var current []string

	flush := func() {
		slides = append(slides, strings.TrimSpace(strings.Join(current, "\n")))
		current = current[:0]
	}

	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	for len(slides) > 0 && slides[len(slides)-1] == "" {
		slides = slides[:len(slides)-1]
	}
	return slides
}
