package site

import (
	"sort"

	"porch/domain"
)

// Library holds every loaded document, with the derived collections the
// handlers and lint rules work from. A Library is immutable after Load;
// reloads swap in a fresh one.
type Library struct {
	Documents []*domain.Document
	Posts     []*domain.Document // date descending
	Decks     []*domain.Deck
	Pages     []*domain.Document

	byPermalink map[string]*domain.Document
}

func newLibrary() *Library {
	return &Library{
		byPermalink: make(map[string]*domain.Document),
	}
}

func (l *Library) add(doc *domain.Document) {
	l.Documents = append(l.Documents, doc)

	switch doc.Section {
	case domain.SectionPosts:
		l.Posts = append(l.Posts, doc)
	case domain.SectionDecks:
		l.Decks = append(l.Decks, &domain.Deck{
			Document: *doc,
			Slides:   splitSlides(doc.Body),
		})
	default:
		l.Pages = append(l.Pages, doc)
	}

	// First one wins; duplicates are a lint issue, not a load failure.
	if _, exists := l.byPermalink[doc.Permalink]; !exists {
		l.byPermalink[doc.Permalink] = doc
	}
}

func (l *Library) finalize() {
	sort.SliceStable(l.Posts, func(i, j int) bool {
		if l.Posts[i].Date.IsZero() {
			return false
		}
		if l.Posts[j].Date.IsZero() {
			return true
		}
		return l.Posts[i].Date.After(l.Posts[j].Date)
	})
}

// Lookup resolves a site-absolute permalink to its document.
func (l *Library) Lookup(permalink string) (*domain.Document, bool) {
	doc, ok := l.byPermalink[permalink]
	return doc, ok
}

// PublishedPosts returns non-draft posts, newest first. When drafts is
// true every post is included (author preview).
func (l *Library) PublishedPosts(drafts bool) []*domain.Document {
	if drafts {
		return l.Posts
	}
	posts := make([]*domain.Document, 0, len(l.Posts))
	for _, p := range l.Posts {
		if p.Published() {
			posts = append(posts, p)
		}
	}
	return posts
}

// PostsByYear groups posts into the year-keyed collections the archive
// pages are built from.
func (l *Library) PostsByYear(drafts bool) map[int][]*domain.Document {
	byYear := make(map[int][]*domain.Document)
	for _, p := range l.PublishedPosts(drafts) {
		year := postYear(p)
		byYear[year] = append(byYear[year], p)
	}
	return byYear
}

// Years lists the archive years, newest first.
func (l *Library) Years(drafts bool) []int {
	byYear := l.PostsByYear(drafts)
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Deck finds a deck by slug.
func (l *Library) Deck(slug string) (*domain.Deck, bool) {
	for _, d := range l.Decks {
		if d.Slug == slug {
			return d, true
		}
	}
	return nil, false
}

// Page finds a standalone page by slug.
func (l *Library) Page(slug string) (*domain.Document, bool) {
	for _, p := range l.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return nil, false
}

// Post finds a post by archive year and slug.
func (l *Library) Post(year int, slug string) (*domain.Document, bool) {
	for _, p := range l.Posts {
		if p.Slug == slug && postYear(p) == year {
			return p, true
		}
	}
	return nil, false
}
