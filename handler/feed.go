package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"porch/render"
)

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	ID      string   `xml:"id"`
	Link    atomLink `xml:"link"`
	Updated string   `xml:"updated"`
	Summary string   `xml:"summary"`
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	Xmlns    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Author   atomAuthor  `xml:"author"`
	Entries  []atomEntry `xml:"entry"`
}

const feedEntryCount = 20

// Feed serves the Atom feed of published posts. Drafts never appear
// here, logged in or not; feed readers do not carry cookies anyway.
func (h *Handler) Feed(c echo.Context) error {
	base := strings.TrimSuffix(h.Site.BaseURL, "/")

	feed := atomFeed{
		Xmlns:    "http://www.w3.org/2005/Atom",
		Title:    h.Site.SiteTitle,
		Subtitle: h.Site.SiteDescription,
		ID:       base + "/",
		Author:   atomAuthor{Name: h.Site.Author},
		Links: []atomLink{
			{Href: base + "/feed.xml", Rel: "self"},
			{Href: base + "/"},
		},
	}

	posts := h.Library().PublishedPosts(false)
	if len(posts) > feedEntryCount {
		posts = posts[:feedEntryCount]
	}
	var newest time.Time
	for _, p := range posts {
		if p.Date.After(newest) {
			newest = p.Date
		}
		url := base + p.Permalink
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   render.Title(p.Meta.Title),
			ID:      url,
			Link:    atomLink{Href: url},
			Updated: p.Date.UTC().Format(time.RFC3339),
			Summary: render.Summary(p),
		})
	}
	if newest.IsZero() {
		newest = time.Now()
	}
	feed.Updated = newest.UTC().Format(time.RFC3339)

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling feed: %w", err)
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8",
		append([]byte(xml.Header), out...))
}
