package handler

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"porch/domain"
	"porch/render"
)

// Page is the data every template gets: site identity plus per-page
// fields.
type Page struct {
	SiteTitle       string
	SiteDescription string
	Author          string
	BaseURL         string
	Footer          string
	PageTitle       string
	LoggedIn        bool
}

func (h *Handler) pageData(c echo.Context, title string) Page {
	return Page{
		SiteTitle:       h.Site.SiteTitle,
		SiteDescription: h.Site.SiteDescription,
		Author:          h.Site.Author,
		BaseURL:         h.Site.BaseURL,
		Footer:          h.Site.Footer,
		PageTitle:       title,
		LoggedIn:        h.isLoggedIn(c),
	}
}

type PostDTO struct {
	Title     string
	Summary   string
	Permalink string
	Draft     bool
	Date      string
	Tags      []string
	Content   template.HTML
	Views     int64
}

func (h *Handler) postDTO(doc *domain.Document, withBody bool) PostDTO {
	dto := PostDTO{
		Title:     render.Title(doc.Meta.Title),
		Summary:   render.Summary(doc),
		Permalink: doc.Permalink,
		Draft:     doc.Meta.Draft,
		Tags:      doc.Meta.Tags,
	}
	if !doc.Date.IsZero() {
		dto.Date = doc.Date.Format(time.DateOnly)
	}
	if withBody {
		dto.Content = render.Markdown(doc.Body)
	}
	return dto
}

const indexPostCount = 10

func (h *Handler) Index(c echo.Context) error {
	drafts := h.isLoggedIn(c)
	posts := h.Library().PublishedPosts(drafts)
	if len(posts) > indexPostCount {
		posts = posts[:indexPostCount]
	}

	dtos := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, h.postDTO(p, false))
	}

	return c.Render(http.StatusOK, "index.html", struct {
		Page
		Posts []PostDTO
	}{h.pageData(c, ""), dtos})
}

type yearGroup struct {
	Year  int
	Posts []PostDTO
}

// Archive lists every post grouped by year, newest year first.
func (h *Handler) Archive(c echo.Context) error {
	drafts := h.isLoggedIn(c)
	lib := h.Library()

	byYear := lib.PostsByYear(drafts)
	var groups []yearGroup
	for _, year := range lib.Years(drafts) {
		group := yearGroup{Year: year}
		for _, p := range byYear[year] {
			group.Posts = append(group.Posts, h.postDTO(p, false))
		}
		groups = append(groups, group)
	}

	return c.Render(http.StatusOK, "archive.html", struct {
		Page
		Years []yearGroup
	}{h.pageData(c, "Archive"), groups})
}

// YearArchive lists the posts of a single year.
func (h *Handler) YearArchive(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	drafts := h.isLoggedIn(c)
	posts := h.Library().PostsByYear(drafts)[year]
	if len(posts) == 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	group := yearGroup{Year: year}
	for _, p := range posts {
		group.Posts = append(group.Posts, h.postDTO(p, false))
	}

	return c.Render(http.StatusOK, "archive.html", struct {
		Page
		Years []yearGroup
	}{h.pageData(c, strconv.Itoa(year)), []yearGroup{group}})
}

func (h *Handler) GetPost(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	slug := c.Param("slug")

	doc, ok := h.Library().Post(year, slug)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if !doc.Published() && !h.isLoggedIn(c) {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	if err := h.Store.IncrementView(doc.Permalink); err != nil {
		c.Logger().Errorf("incrementing views: %v", err)
	}
	views, err := h.Store.ViewCount(doc.Permalink)
	if err != nil {
		c.Logger().Errorf("reading views: %v", err)
	}

	dto := h.postDTO(doc, true)
	dto.Views = views

	return c.Render(http.StatusOK, "post.html", struct {
		Page
		Post PostDTO
	}{h.pageData(c, dto.Title), dto})
}
