package handler

import (
	"errors"
	"html/template"
	"io"
	"path/filepath"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"porch/config"
	"porch/site"
	"porch/store"
)

type Handler struct {
	Store     *store.Store
	JWTSecret string
	Site      config.Config

	library atomic.Pointer[site.Library]
}

// SetLibrary swaps in a freshly loaded content library. Requests in
// flight keep the one they started with.
func (h *Handler) SetLibrary(lib *site.Library) {
	h.library.Store(lib)
}

func (h *Handler) Library() *site.Library {
	return h.library.Load()
}

type TemplateRegistry struct {
	templates map[string]*template.Template
}

func (t *TemplateRegistry) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		err := errors.New("template not found: " + name)
		return err
	}

	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// NewTemplateRegistry parses every page template in dir against the
// base layout. Page templates fill the layout's content block; there is
// one layout set, on purpose.
func NewTemplateRegistry(dir string) (*TemplateRegistry, error) {
	base := filepath.Join(dir, "base.html")
	pages := []string{
		"index.html", "archive.html", "post.html",
		"decks.html", "deck.html", "page.html", "login.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFiles(filepath.Join(dir, page), base)
		if err != nil {
			return nil, err
		}
		templates[page] = tmpl
	}
	return &TemplateRegistry{templates: templates}, nil
}
