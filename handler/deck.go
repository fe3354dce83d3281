package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"porch/render"
)

type DeckDTO struct {
	Title     string
	Summary   string
	Permalink string
	Date      string
	Slides    []template.HTML
}

func (h *Handler) ListDecks(c echo.Context) error {
	drafts := h.isLoggedIn(c)

	var dtos []DeckDTO
	for _, deck := range h.Library().Decks {
		if !deck.Published() && !drafts {
			continue
		}
		dto := DeckDTO{
			Title:     render.Title(deck.Meta.Title),
			Summary:   render.Summary(&deck.Document),
			Permalink: deck.Permalink,
		}
		if !deck.Date.IsZero() {
			dto.Date = deck.Date.Format(time.DateOnly)
		}
		dtos = append(dtos, dto)
	}

	return c.Render(http.StatusOK, "decks.html", struct {
		Page
		Decks []DeckDTO
	}{h.pageData(c, "Talks"), dtos})
}

func (h *Handler) GetDeck(c echo.Context) error {
	deck, ok := h.Library().Deck(c.Param("slug"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if !deck.Published() && !h.isLoggedIn(c) {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	dto := DeckDTO{
		Title:     render.Title(deck.Meta.Title),
		Permalink: deck.Permalink,
	}
	for _, slide := range deck.Slides {
		dto.Slides = append(dto.Slides, render.Markdown([]byte(slide)))
	}

	return c.Render(http.StatusOK, "deck.html", struct {
		Page
		Deck DeckDTO
	}{h.pageData(c, dto.Title), dto})
}
