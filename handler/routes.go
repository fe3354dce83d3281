package handler

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// Register wires the site routes. Fixed routes win over the catch-all
// page route in echo's router, so /login and /posts stay reachable.
// Permalinks are slash-terminated; pair this with RemoveTrailingSlash.
func Register(e *echo.Echo, h *Handler, staticDir string) {
	e.GET("/", h.Index)
	e.GET("/posts", h.Archive)
	e.GET("/posts/:year", h.YearArchive)
	e.GET("/posts/:year/:slug", h.GetPost)
	e.GET("/decks", h.ListDecks)
	e.GET("/decks/:slug", h.GetDeck)
	e.GET("/feed.xml", h.Feed)
	e.GET("/login", h.GetLoginForm)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)
	e.Static("/static", staticDir)
	e.File("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
	e.GET("/:slug", h.GetPage)
}
