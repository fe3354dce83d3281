package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetPage serves standalone pages from the top of the permalink space
// (/about/, /now/, ...). Registered last so fixed routes win.
func (h *Handler) GetPage(c echo.Context) error {
	doc, ok := h.Library().Page(c.Param("slug"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if !doc.Published() && !h.isLoggedIn(c) {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	dto := h.postDTO(doc, true)
	return c.Render(http.StatusOK, "page.html", struct {
		Page
		Post PostDTO
	}{h.pageData(c, dto.Title), dto})
}
