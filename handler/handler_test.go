package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"

	"porch/config"
	"porch/handler"
	"porch/site"
	"porch/store"
)

type testSite struct {
	e *echo.Echo
	h *handler.Handler
	s *store.Store
}

func newSite(t *testing.T) *testSite {
	t.Helper()

	lib, err := site.Load("testdata/site")
	require.NoError(t, err)

	s, err := store.Open("sqlite", filepath.Join(t.TempDir(), "porch.db"), "file://../db/migrations")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.EnsureAuthor("sara", "hunter22")
	require.NoError(t, err)

	h := &handler.Handler{
		Store:     s,
		JWTSecret: "test-secret",
		Site: config.Config{
			SiteTitle:       "Test Porch",
			SiteDescription: "A site under test",
			Author:          "Sara",
			BaseURL:         "https://example.com",
		},
	}
	h.SetLibrary(lib)

	registry, err := handler.NewTemplateRegistry("../templates")
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = registry
	e.Pre(middleware.RemoveTrailingSlash())
	handler.Register(e, h, "testdata/static")

	return &testSite{e: e, h: h, s: s}
}

func (s *testSite) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testSite) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// login authenticates through the real handler and returns the session
// cookie it set.
func (s *testSite) login(t *testing.T) *http.Cookie {
	t.Helper()

	rec := s.postForm("/login", url.Values{
		"username": {"sara"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "Authorization" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no Authorization cookie set by login")
	return nil
}
