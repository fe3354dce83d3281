package handler_test

import (
	"net/http"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedIsValidAtom(t *testing.T) {
	t.Parallel()
	s := newSite(t)

	rec := s.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/atom+xml")

	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	require.NoError(t, err)

	assert.Equal(t, "atom", feed.FeedType)
	assert.Equal(t, "Test Porch", feed.Title)
	require.NotEmpty(t, feed.Items)

	titles := make(map[string]bool)
	for _, item := range feed.Items {
		titles[item.Title] = true
		assert.Contains(t, item.Link, "https://example.com/posts/")
	}
	assert.True(t, titles["First post"])
	assert.False(t, titles["Secret draft"], "drafts must never reach the feed")
}

func TestFeedExcludesDraftsEvenForAuthor(t *testing.T) {
	t.Parallel()
	s := newSite(t)

	cookie := s.login(t)
	rec := s.get("/feed.xml", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Secret draft")
}
