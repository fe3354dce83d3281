package site_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"porch/domain"
	"porch/site"
)

func loadFixture(t *testing.T) *site.Library {
	t.Helper()
	lib, err := site.Load("testdata/site")
	require.NoError(t, err)
	return lib
}

func TestLoadCollections(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	assert.Len(t, lib.Documents, 6)
	assert.Len(t, lib.Posts, 4)
	assert.Len(t, lib.Decks, 1)
	assert.Len(t, lib.Pages, 1)
}

func TestLoadFrontMatter(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	doc, ok := lib.Lookup("/posts/2024/graphql-pagination/")
	require.True(t, ok)

	assert.Equal(t, "Cursor pagination in GraphQL, without tears", doc.Meta.Title)
	assert.NotEmpty(t, doc.Meta.Description)
	assert.Equal(t, []string{"graphql", "api-design"}, doc.Meta.Tags)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), doc.Date)
	assert.Equal(t, domain.SectionPosts, doc.Section)
	assert.True(t, doc.Published())
	assert.Contains(t, string(doc.Body), "Offset pagination")
	assert.NotContains(t, string(doc.Body), "---")
}

func TestLoadRFC3339Date(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	doc, ok := lib.Lookup("/posts/2024/when-the-pager-goes-off/")
	require.True(t, ok)
	assert.Equal(t, 2024, doc.Date.Year())
	assert.True(t, doc.Meta.Draft)
	assert.False(t, doc.Published())
}

func TestLoadFilenameTitleFallback(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	doc, ok := lib.Lookup("/posts/2023/plain-note/")
	require.True(t, ok)
	assert.Equal(t, "Plain Note", doc.Meta.Title)
	assert.True(t, doc.Date.IsZero())
	assert.Contains(t, string(doc.Body), "without any front matter")
}

func TestPostsSortedNewestFirst(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	posts := lib.Posts
	require.Len(t, posts, 4)
	for i := 1; i < len(posts); i++ {
		if posts[i].Date.IsZero() {
			continue // dateless posts sort last
		}
		assert.False(t, posts[i].Date.After(posts[i-1].Date),
			"post %d (%s) is newer than post %d", i, posts[i].Slug, i-1)
	}
	// The dateless post must come last.
	assert.Equal(t, "plain-note", posts[len(posts)-1].Slug)
}

func TestPostsByYear(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	byYear := lib.PostsByYear(true)
	assert.Len(t, byYear[2024], 2)
	assert.Len(t, byYear[2023], 2)

	// Without drafts the 2024 bucket shrinks.
	assert.Len(t, lib.PostsByYear(false)[2024], 1)

	assert.Equal(t, []int{2024, 2023}, lib.Years(true))
}

func TestPublishedPostsHidesDrafts(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	for _, p := range lib.PublishedPosts(false) {
		assert.False(t, p.Meta.Draft, "draft %s leaked into published posts", p.Slug)
	}
	assert.Len(t, lib.PublishedPosts(false), 3)
	assert.Len(t, lib.PublishedPosts(true), 4)
}

func TestDeckSlides(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	deck, ok := lib.Deck("ci-pipelines")
	require.True(t, ok)
	require.Equal(t, 3, deck.SlideCount())
	assert.Contains(t, deck.Slides[0], "three acts")
	assert.Contains(t, deck.Slides[1], "Act one")
	assert.Contains(t, deck.Slides[2], "Caches are bets")
	assert.Equal(t, "/decks/ci-pipelines/", deck.Permalink)
}

func TestExplicitSlugWins(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	_, ok := lib.Lookup("/posts/2023/genstage-backpressure/")
	assert.True(t, ok)
}

func TestPostWithoutYearDirUsesDateYear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	post := "---\ntitle: Floating\ndescription: No year directory.\ndate: 2021-06-01\n---\n\nBody.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "floating.md"), []byte(post), 0o644))

	lib, err := site.Load(dir)
	require.NoError(t, err)

	doc, ok := lib.Lookup("/posts/2021/floating/")
	require.True(t, ok)
	assert.Equal(t, 2021, doc.Year())
}

func TestLoadMissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	lib, err := site.Load("testdata/does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, lib.Documents)
	assert.Empty(t, lib.PublishedPosts(true))
}

func TestPostLookupByYearAndSlug(t *testing.T) {
	t.Parallel()
	lib := loadFixture(t)

	doc, ok := lib.Post(2023, "genstage-backpressure")
	require.True(t, ok)
	assert.Equal(t, "Demand-driven backpressure with GenStage", doc.Meta.Title)

	_, ok = lib.Post(2022, "genstage-backpressure")
	assert.False(t, ok)
}
