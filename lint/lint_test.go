package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"porch/lint"
	"porch/site"
)

func load(t *testing.T, dir string) *site.Library {
	t.Helper()
	lib, err := site.Load(dir)
	require.NoError(t, err)
	return lib
}

func rulesByPath(issues []lint.Issue) map[string][]string {
	out := make(map[string][]string)
	for _, i := range issues {
		out[i.Path] = append(out[i.Path], i.Rule)
	}
	return out
}

func TestDocumentsCleanTree(t *testing.T) {
	t.Parallel()

	issues := lint.Documents(load(t, "testdata/good"))
	assert.Empty(t, issues)
}

func TestDocumentsFrontMatterRules(t *testing.T) {
	t.Parallel()

	issues := lint.Documents(load(t, "testdata/bad"))
	rules := rulesByPath(issues)

	assert.Contains(t, rules["testdata/bad/posts/2024/sloppy.md"], lint.RuleMissingDescription)
	assert.Contains(t, rules["testdata/bad/posts/2024/sloppy.md"], lint.RuleBadDate)
	assert.Contains(t, rules["testdata/bad/posts/2024/undated.md"], lint.RuleMissingDate)
	assert.Contains(t, rules["testdata/bad/posts/2024/undated.md"], lint.RuleMissingDescription)
}

func TestDocumentsDuplicatePermalinks(t *testing.T) {
	t.Parallel()

	issues := lint.Documents(load(t, "testdata/bad"))

	var dups []lint.Issue
	for _, i := range issues {
		if i.Rule == lint.RuleDuplicatePermalink {
			dups = append(dups, i)
		}
	}
	// Two files share slug "twins"; exactly one of them is the duplicate.
	require.Len(t, dups, 1)
	assert.Contains(t, dups[0].Detail, "/posts/2024/twins/")
}

func TestDocumentsDeckRules(t *testing.T) {
	t.Parallel()

	issues := lint.Documents(load(t, "testdata/bad"))
	rules := rulesByPath(issues)

	assert.Contains(t, rules["testdata/bad/decks/hollow.md"], lint.RuleEmptyDeck)
	assert.Contains(t, rules["testdata/bad/decks/gappy.md"], lint.RuleEmptySlide)
	assert.NotContains(t, rules["testdata/bad/decks/gappy.md"], lint.RuleEmptyDeck)
}
