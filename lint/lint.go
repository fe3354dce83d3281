// Package lint implements the document-hygiene checks behind
// `porch check`: required front-matter fields, well-formed dates,
// unique permalinks, resolvable internal links, and sane decks.
package lint

import (
	"fmt"
	"time"

	"porch/domain"
	"porch/site"
)

// Issue is a single finding. Rule is a stable identifier so issues can
// be grepped and counted; Detail is for humans.
type Issue struct {
	Path   string
	Rule   string
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: [%s] %s", i.Path, i.Rule, i.Detail)
}

// Rule identifiers.
const (
	RuleMissingTitle       = "missing-title"
	RuleMissingDescription = "missing-description"
	RuleMissingDate        = "missing-date"
	RuleBadDate            = "bad-date"
	RuleDuplicatePermalink = "duplicate-permalink"
	RuleBrokenLink         = "broken-link"
	RuleEmptyDeck          = "empty-deck"
	RuleEmptySlide         = "empty-slide"
)

var acceptedDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Documents runs every per-document rule over the library.
func Documents(lib *site.Library) []Issue {
	var issues []Issue

	issues = append(issues, frontMatterIssues(lib)...)
	issues = append(issues, duplicatePermalinks(lib)...)
	issues = append(issues, deckIssues(lib)...)

	return issues
}

func frontMatterIssues(lib *site.Library) []Issue {
	var issues []Issue
	for _, doc := range lib.Documents {
		if doc.Meta.Title == "" {
			// Loading fills in a filename-derived title, so this only
			// fires for files that produced nothing at all.
			issues = append(issues, Issue{doc.SourcePath, RuleMissingTitle, "no title in front matter or filename"})
		}

		if doc.Section != domain.SectionPosts {
			continue
		}
		if doc.Meta.Description == "" {
			issues = append(issues, Issue{doc.SourcePath, RuleMissingDescription, "posts need a description for listings and the feed"})
		}
		switch {
		case doc.Meta.Date == "":
			issues = append(issues, Issue{doc.SourcePath, RuleMissingDate, "posts need a date"})
		case !dateParses(doc.Meta.Date):
			issues = append(issues, Issue{doc.SourcePath, RuleBadDate,
				fmt.Sprintf("date %q is not YYYY-MM-DD or RFC3339", doc.Meta.Date)})
		}
	}
	return issues
}

func dateParses(s string) bool {
	for _, format := range acceptedDateFormats {
		if _, err := time.Parse(format, s); err == nil {
			return true
		}
	}
	return false
}

func duplicatePermalinks(lib *site.Library) []Issue {
	seen := make(map[string]string)
	var issues []Issue
	for _, doc := range lib.Documents {
		if first, dup := seen[doc.Permalink]; dup {
			issues = append(issues, Issue{doc.SourcePath, RuleDuplicatePermalink,
				fmt.Sprintf("permalink %s already used by %s", doc.Permalink, first)})
			continue
		}
		seen[doc.Permalink] = doc.SourcePath
	}
	return issues
}

func deckIssues(lib *site.Library) []Issue {
	var issues []Issue
	for _, deck := range lib.Decks {
		if deck.SlideCount() == 0 {
			issues = append(issues, Issue{deck.SourcePath, RuleEmptyDeck, "deck has no slides"})
			continue
		}
		for i, slide := range deck.Slides {
			if slide == "" {
				issues = append(issues, Issue{deck.SourcePath, RuleEmptySlide,
					fmt.Sprintf("slide %d is empty", i+1)})
			}
		}
	}
	return issues
}
