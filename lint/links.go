package lint

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"porch/domain"
	"porch/render"
	"porch/site"
)

const linkCheckWorkers = 8

// Routes the server provides beyond per-document permalinks.
var builtinTargets = map[string]bool{
	"/":         true,
	"/posts/":   true,
	"/decks/":   true,
	"/feed.xml": true,
	"/login":    true,
	"/logout":   true,
}

// Links renders every document and checks that site-absolute hrefs and
// srcs resolve to a known permalink, a server route, or a file under
// staticDir. External links are left alone; checking the outside web is
// not this tool's job.
func Links(ctx context.Context, lib *site.Library, staticDir string) ([]Issue, error) {
	resolver, err := newResolver(lib, staticDir)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var issues []Issue

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(linkCheckWorkers)

	for _, doc := range lib.Documents {
		doc := doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found, err := brokenLinks(doc, resolver)
			if err != nil {
				return err
			}
			if len(found) > 0 {
				mu.Lock()
				issues = append(issues, found...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return issues, nil
}

func brokenLinks(doc *domain.Document, resolver *resolver) ([]Issue, error) {
	html := string(render.Markdown(doc.Body))
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML of %s: %w", doc.SourcePath, err)
	}

	var issues []Issue
	check := func(target string) {
		if !strings.HasPrefix(target, "/") {
			return
		}
		if !resolver.resolves(target) {
			issues = append(issues, Issue{doc.SourcePath, RuleBrokenLink,
				fmt.Sprintf("internal link %s does not resolve", target)})
		}
	}

	parsed.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			check(href)
		}
	})
	parsed.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			check(src)
		}
	})
	return issues, nil
}

type resolver struct {
	permalinks map[string]bool
	static     map[string]bool
	years      map[string]bool
}

func newResolver(lib *site.Library, staticDir string) (*resolver, error) {
	r := &resolver{
		permalinks: make(map[string]bool),
		static:     make(map[string]bool),
		years:      make(map[string]bool),
	}

	for _, doc := range lib.Documents {
		r.permalinks[doc.Permalink] = true
	}
	for _, year := range lib.Years(true) {
		r.years[fmt.Sprintf("/posts/%d/", year)] = true
	}

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			err := filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				rel, err := filepath.Rel(staticDir, path)
				if err != nil {
					return err
				}
				r.static["/static/"+filepath.ToSlash(rel)] = true
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("indexing static dir %s: %w", staticDir, err)
			}
		}
	}

	return r, nil
}

func (r *resolver) resolves(target string) bool {
	// Fragments and queries do not affect routing.
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
		if target == "" {
			return true
		}
	}

	if builtinTargets[target] || r.years[target] || r.static[target] {
		return true
	}
	if r.permalinks[target] {
		return true
	}
	// Routes are canonically slash-terminated and the server strips
	// trailing slashes on requests; accept the bare form of any of them.
	if !strings.HasSuffix(target, "/") {
		slashed := target + "/"
		if builtinTargets[slashed] || r.years[slashed] || r.permalinks[slashed] {
			return true
		}
	}
	return false
}
