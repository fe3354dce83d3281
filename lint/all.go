package lint

import (
	"context"

	"porch/site"
)

// All runs the full rule set: per-document checks first, then the link
// resolution pass.
func All(ctx context.Context, lib *site.Library, staticDir string) ([]Issue, error) {
	issues := Documents(lib)

	linkIssues, err := Links(ctx, lib, staticDir)
	if err != nil {
		return nil, err
	}
	return append(issues, linkIssues...), nil
}
