package site_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"porch/site"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "graphql-pagination", "graphql-pagination"},
		{"uppercase", "GenStage-Backpressure", "genstage-backpressure"},
		{"spaces", "when the pager goes off", "when-the-pager-goes-off"},
		{"punctuation", "CI pipelines: part 2!", "ci-pipelines-part-2"},
		{"leading and trailing junk", "  --hello--  ", "hello"},
		{"collapsed hyphens", "a  -  b", "a-b"},
		{"unicode stripped", "café au lait", "caf-au-lait"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, site.Slugify(tt.in))
		})
	}
}
