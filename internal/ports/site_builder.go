package ports

import (
	"context"

	"github.com/avin/lectern/internal/domain"
)

// SiteBuilder renders a course into a static HTML tree.
type SiteBuilder interface {
	// Build writes the site under outDir and returns the number of
	// pages written.
	Build(ctx context.Context, course domain.Course, outDir string) (int, error)
}
