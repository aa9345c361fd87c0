package usecase

import (
	"context"
	"path/filepath"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

type ExportSite struct {
	courses ports.CourseLoader
	builder ports.SiteBuilder
}

func NewExportSite(cl ports.CourseLoader, b ports.SiteBuilder) *ExportSite {
	return &ExportSite{
		courses: cl,
		builder: b,
	}
}

type ExportResult struct {
	OutDir string
	Pages  int
}

// Execute renders the course as a static site. An empty outDir falls back
// to the configured site directory under the root.
func (uc *ExportSite) Execute(ctx context.Context, root, outDir string, cfg domain.Config) (ExportResult, error) {
	course, err := uc.courses.LoadCourse(ctx, root)
	if err != nil {
		return ExportResult{}, err
	}
	if t := cfg.Course.Title; t != "" {
		course.Title = t
	}

	if outDir == "" {
		outDir = filepath.Join(root, cfg.Paths.SiteDir)
	}

	pages, err := uc.builder.Build(ctx, course, outDir)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{OutDir: outDir, Pages: pages}, nil
}
