package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
	"golang.org/x/sync/errgroup"
)

const (
	searchConcurrency = 8

	// snippetMax keeps one-line search output readable on narrow terminals.
	snippetMax = 160
)

type SearchCourse struct {
	courses ports.CourseLoader
	files   ports.CourseFiles
}

func NewSearchCourse(cl ports.CourseLoader, cf ports.CourseFiles) *SearchCourse {
	return &SearchCourse{
		courses: cl,
		files:   cf,
	}
}

// Execute finds term (case-insensitive) in every lesson body. It scans
// lesson files directly, so search keeps working while the index is broken.
func (uc *SearchCourse) Execute(ctx context.Context, root, term string) ([]domain.SearchHit, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, &domain.OpError{
			Op:   "search",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty search term"),
		}
	}
	needle := strings.ToLower(term)

	files, err := uc.courses.ScanLessons(ctx, root)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		files = nil
	}

	perFile := make([][]domain.SearchHit, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := uc.files.ReadSource(root, f.Path)
			if err != nil {
				return err
			}
			perFile[i] = searchFile(f, src, needle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var hits []domain.SearchHit
	for _, fh := range perFile {
		hits = append(hits, fh...)
	}
	return hits, nil
}

// searchFile matches lines after the front matter block, keeping real file
// line numbers for the hits.
func searchFile(f domain.LessonFile, src []byte, needle string) []domain.SearchHit {
	lines := strings.Split(string(src), "\n")

	var hits []domain.SearchHit
	for i := frontMatterEnd(lines); i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Path:    f.Path,
			Number:  f.Number,
			Title:   f.Title,
			Line:    i + 1,
			Snippet: snippet(line),
		})
	}
	return hits
}

func frontMatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			return i + 1
		}
	}
	return 0
}

func snippet(line string) string {
	line = strings.TrimSpace(line)
	r := []rune(line)
	if len(r) <= snippetMax {
		return line
	}
	return string(r[:snippetMax]) + "..."
}
