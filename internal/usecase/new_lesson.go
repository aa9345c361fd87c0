package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"

	apptemplate "github.com/avin/lectern/internal/app/template"
	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

// lessonSkeleton is the body of a freshly scaffolded lesson. New lessons
// start as drafts so the check reminds the author to finish them.
const lessonSkeleton = `---
draft: true
---
# {{title}}

Write lesson {{number}} here.

## What to read next

- [Back to the index](../{{index}})

## Self-check

- Can you explain {{title}} to a colleague in five minutes?
`

type NewLesson struct {
	courses ports.CourseLoader
	writer  ports.CourseWriter
}

func NewNewLesson(cl ports.CourseLoader, w ports.CourseWriter) *NewLesson {
	return &NewLesson{
		courses: cl,
		writer:  w,
	}
}

type NewLessonParams struct {
	Root   string
	Config domain.Config
	Title  string

	// Block picks the TOC block for the new entry; 0 means the last one.
	Block int

	// NoTOC skips the index update; the caller prints the entry instead.
	NoTOC bool
}

type NewLessonResult struct {
	// Path is the created lesson file, relative to the root.
	Path string

	// Ref is the table-of-contents entry, appended or suggested.
	Ref domain.LessonRef

	// TOCUpdated is false when NoTOC was set.
	TOCUpdated bool
}

// Execute creates lessons/NN-slug.md with the next free number and appends
// its entry to the chosen TOC block.
func (uc *NewLesson) Execute(ctx context.Context, p NewLessonParams) (NewLessonResult, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return NewLessonResult{}, &domain.OpError{
			Op:   "newlesson",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty lesson title"),
		}
	}

	var (
		files  []domain.LessonFile
		blocks []domain.Block
	)
	if p.NoTOC {
		fs, err := uc.courses.ScanLessons(ctx, p.Root)
		if err != nil && !domain.IsKind(err, domain.KindNotFound) {
			return NewLessonResult{}, err
		}
		files = fs
	} else {
		course, err := uc.courses.LoadCourse(ctx, p.Root)
		if err != nil {
			return NewLessonResult{}, err
		}
		files = course.Files
		blocks = course.Blocks
	}

	next := 1
	for _, f := range files {
		if f.Number >= next {
			next = f.Number + 1
		}
	}

	slug := domain.Slugify(title)
	for _, f := range files {
		if f.Slug != "" && f.Slug == slug {
			return NewLessonResult{}, &domain.OpError{
				Op:   "newlesson",
				Kind: domain.KindConflict,
				Path: f.Path,
				Err:  fmt.Errorf("%w: slug %q is used by %s", domain.ErrConflict, slug, f.Path),
			}
		}
	}

	content, err := apptemplate.RenderString(lessonSkeleton, map[string]string{
		"number": fmt.Sprintf("%02d", next),
		"title":  title,
		"slug":   slug,
		"index":  p.Config.Paths.IndexFile,
	})
	if err != nil {
		return NewLessonResult{}, err
	}

	relPath := path.Join(p.Config.Paths.LessonsDir, domain.LessonFileName(next, title))
	if err := uc.writer.WriteLesson(p.Root, relPath, []byte(content)); err != nil {
		return NewLessonResult{}, err
	}

	ref := domain.LessonRef{
		Number: next,
		Title:  title,
		Target: relPath,
	}
	result := NewLessonResult{
		Path: relPath,
		Ref:  ref,
	}
	if p.NoTOC {
		return result, nil
	}

	blocks, err = appendToBlock(blocks, ref, p.Block)
	if err != nil {
		return NewLessonResult{}, err
	}
	if err := uc.writer.ReplaceTOC(p.Root, p.Config.Paths.IndexFile, blocks); err != nil {
		return NewLessonResult{}, err
	}

	result.TOCUpdated = true
	return result, nil
}

func appendToBlock(blocks []domain.Block, ref domain.LessonRef, blockNumber int) ([]domain.Block, error) {
	if len(blocks) == 0 {
		return []domain.Block{{Number: 1, Title: "Unsorted", Lessons: []domain.LessonRef{ref}}}, nil
	}

	idx := len(blocks) - 1
	if blockNumber > 0 {
		idx = -1
		for i, b := range blocks {
			if b.Number == blockNumber {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, &domain.OpError{
				Op:   "newlesson",
				Kind: domain.KindNotFound,
				Err:  fmt.Errorf("%w: block %d", domain.ErrNotFound, blockNumber),
			}
		}
	}

	blocks[idx].Lessons = append(blocks[idx].Lessons, ref)
	return blocks, nil
}
