package usecase

import (
	"context"
	"fmt"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

type WriteTOC struct {
	courses ports.CourseLoader
	writer  ports.CourseWriter
}

func NewWriteTOC(cl ports.CourseLoader, w ports.CourseWriter) *WriteTOC {
	return &WriteTOC{
		courses: cl,
		writer:  w,
	}
}

type WriteTOCResult struct {
	Blocks []domain.Block

	// Added lists files that were on disk but missing from the TOC; they
	// land in a trailing "Unsorted" block.
	Added []string

	// Removed lists entries whose targets no longer exist on disk.
	Removed []string

	// Written is false when nothing remained to write.
	Written bool
}

// Execute regenerates the index TOC from the lesson files on disk: stale
// entries go, untracked files join a trailing "Unsorted" block, titles are
// refreshed from each lesson's H1. Prose around the list stays put.
func (uc *WriteTOC) Execute(ctx context.Context, root string, cfg domain.Config) (WriteTOCResult, error) {
	course, err := uc.courses.LoadCourse(ctx, root)
	if err != nil {
		if !domain.IsKind(err, domain.KindInvalidIndex) {
			return WriteTOCResult{}, err
		}
		// No parseable TOC yet: rebuild one from the files alone.
		files, scanErr := uc.courses.ScanLessons(ctx, root)
		if scanErr != nil && !domain.IsKind(scanErr, domain.KindNotFound) {
			return WriteTOCResult{}, scanErr
		}
		course = domain.Course{
			Root:      root,
			IndexPath: cfg.Paths.IndexFile,
			Files:     files,
		}
	}

	fileByPath := make(map[string]domain.LessonFile, len(course.Files))
	for _, f := range course.Files {
		fileByPath[f.Path] = f
	}

	var result WriteTOCResult
	referenced := map[string]bool{}

	var blocks []domain.Block
	for _, b := range course.Blocks {
		kept := domain.Block{Title: b.Title}
		for _, ref := range b.Lessons {
			target := domain.StripFragment(ref.Target)
			f, ok := fileByPath[target]
			if !ok {
				result.Removed = append(result.Removed, removedLabel(ref))
				continue
			}
			referenced[target] = true

			ref.Target = target
			ref.Number = f.Number
			if f.Title != "" {
				ref.Title = f.Title
			}
			kept.Lessons = append(kept.Lessons, ref)
		}
		if len(kept.Lessons) > 0 {
			blocks = append(blocks, kept)
		}
	}

	var unsorted domain.Block
	for _, f := range course.Files {
		if referenced[f.Path] {
			continue
		}
		title := f.Title
		if title == "" {
			title = f.Name
		}
		unsorted.Lessons = append(unsorted.Lessons, domain.LessonRef{
			Number: f.Number,
			Title:  title,
			Target: f.Path,
		})
		result.Added = append(result.Added, f.Path)
	}
	if len(unsorted.Lessons) > 0 {
		unsorted.Title = "Unsorted"
		blocks = append(blocks, unsorted)
	}

	for i := range blocks {
		blocks[i].Number = i + 1
	}
	result.Blocks = blocks

	if len(blocks) == 0 {
		// Nothing on disk and nothing kept: leave the index untouched
		// rather than writing a document with no list.
		return result, nil
	}

	if err := uc.writer.ReplaceTOC(root, cfg.Paths.IndexFile, blocks); err != nil {
		return WriteTOCResult{}, err
	}
	result.Written = true
	return result, nil
}

func removedLabel(ref domain.LessonRef) string {
	if ref.Target != "" {
		return ref.Target
	}
	return fmt.Sprintf("%q (no link)", ref.Title)
}
