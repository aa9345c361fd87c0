package ports

import (
	"context"

	"github.com/avin/lectern/internal/domain"
)

// CourseLoader loads a course from a source (e.g., filesystem markdown).
type CourseLoader interface {
	// LoadCourse parses the index file and every lesson under the
	// lessons directory.
	LoadCourse(ctx context.Context, root string) (domain.Course, error)

	// LoadLesson parses a single lesson file given its root-relative path.
	LoadLesson(root, relPath string) (domain.LessonFile, error)

	// ScanLessons parses the lesson files only, ignoring the index.
	// Used where the index may be missing or is about to be rewritten.
	ScanLessons(ctx context.Context, root string) ([]domain.LessonFile, error)
}
