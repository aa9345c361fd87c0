package ports

import "github.com/avin/lectern/internal/domain"

// CourseWriter mutates course files on disk. Scaffolding and the TOC
// rewriter go through it so usecases stay free of filesystem details.
type CourseWriter interface {
	// WriteLesson creates a new lesson file. It fails when the path
	// already exists; lesson files are never overwritten.
	WriteLesson(root, relPath string, content []byte) error

	// ReplaceTOC swaps the table-of-contents list inside the index file,
	// keeping the prose around it intact. A missing list is appended at
	// the end of the document.
	ReplaceTOC(root, indexFile string, blocks []domain.Block) error
}
