package mdcourse

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
	"golang.org/x/sync/errgroup"
)

// scanConcurrency caps parallel lesson parses during a course load.
const scanConcurrency = 8

type Loader struct {
	lessonsDir string
	indexFile  string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		lessonsDir: "lessons",
		indexFile:  "README.md",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithLessonsDir(dir string) Option {
	return func(l *Loader) { l.lessonsDir = dir }
}

func WithIndexFile(name string) Option {
	return func(l *Loader) { l.indexFile = name }
}

var _ ports.CourseLoader = (*Loader)(nil)

func (l *Loader) LoadCourse(ctx context.Context, root string) (domain.Course, error) {
	indexPath := filepath.Join(root, l.indexFile)
	b, err := os.ReadFile(indexPath)
	if err != nil {
		return domain.Course{}, &domain.OpError{
			Op:   "mdcourse.index",
			Kind: domain.KindNotFound,
			Path: indexPath,
			Err:  err,
		}
	}

	doc, err := parseIndex(indexPath, b)
	if err != nil {
		return domain.Course{}, err
	}

	files, err := l.ScanLessons(ctx, root)
	if err != nil {
		// A course may predate its first lesson; a missing lessons
		// directory surfaces as broken-target findings, not a load error.
		if !domain.IsKind(err, domain.KindNotFound) {
			return domain.Course{}, err
		}
		files = nil
	}

	return domain.Course{
		Title:     doc.title,
		Root:      root,
		IndexPath: l.indexFile,
		Blocks:    doc.blocks,
		Files:     files,
	}, nil
}

func (l *Loader) LoadLesson(root, relPath string) (domain.LessonFile, error) {
	full := filepath.Join(root, filepath.FromSlash(relPath))
	b, err := os.ReadFile(full)
	if err != nil {
		return domain.LessonFile{}, &domain.OpError{
			Op:   "mdcourse.lesson",
			Kind: domain.KindNotFound,
			Path: full,
			Err:  err,
		}
	}
	return parseLesson(path.Clean(filepath.ToSlash(relPath)), b), nil
}

func (l *Loader) ScanLessons(ctx context.Context, root string) ([]domain.LessonFile, error) {
	dir := filepath.Join(root, l.lessonsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "mdcourse.scan",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}

	files := make([]domain.LessonFile, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lf, err := l.LoadLesson(root, path.Join(l.lessonsDir, name))
			if err != nil {
				return err
			}
			files[i] = lf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortLessonFiles(files)
	return files, nil
}

// sortLessonFiles orders by number, unnumbered files last by name.
func sortLessonFiles(files []domain.LessonFile) {
	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.Number != b.Number {
			if a.Number == 0 || b.Number == 0 {
				return b.Number == 0
			}
			return a.Number < b.Number
		}
		return a.Name < b.Name
	})
}
