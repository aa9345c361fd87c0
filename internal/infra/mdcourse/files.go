package mdcourse

import (
	"os"
	"path/filepath"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

var _ ports.CourseFiles = (*Loader)(nil)

func (l *Loader) Exists(root, relPath string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
	return err == nil
}

func (l *Loader) ReadSource(root, relPath string) ([]byte, error) {
	full := filepath.Join(root, filepath.FromSlash(relPath))
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "mdcourse.read",
			Kind: domain.KindNotFound,
			Path: full,
			Err:  err,
		}
	}
	return b, nil
}
