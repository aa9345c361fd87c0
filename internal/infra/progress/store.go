package progress

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

const stateDir = ".lectern"

// Store keeps reading progress in <root>/.lectern/progress.json.
type Store struct {
	rootDir string
}

func NewStore(root string) *Store {
	return &Store{rootDir: root}
}

var _ ports.ProgressStore = (*Store)(nil)

func (s *Store) path() string {
	return filepath.Join(s.rootDir, stateDir, "progress.json")
}

func (s *Store) Load() (domain.Progress, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewProgress(), nil
		}
		return domain.Progress{}, &domain.OpError{
			Op:   "progress.load",
			Kind: domain.KindExecution,
			Path: s.path(),
			Err:  err,
		}
	}

	var p domain.Progress
	if err := json.Unmarshal(b, &p); err != nil {
		// A corrupt progress file should never block reading; start over.
		return domain.NewProgress(), nil
	}
	if p.Read == nil {
		p.Read = map[string]time.Time{}
	}
	return p, nil
}

func (s *Store) Save(p domain.Progress) error {
	dir := filepath.Dir(s.path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.OpError{
			Op:   "progress.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "progress.marshal",
			Kind: domain.KindExecution,
			Path: s.path(),
			Err:  err,
		}
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return &domain.OpError{
			Op:   "progress.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "progress.rename",
			Kind: domain.KindExecution,
			Path: s.path(),
			Err:  err,
		}
	}
	return nil
}
