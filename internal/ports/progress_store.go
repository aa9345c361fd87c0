package ports

import "github.com/avin/lectern/internal/domain"

// ProgressStore persists reading progress for one course workspace.
// Load returns a fresh Progress when none has been saved yet.
type ProgressStore interface {
	Load() (domain.Progress, error)
	Save(p domain.Progress) error
}
