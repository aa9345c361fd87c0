package usecase

import (
	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(root, title string, force bool) error {
	return uc.initializer.Init(domain.WorkspaceSpec{Root: root, Title: title}, force)
}
