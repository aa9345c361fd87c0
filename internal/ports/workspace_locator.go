package ports

// WorkspaceLocator finds a Lectern course root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}
