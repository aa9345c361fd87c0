package domain

// WorkspaceSpec describes a course workspace to create.
type WorkspaceSpec struct {
	Root string

	// Title seeds lectern.yaml and the index H1; empty means the
	// template default.
	Title string
}
