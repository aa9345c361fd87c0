package ports

// CourseFiles gives raw access to files inside a course workspace. Split
// from CourseLoader so link checks can verify asset targets (images,
// attachments) the loader never parses, and so search and rendering can
// read lesson bodies.
type CourseFiles interface {
	// Exists reports whether a root-relative path is present on disk.
	Exists(root, relPath string) bool

	// ReadSource returns the raw bytes of a root-relative file.
	ReadSource(root, relPath string) ([]byte, error)
}
