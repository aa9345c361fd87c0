package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avin/lectern/internal/domain"
)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp, Title: "Systems Course"}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "lectern.yaml"))
	assertFileExists(t, filepath.Join(tmp, "README.md"))
	assertFileExists(t, filepath.Join(tmp, "lessons", "01-how-to-read-this-course.md"))
	assertFileExists(t, filepath.Join(tmp, ".gitignore"))

	for _, d := range []string{"lessons", "reports", filepath.Join(".lectern", "logs")} {
		info, err := os.Stat(filepath.Join(tmp, d))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", d, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(tmp, "README.md"))
	if err != nil {
		t.Fatalf("read README.md: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Systems Course") {
		t.Fatalf("expected rendered title, got:\n%s", string(b))
	}

	b, err = os.ReadFile(filepath.Join(tmp, "lectern.yaml"))
	if err != nil {
		t.Fatalf("read lectern.yaml: %v", err)
	}
	if !strings.Contains(string(b), `title: "Systems Course"`) {
		t.Fatalf("expected rendered config title, got:\n%s", string(b))
	}
}

func TestInitializer_Init_DefaultTitle(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, "README.md"))
	if err != nil {
		t.Fatalf("read README.md: %v", err)
	}
	if !strings.HasPrefix(string(b), "# New Course") {
		t.Fatalf("expected default title, got:\n%s", string(b))
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "lectern.yaml")
	if err := os.WriteFile(cfgPath, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing lectern.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read lectern.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected lectern.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read lectern.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "lectern:") {
		t.Fatalf("expected lectern.yaml overwritten with template, got %q", string(b))
	}
}

func TestInitializer_Init_SeededCourseLoadsCleanly(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp, Title: "Seeded"}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	// The seeded lesson must follow the NN-slug naming convention and end
	// with the conventional sections, or a fresh workspace would fail its
	// own first check.
	b, err := os.ReadFile(filepath.Join(tmp, "lessons", "01-how-to-read-this-course.md"))
	if err != nil {
		t.Fatalf("read seeded lesson: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "## What to read next") || !strings.Contains(s, "## Self-check") {
		t.Fatalf("seeded lesson misses conventional sections:\n%s", s)
	}

	if _, _, ok := domain.ParseLessonName("01-how-to-read-this-course.md"); !ok {
		t.Fatalf("seeded lesson name does not parse")
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
