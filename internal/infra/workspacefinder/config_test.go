package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avin/lectern/internal/domain"
)

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "course")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Partial config (no paths/reading)
	content := []byte("lectern:\n  course:\n    title: Systems Programming\n")
	if err := os.WriteFile(filepath.Join(root, "lectern.yaml"), content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Course.Title != "Systems Programming" {
		t.Fatalf("expected title=Systems Programming, got=%s", cfg.Course.Title)
	}
	if cfg.Paths.LessonsDir != "lessons" {
		t.Fatalf("expected lessons dir=lessons, got=%s", cfg.Paths.LessonsDir)
	}
	if cfg.Paths.IndexFile != "README.md" {
		t.Fatalf("expected index file=README.md, got=%s", cfg.Paths.IndexFile)
	}
	if cfg.Paths.ReportsDir != "reports" {
		t.Fatalf("expected reports dir=reports, got=%s", cfg.Paths.ReportsDir)
	}
	if cfg.Reading.WordsPerMinute != 220 {
		t.Fatalf("expected wpm=220, got=%d", cfg.Reading.WordsPerMinute)
	}
	if !cfg.Check.RequireSections {
		t.Fatalf("expected require_sections default=true")
	}
	if cfg.Check.ExternalLinks {
		t.Fatalf("expected external_links default=false")
	}
	if cfg.Serve.Addr != "127.0.0.1:4321" {
		t.Fatalf("expected addr=127.0.0.1:4321, got=%s", cfg.Serve.Addr)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "course")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	content := []byte(`lectern:
  course:
    title: Networking Basics
  paths:
    lessons_dir: chapters
    index_file: INDEX.md
    reports_dir: out/reports
    site_dir: out/site
  reading:
    words_per_minute: 180
  check:
    require_sections: false
    external_links: true
  serve:
    addr: 0.0.0.0:8080
`)
	if err := os.WriteFile(filepath.Join(root, "lectern.yaml"), content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Paths.LessonsDir != "chapters" {
		t.Fatalf("expected lessons dir=chapters, got=%s", cfg.Paths.LessonsDir)
	}
	if cfg.Paths.IndexFile != "INDEX.md" {
		t.Fatalf("expected index file=INDEX.md, got=%s", cfg.Paths.IndexFile)
	}
	if cfg.Reading.WordsPerMinute != 180 {
		t.Fatalf("expected wpm=180, got=%d", cfg.Reading.WordsPerMinute)
	}
	if cfg.Check.RequireSections {
		t.Fatalf("expected require_sections=false")
	}
	if !cfg.Check.ExternalLinks {
		t.Fatalf("expected external_links=true")
	}
	if cfg.Serve.Addr != "0.0.0.0:8080" {
		t.Fatalf("expected addr=0.0.0.0:8080, got=%s", cfg.Serve.Addr)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	tmp := t.TempDir()

	_, err := LoadConfig(tmp)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "lectern.yaml"), []byte("lectern: [broken\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadConfig(tmp)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}
