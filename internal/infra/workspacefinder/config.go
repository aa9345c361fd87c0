package workspacefinder

import (
	"os"
	"path/filepath"

	"github.com/avin/lectern/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads lectern.yaml from the course root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "lectern.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Lectern.Course.Title != "" {
		cfg.Course.Title = y.Lectern.Course.Title
	}
	if y.Lectern.Paths.LessonsDir != "" {
		cfg.Paths.LessonsDir = y.Lectern.Paths.LessonsDir
	}
	if y.Lectern.Paths.IndexFile != "" {
		cfg.Paths.IndexFile = y.Lectern.Paths.IndexFile
	}
	if y.Lectern.Paths.ReportsDir != "" {
		cfg.Paths.ReportsDir = y.Lectern.Paths.ReportsDir
	}
	if y.Lectern.Paths.SiteDir != "" {
		cfg.Paths.SiteDir = y.Lectern.Paths.SiteDir
	}
	if y.Lectern.Reading.WordsPerMinute > 0 {
		cfg.Reading.WordsPerMinute = y.Lectern.Reading.WordsPerMinute
	}
	if y.Lectern.Check.RequireSections != nil {
		cfg.Check.RequireSections = *y.Lectern.Check.RequireSections
	}
	if y.Lectern.Check.ExternalLinks != nil {
		cfg.Check.ExternalLinks = *y.Lectern.Check.ExternalLinks
	}
	if y.Lectern.Serve.Addr != "" {
		cfg.Serve.Addr = y.Lectern.Serve.Addr
	}

	return cfg, nil
}

type yamlConfig struct {
	Lectern struct {
		Course struct {
			Title string `yaml:"title"`
		} `yaml:"course"`

		Paths struct {
			LessonsDir string `yaml:"lessons_dir"`
			IndexFile  string `yaml:"index_file"`
			ReportsDir string `yaml:"reports_dir"`
			SiteDir    string `yaml:"site_dir"`
		} `yaml:"paths"`

		Reading struct {
			WordsPerMinute int `yaml:"words_per_minute"`
		} `yaml:"reading"`

		Check struct {
			RequireSections *bool `yaml:"require_sections"`
			ExternalLinks   *bool `yaml:"external_links"`
		} `yaml:"check"`

		Serve struct {
			Addr string `yaml:"addr"`
		} `yaml:"serve"`
	} `yaml:"lectern"`
}
