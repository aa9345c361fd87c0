package domain

// Config represents the Lectern configuration loaded from lectern.yaml.
type Config struct {
	Course  CourseConfig
	Paths   PathsConfig
	Reading ReadingConfig
	Check   CheckConfig
	Serve   ServeConfig
}

type CourseConfig struct {
	// Title overrides the H1 of the index file when set.
	Title string
}

type PathsConfig struct {
	LessonsDir string
	IndexFile  string
	ReportsDir string
	SiteDir    string
}

type ReadingConfig struct {
	WordsPerMinute int
}

type CheckConfig struct {
	// RequireSections makes missing "What to read next"/"Self-check"
	// trailers a finding.
	RequireSections bool

	// ExternalLinks enables probing http(s) links during check.
	ExternalLinks bool
}

type ServeConfig struct {
	Addr string
}

// DefaultConfig provides sane defaults if lectern.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			LessonsDir: "lessons",
			IndexFile:  "README.md",
			ReportsDir: "reports",
			SiteDir:    "site",
		},
		Reading: ReadingConfig{
			WordsPerMinute: 220,
		},
		Check: CheckConfig{
			RequireSections: true,
			ExternalLinks:   false,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:4321",
		},
	}
}
