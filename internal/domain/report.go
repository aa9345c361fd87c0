package domain

import "time"

// Severity splits findings into gate-breaking errors and advisories.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifies one integrity check. The rule id appears on every
// finding so CI logs stay greppable.
type Rule string

const (
	// Structural rules over the table of contents.
	RuleTargetExists     Rule = "toc/target-exists"
	RuleEntryShape       Rule = "toc/entry-shape"
	RuleNumberUnique     Rule = "toc/number-unique"
	RuleNumberContiguous Rule = "toc/number-contiguous"
	RuleBlockOrder       Rule = "toc/block-order"
	RuleOrphanFile       Rule = "toc/orphan-file"

	// Content rules over individual lesson files.
	RuleLessonNonEmpty Rule = "lesson/non-empty"
	RuleLessonHeading  Rule = "lesson/has-heading"
	RuleNameConvention Rule = "lesson/name-convention"
	RuleTitleMismatch  Rule = "lesson/title-mismatch"
	RuleSections       Rule = "lesson/sections"
	RuleDraft          Rule = "lesson/draft"

	// Link integrity inside lesson bodies.
	RuleLinkTarget   Rule = "link/target"
	RuleLinkAnchor   Rule = "link/anchor"
	RuleLinkExternal Rule = "link/external"
)

// Finding is a single integrity problem located in the course.
type Finding struct {
	Rule     Rule     `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// CheckSummary aggregates a report for index lines and one-glance output.
type CheckSummary struct {
	Blocks   int `json:"blocks"`
	Lessons  int `json:"lessons"`
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// CheckReport is a persisted integrity check over one course workspace.
type CheckReport struct {
	ID string `json:"id,omitempty"`

	CourseTitle string `json:"course"`
	Root        string `json:"root"`
	Strict      bool   `json:"strict,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Findings []Finding    `json:"findings"`
	Summary  CheckSummary `json:"summary"`
}

// Failed reports whether the check should gate (non-zero exit).
// Strict mode promotes warnings.
func (r CheckReport) Failed() bool {
	if r.Summary.Errors > 0 {
		return true
	}
	return r.Strict && r.Summary.Warnings > 0
}

// ReportRef is a lightweight index entry for a persisted report.
type ReportRef struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Course    string    `json:"course"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	StartedAt time.Time `json:"started_at"`
}

// Count recomputes the summary's error/warning tallies from the findings.
func (s *CheckSummary) Count(findings []Finding) {
	s.Errors = 0
	s.Warnings = 0
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
	}
}
