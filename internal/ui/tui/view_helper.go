package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/avin/lectern/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// renderReport formats a check report for the check screen. maxLines caps
// the finding list so a noisy course does not push the summary off screen.
func renderReport(t Theme, report domain.CheckReport, maxLines int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Checked %d block(s), %d lesson(s), %d file(s)\n\n",
		report.Summary.Blocks, report.Summary.Lessons, report.Summary.Files))

	if len(report.Findings) == 0 {
		b.WriteString(t.Read.Render("OK: no findings"))
		b.WriteString("\n")
		return b.String()
	}

	if maxLines < 5 {
		maxLines = 5
	}
	shown := report.Findings
	hidden := 0
	if len(shown) > maxLines {
		hidden = len(shown) - maxLines
		shown = shown[:maxLines]
	}

	for _, f := range shown {
		mark := t.Warning.Render("!")
		if f.Severity == domain.SeverityError {
			mark = t.Error.Render("✗")
		}
		loc := f.Path
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.Path, f.Line)
		}
		b.WriteString(mark)
		b.WriteString(" [")
		b.WriteString(string(f.Rule))
		b.WriteString("] ")
		if loc != "" {
			b.WriteString(loc)
			b.WriteString(": ")
		}
		b.WriteString(clampString(f.Message, 90))
		b.WriteString("\n")
	}
	if hidden > 0 {
		b.WriteString(t.Help.Render(fmt.Sprintf("… and %d more\n", hidden)))
	}

	b.WriteString(fmt.Sprintf("\n%d error(s), %d warning(s)\n",
		report.Summary.Errors, report.Summary.Warnings))
	return b.String()
}

func renderStats(stats domain.CourseStats) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%d block(s), %d lesson(s)\n", stats.Blocks, stats.Lessons))
	b.WriteString(fmt.Sprintf("%d words, ~%s of reading\n\n", stats.Words, formatMinutes(stats.Minutes)))

	for _, blk := range stats.PerBlock {
		b.WriteString(fmt.Sprintf("%d. %-34s %2d lesson(s)  %6d words  ~%s\n",
			blk.Number, clampString(blk.Title, 34), blk.Lessons, blk.Words, formatMinutes(blk.Minutes)))
	}

	if stats.Longest != nil && stats.Shortest != nil {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Longest:  %02d %s (%d words)\n",
			stats.Longest.Number, stats.Longest.Title, stats.Longest.Words))
		b.WriteString(fmt.Sprintf("Shortest: %02d %s (%d words)\n",
			stats.Shortest.Number, stats.Shortest.Title, stats.Shortest.Words))
	}

	return b.String()
}

func formatMinutes(m int) string {
	if m >= 60 {
		return fmt.Sprintf("%dh%02dm", m/60, m%60)
	}
	return fmt.Sprintf("%dm", m)
}
