package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var workspace string
	var format string
	var perLesson bool

	c := &cobra.Command{
		Use:   "stats",
		Short: "Word counts and reading time for the course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewCourseStats(ws.courses)
			stats, err := uc.Execute(cmd.Context(), ws.root, ws.cfg)
			if err != nil {
				return err
			}

			return printStats(os.Stdout, stats, format, perLesson)
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&perLesson, "lessons", false, "Include the per-lesson breakdown")
	return c
}

func printStats(w io.Writer, stats domain.CourseStats, format string, perLesson bool) error {
	switch format {
	case "json":
		if !perLesson {
			stats.PerLesson = nil
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "pretty", "":
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}

	fmt.Fprintf(w, "Course:   %s\n", stats.CourseTitle)
	fmt.Fprintf(w, "Blocks:   %d\n", stats.Blocks)
	fmt.Fprintf(w, "Lessons:  %d\n", stats.Lessons)
	fmt.Fprintf(w, "Words:    %d\n", stats.Words)
	fmt.Fprintf(w, "Reading:  ~%s\n", formatMinutes(stats.Minutes))
	fmt.Fprintln(w)

	for _, b := range stats.PerBlock {
		fmt.Fprintf(w, "%d. %s: %d lesson(s), %d words, ~%s\n",
			b.Number, b.Title, b.Lessons, b.Words, formatMinutes(b.Minutes))
	}

	if stats.Longest != nil && stats.Shortest != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Longest:  %02d %s (%d words)\n",
			stats.Longest.Number, stats.Longest.Title, stats.Longest.Words)
		fmt.Fprintf(w, "Shortest: %02d %s (%d words)\n",
			stats.Shortest.Number, stats.Shortest.Title, stats.Shortest.Words)
	}

	if perLesson {
		fmt.Fprintln(w)
		for _, l := range stats.PerLesson {
			fmt.Fprintf(w, "  %02d %-40s %6d words  ~%s\n",
				l.Number, l.Title, l.Words, formatMinutes(l.Minutes))
		}
	}

	return nil
}

func formatMinutes(m int) string {
	if m >= 60 {
		return fmt.Sprintf("%dh%02dm", m/60, m%60)
	}
	return fmt.Sprintf("%dm", m)
}
