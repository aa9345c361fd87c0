package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/linkprobe"
	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var workspace string
	var strict bool
	var external bool
	var save bool
	var format string

	c := &cobra.Command{
		Use:   "check",
		Short: "Validate course integrity (TOC, numbering, links, lesson content)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			cfg := ws.cfg
			if external {
				cfg.Check.ExternalLinks = true
			}

			var opts []usecase.CheckOption
			if cfg.Check.ExternalLinks {
				opts = append(opts, usecase.WithLinkProber(linkprobe.New(linkprobe.DefaultConfig())))
			}

			uc := usecase.NewCheckCourse(ws.courses, ws.courses, opts...)

			report, err := uc.Execute(cmd.Context(), usecase.CheckParams{
				Root:   ws.root,
				Config: cfg,
				Strict: strict,
			})
			if err != nil {
				return err
			}

			if save {
				id, saveErr := ws.store.SaveReport(report)
				if saveErr != nil {
					return saveErr
				}
				report.ID = id
			}

			if err := printReport(os.Stdout, report, format); err != nil {
				return err
			}

			if report.Failed() {
				return fmt.Errorf("check failed (%d error(s), %d warning(s))",
					report.Summary.Errors, report.Summary.Warnings)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors for the exit code")
	c.Flags().BoolVar(&external, "external", false, "Probe external http(s) links")
	c.Flags().BoolVar(&save, "save", false, "Persist the report under reports/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	return c
}

func printReport(w io.Writer, report domain.CheckReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "pretty", "":
		printPrettyReport(w, report)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyReport(w io.Writer, report domain.CheckReport) {
	fmt.Fprintf(w, "Course:   %s\n", report.CourseTitle)
	fmt.Fprintf(w, "Root:     %s\n", report.Root)
	fmt.Fprintf(w, "Scanned:  %d block(s), %d lesson(s), %d file(s)\n",
		report.Summary.Blocks, report.Summary.Lessons, report.Summary.Files)
	if report.ID != "" {
		fmt.Fprintf(w, "Report:   %s\n", report.ID)
	}
	fmt.Fprintln(w)

	if len(report.Findings) == 0 {
		fmt.Fprintln(w, "OK: no findings")
		return
	}

	for _, f := range report.Findings {
		mark := "!"
		if f.Severity == domain.SeverityError {
			mark = "✗"
		}
		loc := f.Path
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.Path, f.Line)
		}
		if loc == "" {
			fmt.Fprintf(w, "%s [%s] %s\n", mark, f.Rule, f.Message)
			continue
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", mark, f.Rule, loc, f.Message)
	}

	fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", report.Summary.Errors, report.Summary.Warnings)
}
