package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func tocCmd() *cobra.Command {
	var workspace string
	var write bool
	var format string

	c := &cobra.Command{
		Use:   "toc",
		Short: "Print the table of contents, or regenerate it from disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			if write {
				uc := usecase.NewWriteTOC(ws.courses, ws.courses)
				res, err := uc.Execute(cmd.Context(), ws.root, ws.cfg)
				if err != nil {
					return err
				}

				for _, p := range res.Added {
					fmt.Printf("added   %s\n", p)
				}
				for _, p := range res.Removed {
					fmt.Printf("removed %s\n", p)
				}
				if !res.Written {
					fmt.Println("nothing to write")
					return nil
				}
				fmt.Printf("wrote %s (%d block(s))\n", ws.cfg.Paths.IndexFile, len(res.Blocks))
				return nil
			}

			course, err := ws.courses.LoadCourse(cmd.Context(), ws.root)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(course.Blocks)
			case "pretty", "":
				for _, b := range course.Blocks {
					fmt.Printf("%d. %s\n", b.Number, b.Title)
					for _, l := range b.Lessons {
						fmt.Printf("   %02d [%s](%s)\n", l.Number, l.Title, l.Target)
					}
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
			}
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().BoolVar(&write, "write", false, "Rewrite the index TOC from the lesson files on disk")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}
