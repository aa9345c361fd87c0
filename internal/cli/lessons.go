package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/avin/lectern/internal/domain"
)

func lessonsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "lessons",
		Short: "Browse the lessons of a course workspace",
	}

	c.AddCommand(lessonsListCmd())
	c.AddCommand(lessonsShowCmd())
	return c
}

func lessonsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons as the table of contents orders them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			course, err := ws.courses.LoadCourse(cmd.Context(), ws.root)
			if err != nil {
				return err
			}

			referenced := map[string]bool{}
			for _, b := range course.Blocks {
				fmt.Printf("%d. %s\n", b.Number, b.Title)
				for _, l := range b.Lessons {
					referenced[domain.StripFragment(l.Target)] = true
					line := fmt.Sprintf("   %02d %s", l.Number, l.Title)
					if f, ok := course.FileByPath(domain.StripFragment(l.Target)); ok {
						line += fmt.Sprintf("  (%d words)", f.Words)
					} else {
						line += "  (missing)"
					}
					fmt.Println(line)
				}
			}

			var orphans []domain.LessonFile
			for _, f := range course.Files {
				if !referenced[f.Path] {
					orphans = append(orphans, f)
				}
			}
			if len(orphans) > 0 {
				fmt.Println("\nNot in the table of contents:")
				for _, f := range orphans {
					fmt.Printf("   %s\n", f.Path)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}

func lessonsShowCmd() *cobra.Command {
	var workspace string
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <lesson>",
		Short: "Render a lesson in the terminal (by number, name, or path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			relPath, err := resolveLessonPath(cmd.Context(), ws, args[0])
			if err != nil {
				return err
			}

			src, err := ws.courses.ReadSource(ws.root, relPath)
			if err != nil {
				return err
			}

			if raw {
				_, err = os.Stdout.Write(src)
				return err
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}

			out, err := r.Render(string(src))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source without rendering")
	cmd.Flags().IntVar(&width, "width", 100, "Wrap rendered output at this column")
	return cmd
}
