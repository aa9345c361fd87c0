package cli

import (
	"fmt"

	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var workspace string

	c := &cobra.Command{
		Use:   "search <term>",
		Short: "Find a term across lesson bodies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewSearchCourse(ws.courses, ws.courses)
			hits, err := uc.Execute(cmd.Context(), ws.root, args[0])
			if err != nil {
				return err
			}

			if len(hits) == 0 {
				fmt.Printf("no matches for %q\n", args[0])
				return nil
			}

			for _, h := range hits {
				fmt.Printf("%s:%d: %s\n", h.Path, h.Line, h.Snippet)
			}
			fmt.Printf("\n%d match(es)\n", len(hits))
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return c
}
