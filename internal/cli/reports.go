package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func reportsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "reports",
		Short: "Inspect saved check reports",
	}

	c.AddCommand(reportsListCmd())
	return c
}

func reportsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.store.ListReports()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("no saved reports (run `lectern check --save`)")
				return nil
			}

			for _, r := range refs {
				fmt.Printf("%s  %s  %d error(s), %d warning(s)  %s\n",
					r.StartedAt.Format(time.RFC3339), r.ID, r.Errors, r.Warnings, r.File)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
