package cli

import (
	"fmt"

	"github.com/avin/lectern/internal/infra/htmlrender"
	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var workspace string
	var out string

	c := &cobra.Command{
		Use:   "export",
		Short: "Render the course as a static HTML site",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewExportSite(ws.courses, htmlrender.NewBuilder())
			res, err := uc.Execute(cmd.Context(), ws.root, out, ws.cfg)
			if err != nil {
				return err
			}

			fmt.Printf("wrote %d page(s) to %s\n", res.Pages, res.OutDir)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: the configured site dir)")
	return c
}
