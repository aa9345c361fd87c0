package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avin/lectern/internal/infra/fsworkspace"
	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var path string
	var title string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a course workspace (lectern.yaml, index, first lesson)",
		RunE: func(_ *cobra.Command, _ []string) error {
			root := path
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			abs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", root, err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(abs, title, force); err != nil {
				return err
			}

			fmt.Printf("initialized course workspace at %s\n", abs)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "Directory to initialize (default: current directory)")
	c.Flags().StringVar(&title, "title", "", "Course title for lectern.yaml and the index")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing template files")
	return c
}
