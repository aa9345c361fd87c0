package cli

import (
	"fmt"
	"strings"

	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func newCmd() *cobra.Command {
	var workspace string
	var block int
	var noTOC bool

	c := &cobra.Command{
		Use:   "new <title>...",
		Short: "Scaffold the next lesson and append it to the table of contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewNewLesson(ws.courses, ws.courses)

			res, err := uc.Execute(cmd.Context(), usecase.NewLessonParams{
				Root:   ws.root,
				Config: ws.cfg,
				Title:  strings.Join(args, " "),
				Block:  block,
				NoTOC:  noTOC,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created %s\n", res.Path)
			if res.TOCUpdated {
				fmt.Printf("updated %s\n", ws.cfg.Paths.IndexFile)
				return nil
			}

			fmt.Println("add this entry to the index yourself:")
			fmt.Printf("   %d. [%s](%s)\n", res.Ref.Number, res.Ref.Title, res.Ref.Target)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().IntVarP(&block, "block", "b", 0, "TOC block number for the entry (default: the last block)")
	c.Flags().BoolVar(&noTOC, "no-toc", false, "Do not touch the index file")
	return c
}
