package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/avin/lectern/internal/infra/logger"
	"github.com/avin/lectern/internal/infra/webpreview"
	"github.com/avin/lectern/internal/usecase"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var workspace string
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Preview the rendered course over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = ws.cfg.Serve.Addr
			}

			cleanup, _ := logger.Setup(logger.Config{Root: ws.root})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}

			srv := webpreview.New(webpreview.Deps{
				Root:    ws.root,
				Config:  ws.cfg,
				Courses: ws.courses,
				Check:   usecase.NewCheckCourse(ws.courses, ws.courses),
				Logger:  logger.L(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("serving %s on http://%s (ctrl-c to stop)\n", ws.root, addr)

			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&addr, "addr", "", "Listen address (default: serve.addr from lectern.yaml)")
	return c
}
