package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/internal/server"
	"github.com/matzehuels/roomeditor/pkg/layout"
)

// shutdownTimeout bounds how long in-flight requests may finish on exit.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		from string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one editor session over HTTP",
		Long: `Serve one editor session over a JSON HTTP API.

The session starts from --layout, the auto-save slot, or an empty room. On
shutdown (Ctrl+C) the session is auto-saved when storage.auto_save is on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.conf().Server.Addr
			}
			return c.runServe(cmd.Context(), addr, from)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().StringVar(&from, "layout", "", "layout id to start from")
	_ = cmd.RegisterFlagCompletionFunc("layout", c.completeLayoutIDs)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, layoutID string) error {
	logger := commandLogger(ctx, "serve")
	cat, err := c.catalog()
	if err != nil {
		return err
	}
	mgr, err := c.openLayouts(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()

	ed := c.newEditor()
	defer ed.Close()
	if err := c.openSession(ctx, mgr, ed, layoutID, false); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(ed, cat, server.WithLayouts(mgr), server.WithLogger(logger)),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("listening", "addr", addr, "storage", mgr.Store().Name())
	printNextStep("Try", "curl http://"+addr+"/state")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}

	ed.Flush()
	if c.conf().Storage.AutoSave {
		if err := mgr.AutoSave(shutdownCtx, ed.Snapshot()); err != nil {
			logger.Warn("auto-save failed", "error", err)
		} else {
			logger.Info("auto-saved session", "id", layout.AutoSaveID, "items", ed.Len())
		}
	}
	return nil
}
