package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"commentboard/app/routes"
	"commentboard/app/services"

	"github.com/spf13/cobra"
)

func (c *cli) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board's HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runServer(ctx)
		},
	}
	cmd.Flags().Int("port", 3001, "listen port")
	cmd.Flags().String("host", "", "listen host")
	_ = c.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = c.v.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	return cmd
}

// runServer serves the board until ctx is cancelled.
func (c *cli) runServer(ctx context.Context) error {
	st, err := openStore(c.cfg.Store, c.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	router := routes.SetupRoutes(services.NewCommentService(st.repo), c.logger)
	srv := &http.Server{
		Addr:              c.cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	c.logger.Info("starting comment board", "addr", ln.Addr().String(), "store", c.cfg.Store.Driver)
	return serve(ctx, srv, ln, c.cfg.Server.ShutdownTimeout, c.logger)
}

// serve runs srv on ln and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
