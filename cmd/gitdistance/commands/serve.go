package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kurobon/gitdistance/internal/server"
)

const (
	serveCmdUse   = "serve"
	serveCmdShort = "Serve distance and describe queries over HTTP"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand(global *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   serveCmdUse,
		Short: serveCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := global.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(e.repo, server.Options{
				MaxDepth: e.cfg.Distance.MaxDepth,
				Strategy: e.cfg.StrategyValue(),
			}, e.logger)

			return serve(ctx, &http.Server{
				Addr:              e.cfg.Server.Addr,
				Handler:           srv,
				ReadHeaderTimeout: readHeaderTimeout,
			}, e)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default \":8080\")")
	addWalkFlags(cmd.Flags())

	return cmd
}

func serve(ctx context.Context, httpSrv *http.Server, e *env) error {
	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server listening", "addr", httpSrv.Addr, "repo", e.cfg.Repository.Path)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
