package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"product_manager/internal/delivery"
	"product_manager/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI",
	Long: `Serve the product manager web UI.

Each browser gets its own view state, kept for SESSION_TTL after its last
request. Requests under /api are passed through to the catalog API.

Examples:
  product_manager serve
  product_manager serve --port :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort string

const shutdownTimeout = 10 * time.Second

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen address (overrides UI_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.UIPort
	if servePort != "" {
		addr = servePort
	}

	gin.SetMode(gin.ReleaseMode)
	sessions := usecase.NewSessions(newCatalogClient(), cfg.SessionTTL, logger)
	router, err := delivery.NewRouter(cfg, sessions, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serveUntilDone(ctx, srv, sessions)
}

// serveUntilDone runs srv and the session janitor until ctx is cancelled,
// then shuts the server down gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server, sessions *usecase.Sessions) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("Product manager UI listening on %s (catalog API: %s)", srv.Addr, cfg.CatalogAPIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Failed to start web UI: %v", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		sessions.RunJanitor(gctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down web UI...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
