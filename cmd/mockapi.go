package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"product_manager/internal/mockapi"
	"product_manager/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Serve a local stand-in for the catalog API",
	Long: `Serve the catalog API endpoints locally for development.

Products are kept in memory unless DATABASE_URL is set, in which case they
are stored in postgres.

Examples:
  product_manager mockapi
  product_manager mockapi --port :8081
  CATALOG_API_URL=http://localhost:8081/api/v1 product_manager serve`,
	Args: cobra.NoArgs,
	RunE: runMockAPI,
}

var mockapiPort string

func init() {
	mockapiCmd.Flags().StringVar(&mockapiPort, "port", "", "listen address (overrides MOCK_API_PORT)")
	rootCmd.AddCommand(mockapiCmd)
}

func runMockAPI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := mockapi.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		store, err = mockapi.NewPostgresStore(ctx, conn, logger)
		if err != nil {
			return err
		}
		logger.Info("Stand-in catalog API is using postgres")
	}

	addr := cfg.MockAPIPort
	if mockapiPort != "" {
		addr = mockapiPort
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mockapi.NewRouter(store, cfg.MockAPIPrefix, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Stand-in catalog API listening on %s%s", addr, cfg.MockAPIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
