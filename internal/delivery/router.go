package delivery

import (
	"fmt"
	"net/http"

	"product_manager/config"
	"product_manager/internal/middleware"
	"product_manager/internal/proxy"
	"product_manager/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter assembles the web UI: the manager pages, /health, and the /api
// passthrough to the catalog API.
func NewRouter(cfg *config.Config, sessions *usecase.Sessions, logger *logrus.Logger) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register form validators: %w", err)
	}

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	catalogProxy, err := proxy.NewReverseProxy(cfg.CatalogAPIURL, "/api", cfg.CatalogAPIToken, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog API proxy: %w", err)
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger, "/health"))
	router.SetHTMLTemplate(tmpl)
	router.NoRoute(func(c *gin.Context) {
		ErrorResponse(c, http.StatusNotFound, "route not found")
	})

	handler := NewManagerHandler(sessions, cfg.UITitle, logger)
	router.GET("/health", handler.Health)

	protected := router.Group("/")
	if cfg.AdminUser != "" {
		protected.Use(middleware.AdminAuth(cfg.AdminUser, cfg.AdminPassword, logger))
	}
	handler.RegisterRoutes(protected)
	protected.Any("/api/*proxyPath", proxy.ProxyHandler(catalogProxy, logger))

	return router, nil
}
