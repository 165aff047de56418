package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const DefaultCatalogAPIURL = "https://beckdoan-production.up.railway.app/api/v1"

type Config struct {
	CatalogAPIURL     string        `envconfig:"CATALOG_API_URL"     default:"https://beckdoan-production.up.railway.app/api/v1"`
	CatalogAPIToken   string        `envconfig:"CATALOG_API_TOKEN"`
	CatalogAPITimeout time.Duration `envconfig:"CATALOG_API_TIMEOUT" default:"10s"`

	UIPort        string        `envconfig:"UI_PORT"        default:":8080"`
	UITitle       string        `envconfig:"UI_TITLE"       default:"Quản Lý Sản Phẩm"`
	AdminUser     string        `envconfig:"ADMIN_USER"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL"    default:"30m"`

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	MockAPIPort   string `envconfig:"MOCK_API_PORT"   default:":8081"`
	MockAPIPrefix string `envconfig:"MOCK_API_PREFIX" default:"/api/v1"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: CatalogAPI=%s, UIPort=%s, LogLevel=%s", cfg.CatalogAPIURL, cfg.UIPort, cfg.LogLevel)
	if cfg.AdminUser != "" {
		logger.Info("Configuration loaded: admin basic auth is enabled")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.CatalogAPIURL) == "" {
		return fmt.Errorf("CATALOG_API_URL cannot be empty")
	}
	if c.CatalogAPITimeout <= 0 {
		return fmt.Errorf("CATALOG_API_TIMEOUT must be positive, got %s", c.CatalogAPITimeout)
	}
	if (c.AdminUser == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USER and ADMIN_PASSWORD must be set together")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", level, logLevel.String())
	}
	logger.SetLevel(logLevel)

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
