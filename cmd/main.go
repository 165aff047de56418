// Command product_manager manages the product catalog: a web UI, a terminal
// UI and one-shot commands over the same catalog API.
package main

import (
	"fmt"
	"io"
	"os"

	"product_manager/config"
	"product_manager/internal/cli"
	"product_manager/internal/clients"
	"product_manager/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	annotationLogs = "logs"
	logsQuiet      = "quiet"
	logsDiscard    = "discard"
)

var (
	flagAPIURL   string
	flagLogLevel string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "product_manager",
	Short: "product_manager - manage the product catalog",
	Long: `product_manager lists, searches, adds, edits and deletes products in a
remote catalog API.

Use "serve" for the web UI, "tui" for the terminal UI, or one of the
one-shot commands. Configuration comes from the environment (or a .env
file); see CATALOG_API_URL, UI_PORT and LOG_LEVEL.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: bootstrap,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("product_manager version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "catalog API base URL (overrides CATALOG_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorLine(err))
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger before any command
// runs. One-shot commands log warnings only unless --log-level is given, and
// the TUI does not log at all since it owns the terminal.
func bootstrap(cmd *cobra.Command, _ []string) error {
	var out io.Writer = cmd.ErrOrStderr()
	if cmd.Annotations[annotationLogs] == logsDiscard {
		out = io.Discard
	}

	loaded, err := config.LoadConfig(config.NewLogger("warn", "text", out))
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		loaded.CatalogAPIURL = flagAPIURL
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level := loaded.LogLevel
	if cmd.Annotations[annotationLogs] == logsQuiet {
		level = "warn"
	}
	if flagLogLevel != "" {
		level = flagLogLevel
	}

	cfg = loaded
	logger = config.NewLogger(level, loaded.LogFormat, out)
	return nil
}

func newCatalogClient() clients.CatalogClient {
	var opts []clients.Option
	if cfg.CatalogAPIToken != "" {
		opts = append(opts, clients.WithToken(cfg.CatalogAPIToken))
	}
	return clients.NewCatalogHTTPClient(cfg.CatalogAPIURL, cfg.CatalogAPITimeout, logger, opts...)
}

func newManager() *usecase.Manager {
	return usecase.NewManager(newCatalogClient(), logger)
}
