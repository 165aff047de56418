package main

import (
	"os/signal"
	"syscall"

	"product_manager/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Manage products in the terminal",
	Long: `Open the interactive product manager in the terminal.

Keys:
  /      search          a      add a product
  e      edit selected   d      delete selected (asks first)
  r      reload          q      quit
  tab    next field      enter  submit the form
  esc    cancel`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationLogs: logsDiscard},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()
		return tui.Run(ctx, newManager(), cfg.UITitle)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
