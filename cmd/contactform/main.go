// cmd/contactform/main.go
//
// Contact form – command-line entry point.
//
// Subcommands
// -----------
//
//   serve  HTTP server (page, live channel, /metrics).
//   fill   Fill the same form in the terminal.
//
// Both load configuration first (defaults → .env → YAML → CONTACTFORM_ env),
// then start the daily rotating logger under <root>/logs.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/config"
	"github.com/yanizio/contactform/internal/logger"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
}

func main() {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "contactform",
		Short: "Contact form with live validation",
		Long: `contactform serves a validated contact form over HTTP and can fill
the same form from a terminal.  Accepted submissions are logged; nothing is
stored or sent over the network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "",
		"path to contactform.yaml (default: <root>/conf/contactform.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info",
		"log level: debug, info, warn, or error")

	rootCmd.AddCommand(
		serveCmd(flags),
		fillCmd(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "contactform: %s\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config and starts the logger.  tee controls console
// output; fill turns it off so log lines do not interleave with prompts.
func bootstrap(flags *rootFlags, tee bool) (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Paths.Root, logger.Options{Tee: tee, Level: flags.logLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("start logger: %w", err)
	}
	return cfg, log, nil
}
