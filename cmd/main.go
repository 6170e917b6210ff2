// Package main is the entry point for the dropbox-team-relay service.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sdelicata/dropbox-team-relay/pkg/config"
	"github.com/sdelicata/dropbox-team-relay/pkg/dropbox"
)

var (
	envFile  string
	logLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dropbox-team-relay",
		Short:        "Relay Dropbox Business team API calls over HTTP",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: trace, debug, info, warn, error")

	serve := newServeCmd()
	root.AddCommand(serve, newAuthorizeURLCmd())

	// Running the binary without a subcommand starts the server.
	root.RunE = serve.RunE

	return root
}

func newAuthorizeURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the Dropbox OAuth2 authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			client := dropbox.NewClient(cfg.Dropbox, zerolog.Nop())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.AuthorizationURL())
			return err
		},
	}
}

// newLogger builds the process logger from config, letting --log-level win.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	lvl := cfg.LogLevel
	if logLevel != "" {
		lvl = logLevel
	}
	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}
