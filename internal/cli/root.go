// Package cli implements the onesky command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"onesky/pkg/onesky"
)

type app struct {
	cfgFile string
	cfg     *FileConfig
	logger  zerolog.Logger
	client  *onesky.Client
	out     io.Writer
}

// NewRootCommand builds the command tree. Output goes to out; logs go to stderr.
func NewRootCommand(version string, out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "onesky",
		Short: "Manage OneSky localization projects from the command line",
		Long: `onesky talks to the OneSky Platform API. Credentials come from a config
file (./config.yaml or ~/.onesky/config.yaml) or from the ONESKY_API_KEY and
ONESKY_API_SECRET environment variables.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.initialize,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.client != nil {
				return a.client.Close()
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(
		a.localesCommand(),
		a.projectTypesCommand(),
		a.projectGroupsCommand(),
		a.projectsCommand(),
		a.filesCommand(),
		a.importTasksCommand(),
		a.translationsCommand(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initialize(cmd *cobra.Command, args []string) error {
	var err error
	a.cfg, err = LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.logger = setupLogger(a.cfg.Logging)

	config, err := a.cfg.ClientConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.client, err = onesky.New(config, onesky.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("failed to create OneSky client: %w", err)
	}
	a.logger.Debug().Str("base_url", config.BaseURL).Msg("client ready")
	return nil
}

func setupLogger(cfg LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
