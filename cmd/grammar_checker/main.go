package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-grammar-checker/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the state shared by all subcommands
type cli struct {
	configPath string
	settings   *config.Settings
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "grammar_checker",
		Short: "German grammar agreement checker",
		Long: `grammar_checker finds agreement errors in German text: determiner,
adjective and noun agreement inside noun phrases, and subject verb agreement.
It runs as an HTTP service or checks text from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.settings = settings
			slog.SetDefault(newLogger(settings.Logging, cmd.ErrOrStderr()))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(
		c.newServeCommand(),
		c.newCheckCommand(),
		c.newRulesCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

// newLogger builds the process logger from the logging settings
func newLogger(settings config.LoggingSettings, w io.Writer) *slog.Logger {
	var level slog.Level
	switch settings.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if settings.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
