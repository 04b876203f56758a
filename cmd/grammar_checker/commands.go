package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-grammar-checker/api"
	"github.com/gcbaptista/go-grammar-checker/internal/engine"
	"github.com/gcbaptista/go-grammar-checker/model"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				c.settings.Server.Port = port
			}
			return c.runServe(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func (c *cli) runServe(ctx context.Context) error {
	if c.settings.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	eng, err := engine.NewFromSettings(c.settings)
	if err != nil {
		return err
	}
	defer eng.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.settings.Server.Port),
		Handler:           api.NewRouter(c.settings.Server, eng, eng.Analytics()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (c *cli) newCheckCommand() *cobra.Command {
	var (
		asJSON bool
		rules  []string
	)

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Check a file or standard input",
		Long:  `Checks the text in file, or standard input when file is "-" or omitted, and prints the matches.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			eng, err := engine.NewFromSettings(c.settings)
			if err != nil {
				return err
			}
			defer eng.Stop()

			result, err := eng.Check(cmd.Context(), text, rules)
			if err != nil {
				return err
			}
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			return printMatches(cmd.OutOrStdout(), text, result)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringSliceVarP(&rules, "rules", "r", nil, "only run these rule IDs")
	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// printMatches writes one block per match with the covered text and suggestions
func printMatches(w io.Writer, text string, result *model.CheckResult) error {
	if len(result.Matches) == 0 {
		_, err := fmt.Fprintln(w, "No problems found.")
		return err
	}

	runes := []rune(text)
	for i, match := range result.Matches {
		end := match.Offset + match.Length
		if end > len(runes) {
			end = len(runes)
		}
		covered := string(runes[match.Offset:end])

		if _, err := fmt.Fprintf(w, "%d. %s [%d:%d] %q\n   %s\n", i+1, match.RuleID, match.Offset, end, covered, match.Message); err != nil {
			return err
		}
		if len(match.Replacements) > 0 {
			if _, err := fmt.Fprintf(w, "   Suggestions: %s\n", strings.Join(match.Replacements, ", ")); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d problem(s) found in %d sentence(s).\n", len(result.Matches), result.Sentences)
	return err
}

func (c *cli) newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := engine.NewFromSettings(c.settings)
			if err != nil {
				return err
			}
			defer eng.Stop()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tENABLED\tCATEGORY\tDESCRIPTION")
			for _, rule := range eng.ListRules() {
				fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", rule.ID, rule.Enabled, rule.Category, rule.Description)
			}
			return tw.Flush()
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config is needed to print the version
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-grammar-checker %s\n", version)
		},
	}
}
