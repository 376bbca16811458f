// Package cli implements incidentctl, an operator tool that runs the analysis
// pipeline and manages stored incidents directly against the configured database.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/incident-lens/internal/bootstrap"
	"github.com/bryanwahyu/incident-lens/internal/config"
	domain "github.com/bryanwahyu/incident-lens/internal/domain/incidents"
	"github.com/bryanwahyu/incident-lens/internal/logger"
)

// Options are the persistent flags shared by every subcommand.
type Options struct {
	ConfigPath   string
	OutputFormat string
	Verbose      bool

	// open builds the app; replaced in tests
	open func(ctx context.Context, cfg *config.Config) (*bootstrap.App, error)
}

func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", envOr("CONFIG_PATH", "config.yaml"), "Path to config file")
	cmd.PersistentFlags().StringVarP(&o.OutputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "Verbose logging")
}

func (o *Options) app(ctx context.Context) (*bootstrap.App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	if err := logger.Initialize(logger.Options{Level: level, Format: "text"}); err != nil {
		return nil, err
	}
	logger.SetOutput(os.Stderr)

	if o.open != nil {
		return o.open(ctx, cfg)
	}
	return bootstrap.New(ctx, cfg, nil)
}

func NewAnalyzeCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [FILE|-]",
		Short: "Analyze a deployment log and store the incident",
		Long: `Send a raw deployment log to the completion provider, parse the reply
and store the log and the resulting incident.

Examples:
  # Analyze a saved build log
  incidentctl analyze build.log

  # Pipe from another command
  vercel logs my-app | incidentctl analyze -

  # Machine-readable output
  incidentctl analyze build.log -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := o.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			s := newSpinner(cmd.ErrOrStderr(), o.OutputFormat, " Analyzing with AI...")
			s.Start()
			inc, err := app.Service.Analyze(ctx, text)
			s.Stop()
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			return Display(cmd.OutOrStdout(), inc, o.OutputFormat)
		},
	}
}

func NewListCmd(o *Options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored incidents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			list, err := app.Service.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return Display(cmd.OutOrStdout(), list, o.OutputFormat)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum incidents to show (0 for all)")
	return cmd
}

func NewShowCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one incident with its raw log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			inc, l, err := app.Service.Get(cmd.Context(), domain.IncidentID(args[0]))
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("incident %s not found", args[0])
			}
			if err != nil {
				return err
			}
			return Display(cmd.OutOrStdout(), incidentWithLog{Incident: inc, Log: l}, o.OutputFormat)
		},
	}
}

func NewDeleteCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an incident (its raw log is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := o.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Service.Delete(cmd.Context(), domain.IncidentID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted incident %s\n", color.GreenString("✓"), args[0])
			return nil
		},
	}
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type stopper interface {
	Start()
	Stop()
}

type noSpinner struct{}

func (noSpinner) Start() {}
func (noSpinner) Stop()  {}

// newSpinner only animates for human output so json/yaml stay clean.
func newSpinner(w io.Writer, format, suffix string) stopper {
	if format != "human" && format != "" {
		return noSpinner{}
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = suffix
	return s
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
