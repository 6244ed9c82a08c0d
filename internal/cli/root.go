package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/shapematch/internal/registry"
)

// RootOptions holds global flags and shared dependencies for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Registry resolves expectation tags. If nil, registry.Default() is used.
	Registry *registry.Registry

	// RunIDs generates the run ID attached to JSON responses. If nil,
	// defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shapematch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shapematch",
		Short: "shapematch - structural comparison of observed data",
		Long: `Compare observed JSON, YAML or CUE documents against declarative
expectations written as tagged YAML, and run suites of expectation cases.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTagsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) registry() *registry.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return registry.Default()
}

func (o *RootOptions) runID() string {
	if o.RunIDs == nil {
		return UUIDv7Generator{}.Generate()
	}
	return o.RunIDs.Generate()
}

// logger writes structured diagnostics to w: warnings only by default,
// everything down to debug under --verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) renderer(cmd *cobra.Command, runID string) *Renderer {
	return &Renderer{
		JSON:    o.Format == "json",
		Out:     cmd.OutOrStdout(),
		Diag:    cmd.ErrOrStderr(),
		Verbose: o.Verbose,
		RunID:   runID,
	}
}

// Execute runs the CLI with args and returns the process exit code. Errors
// not already rendered by a command are printed to stderr. Errors that are
// not ExitErrors, such as usage errors, exit with ExitCommandError.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || !exitErr.Reported {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
