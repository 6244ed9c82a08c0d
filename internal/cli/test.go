package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shapematch/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // case filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <cases-dir>",
		Short: "Run expectation cases",
		Long: `Run every expectation case file in a directory.

Each case pairs an expectation with an observation and states whether the
comparison should pass or fail. When golden/<name>.golden exists next to a
case, its snapshot (outcome, failing paths and diff) must match too.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, etc.)

Examples:
  shapematch test ./cases
  shapematch test ./cases --filter "user-*"
  shapematch test ./cases --update
  shapematch test ./cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, casesDir string, cmd *cobra.Command) error {
	runID := opts.runID()
	out := opts.renderer(cmd, runID)
	if _, err := os.Stat(casesDir); err != nil {
		return out.Fail(ErrCodeGeneric, "cases directory not found", err)
	}

	log := opts.logger(cmd.ErrOrStderr()).With("run_id", runID)
	out.Progress("running cases in %s", casesDir)
	h := harness.New(
		harness.WithRegistry(opts.registry()),
		harness.WithLogger(log),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	suite, err := h.RunSuite(ctx, casesDir, harness.SuiteOptions{
		Filter: opts.Filter,
		Update: opts.Update,
	})
	if err != nil {
		return out.Fail(ErrCodeGeneric, "failed to run cases", err)
	}
	log.Info("suite finished", "passed", suite.Passed, "failed", suite.Failed, "total", suite.Total)

	return out.Suite(suite)
}
