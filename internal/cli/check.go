package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/shapematch/internal/loader"
	"github.com/roach88/shapematch/internal/match"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Subset   bool // ignore observed-only mapping keys
	MaxDepth int  // comparison depth bound (0 = default)
}

// CheckResult is the data payload of a check response.
type CheckResult struct {
	Expected   string   `json:"expected"`
	Observed   string   `json:"observed"`
	Subset     bool     `json:"subset"`
	Matched    bool     `json:"matched"`
	FailedKeys []string `json:"failed_keys"`
	Diff       string   `json:"diff,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <expected> <observed>",
		Short: "Compare an observation against an expectation",
		Long: `Compare an observed document against an expectation document.

The expectation is tagged YAML (e.g. !expect, !match.greater 18). The
observation may be JSON, YAML or CUE, chosen by file extension.

Exit codes:
  0 - Observation matches
  1 - Observation does not match
  2 - Command error (missing files, malformed documents, etc.)

Examples:
  shapematch check expect.yaml response.json
  shapematch check expect.yaml response.json --subset
  shapematch check expect.yaml config.cue --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Subset, "subset", false, "ignore observed keys the expectation does not mention")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum comparison depth (0 uses the default)")

	return cmd
}

func runCheck(opts *CheckOptions, expectedPath, observedPath string, cmd *cobra.Command) error {
	runID := opts.runID()
	log := opts.logger(cmd.ErrOrStderr()).With("run_id", runID)
	out := opts.renderer(cmd, runID)

	expected, err := loader.LoadExpected(opts.registry(), expectedPath)
	if err != nil {
		return out.Fail(ErrCodeParse, "failed to load expectation", err)
	}
	log.Debug("expectation loaded", "path", expectedPath, "operation", expected.Operation())

	observed, err := loader.LoadObserved(observedPath)
	if err != nil {
		return out.Fail(ErrCodeParse, "failed to load observation", err)
	}
	log.Debug("observation loaded", "path", observedPath, "shape", match.Describe(observed))

	res := match.Evaluator{MaxDepth: opts.MaxDepth}.Compare(expected, observed, opts.Subset)
	result := CheckResult{
		Expected:   expectedPath,
		Observed:   observedPath,
		Subset:     opts.Subset,
		Matched:    res.Success,
		FailedKeys: res.FailedKeys(),
		Diff:       res.DiffInfo(),
	}
	log.Info("comparison finished", "matched", result.Matched, "failed_keys", result.FailedKeys)

	return out.Check(result, res)
}
