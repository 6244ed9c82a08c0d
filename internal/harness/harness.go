package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/shapematch/internal/loader"
	"github.com/roach88/shapematch/internal/match"
	"github.com/roach88/shapematch/internal/registry"
)

// Harness runs cases against a registry.
type Harness struct {
	reg    *registry.Registry
	eval   match.Evaluator
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry resolves expectation tags through reg instead of
// registry.Default().
func WithRegistry(reg *registry.Registry) Option {
	return func(h *Harness) { h.reg = reg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithMaxDepth bounds comparison depth.
func WithMaxDepth(depth int) Option {
	return func(h *Harness) { h.eval.MaxDepth = depth }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		reg:    registry.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes c with a default harness.
func Run(c *Case) (*Result, error) {
	return New().Run(c)
}

// Run builds the expectation, loads the observation and compares them.
//
// An error is returned only when the case cannot be executed, e.g. when the
// expectation is malformed or the observation file is unreadable. A
// comparison that disagrees with Want is reported through Result.Pass.
func (h *Harness) Run(c *Case) (*Result, error) {
	expected, err := h.reg.Build(&c.Expected)
	if err != nil {
		return nil, fmt.Errorf("failed to build expectation: %w", err)
	}

	observed, err := h.observed(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load observation: %w", err)
	}

	comparison := h.eval.Compare(expected, observed, c.Subset)

	result := NewResult(c.Name)
	result.Comparison = comparison
	result.Matched = comparison.Success
	result.FailedKeys = comparison.FailedKeys()
	result.Diff = comparison.DiffInfo()

	switch {
	case c.Want == WantFail && comparison.Success:
		result.AddError("expected the comparison to fail, but it matched")
	case c.Want != WantFail && !comparison.Success:
		result.AddError("comparison failed:\n" + result.Diff)
	}
	if len(c.FailedKeys) > 0 {
		want := slices.Clone(c.FailedKeys)
		slices.Sort(want)
		if !slices.Equal(want, result.FailedKeys) {
			result.AddError(fmt.Sprintf("failed keys: want [%s], got [%s]",
				strings.Join(want, " "), strings.Join(result.FailedKeys, " ")))
		}
	}

	h.logger.Info("case evaluated",
		"case", c.Name,
		"subset", c.Subset,
		"matched", result.Matched,
		"pass", result.Pass,
		"failed_keys", result.FailedKeys,
	)
	return result, nil
}

func (h *Harness) observed(c *Case) (any, error) {
	if c.ObservedFile != "" {
		return loader.LoadObserved(c.ObservedFile)
	}
	var v any
	if err := c.Observed.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
