package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SuiteOptions controls a directory run.
type SuiteOptions struct {
	// Filter is a glob matched against case file names without extension.
	Filter string

	// Update rewrites golden files instead of comparing against them.
	Update bool
}

// SuiteResult summarizes a directory run.
type SuiteResult struct {
	Cases  []CaseOutcome `json:"cases"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// CaseOutcome is the result of one case file in a suite.
type CaseOutcome struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Pass       bool     `json:"pass"`
	Matched    bool     `json:"matched"`
	FailedKeys []string `json:"failed_keys"`
	Golden     string   `json:"golden,omitempty"` // "match", "mismatch", "updated" or "" when absent
	Errors     []string `json:"errors,omitempty"`
}

// Golden states reported in CaseOutcome.Golden.
const (
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// RunSuite runs every case file under dir. Cases that fail to load or run
// are reported as failed outcomes rather than aborting the suite; the
// returned error covers directory and cancellation problems only.
func (h *Harness) RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cases directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	paths, err := FindCases(dir, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find cases: %w", err)
	}

	suite := &SuiteResult{Cases: make([]CaseOutcome, 0, len(paths))}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return suite, err
		}

		outcome := h.runFile(path, opts.Update)
		suite.Cases = append(suite.Cases, outcome)
		suite.Total++
		if outcome.Pass {
			suite.Passed++
		} else {
			suite.Failed++
		}
	}
	return suite, nil
}

func (h *Harness) runFile(path string, update bool) CaseOutcome {
	outcome := CaseOutcome{
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:       path,
		FailedKeys: []string{},
	}
	fail := func(msg string) CaseOutcome {
		outcome.Pass = false
		outcome.Errors = append(outcome.Errors, msg)
		return outcome
	}

	c, err := LoadCase(path)
	if err != nil {
		return fail(fmt.Sprintf("failed to load case: %v", err))
	}
	outcome.Name = c.Name

	result, err := h.Run(c)
	if err != nil {
		return fail(fmt.Sprintf("execution failed: %v", err))
	}
	outcome.Pass = result.Pass
	outcome.Matched = result.Matched
	outcome.FailedKeys = result.FailedKeys
	outcome.Errors = append(outcome.Errors, result.Errors...)

	same, err := CheckGolden(GoldenPath(path, c.Name), Snapshot(result), update)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fail(fmt.Sprintf("golden comparison failed: %v", err))
	case update:
		outcome.Golden = GoldenUpdated
	case same:
		outcome.Golden = GoldenMatch
	default:
		outcome.Golden = GoldenMismatch
		return fail("snapshot does not match golden file (run with --update to regenerate)")
	}
	return outcome
}
