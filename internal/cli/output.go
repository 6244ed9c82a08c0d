package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roach88/shapematch/internal/harness"
	"github.com/roach88/shapematch/internal/match"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Observation matched, or every case passed
	ExitFailure      = 1 // Mismatch or failed cases
	ExitCommandError = 2 // Missing files, malformed documents, bad usage
)

// Error codes reported in ResponseError.Code.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeNotFound   = "E005" // Path not found
	ErrCodeParse      = "E010" // Malformed expectation or observation
	ErrCodeMismatch   = "E020" // Observation does not match the expectation
	ErrCodeTestFailed = "E021" // One or more cases failed
)

// ExitError ends a command with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error // Underlying error (optional)

	// Reported is set when the command already rendered the failure on
	// its output, so Execute does not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func reported(e *ExitError) *ExitError {
	e.Reported = true
	return e
}

// ExitCode maps the error a command returned to a process exit code.
// Errors that are not ExitErrors, such as cobra usage errors, are command
// errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// Response is the envelope every command writes under --format json.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
	RunID  string         `json:"run_id,omitempty"` // correlates output with log lines
}

// ResponseError describes why a command did not succeed.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"` // failing paths for mismatches
}

// Renderer writes command results as human-readable text or as a JSON
// Response.
type Renderer struct {
	JSON    bool
	Out     io.Writer
	Diag    io.Writer // progress lines under --verbose; keeps Out parseable
	Verbose bool
	RunID   string
}

func (r *Renderer) envelope(data any, failure *ResponseError) error {
	resp := Response{Status: "ok", Data: data, Error: failure, RunID: r.RunID}
	if failure != nil {
		resp.Status = "error"
	}
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Progress writes a line to Diag when verbose output is enabled.
func (r *Renderer) Progress(format string, args ...any) {
	if !r.Verbose || r.Diag == nil {
		return
	}
	fmt.Fprintf(r.Diag, format+"\n", args...)
}

// Check renders one comparison. Text mode prints the indented diff below a
// heading naming both documents. A mismatch returns a reported
// ExitFailure error.
func (r *Renderer) Check(result CheckResult, res *match.Result) error {
	const mismatch = "observation does not match"

	switch {
	case r.JSON:
		var failure *ResponseError
		if !result.Matched {
			failure = &ResponseError{Code: ErrCodeMismatch, Message: mismatch, Details: result.FailedKeys}
		}
		if err := r.envelope(result, failure); err != nil {
			return err
		}
	case result.Matched:
		fmt.Fprintln(r.Out, "✓ match")
	default:
		assertion := &match.AssertionError{
			Heading: fmt.Sprintf("✗ %s does not match %s", result.Observed, result.Expected),
			Subset:  result.Subset,
			Result:  res,
		}
		fmt.Fprint(r.Out, assertion.Error())
	}

	if !result.Matched {
		return reported(exitError(ExitFailure, mismatch, nil))
	}
	return nil
}

// Suite renders a case run: one line per case with the errors of failing
// cases indented below it, then a summary.
func (r *Renderer) Suite(suite *harness.SuiteResult) error {
	var failed *ExitError
	if suite.Failed > 0 {
		failed = reported(exitError(ExitFailure, fmt.Sprintf("%d case(s) failed", suite.Failed), nil))
	}

	if r.JSON {
		var failure *ResponseError
		if failed != nil {
			failure = &ResponseError{Code: ErrCodeTestFailed, Message: failed.Message}
		}
		if err := r.envelope(suite, failure); err != nil {
			return err
		}
		if failed != nil {
			return failed
		}
		return nil
	}

	if suite.Total == 0 {
		fmt.Fprintln(r.Out, "No cases found.")
		return nil
	}

	for _, c := range suite.Cases {
		switch {
		case c.Pass && c.Golden == harness.GoldenUpdated:
			fmt.Fprintf(r.Out, "✓ %s (golden updated)\n", c.Name)
		case c.Pass:
			fmt.Fprintf(r.Out, "✓ %s\n", c.Name)
		default:
			fmt.Fprintf(r.Out, "✗ %s\n", c.Name)
			for _, e := range c.Errors {
				e = strings.TrimRight(e, "\n")
				fmt.Fprintf(r.Out, "  %s\n", strings.ReplaceAll(e, "\n", "\n    "))
			}
		}
	}

	fmt.Fprintf(r.Out, "\nTest Summary: %d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.Total)
	if failed != nil {
		return failed
	}
	fmt.Fprintln(r.Out, "✓ All cases passed")
	return nil
}

// Tags renders the registered tags, one per line in text mode.
func (r *Renderer) Tags(tags []string) error {
	if r.JSON {
		return r.envelope(map[string]any{"tags": tags}, nil)
	}
	for _, tag := range tags {
		fmt.Fprintln(r.Out, tag)
	}
	return nil
}

// Fail turns err into an ExitCommandError. In JSON mode the failure is
// written as a Response with code, or ErrCodeNotFound for missing paths;
// in text mode it is left for Execute to print.
func (r *Renderer) Fail(code, message string, err error) error {
	exitErr := exitError(ExitCommandError, message, err)
	if !r.JSON {
		return exitErr
	}

	if errors.Is(err, os.ErrNotExist) {
		code = ErrCodeNotFound
	}
	if outErr := r.envelope(nil, &ResponseError{Code: code, Message: exitErr.Error()}); outErr != nil {
		return outErr
	}
	return reported(exitErr)
}
