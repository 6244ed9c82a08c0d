package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

const goldenDirName = "golden"

// Snapshot renders the parts of a result that golden files pin: the case
// name, the outcome, the failing paths and the diff.
func Snapshot(r *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "case: %s\n", r.Name)
	fmt.Fprintf(&buf, "matched: %t\n", r.Matched)
	fmt.Fprintf(&buf, "failed_keys: [%s]\n", strings.Join(r.FailedKeys, " "))
	buf.WriteString(r.Diff)
	return buf.Bytes()
}

// RunWithGolden runs a case and compares its snapshot against
// testdata/golden/{case.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, c *Case) error {
	t.Helper()

	result, err := Run(c)
	if err != nil {
		return err
	}
	return AssertGolden(t, c.Name, result)
}

// AssertGolden compares an existing result's snapshot against its golden
// file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", goldenDirName)),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
	return nil
}

// GoldenPath returns the golden file for a case file: a sibling golden
// directory holding {name}.golden.
func GoldenPath(casePath, name string) string {
	return filepath.Join(filepath.Dir(casePath), goldenDirName, name+".golden")
}

// CheckGolden compares snapshot with the golden file at path. With update
// set the file is rewritten and the comparison always succeeds. A missing
// golden file is reported as os.ErrNotExist.
func CheckGolden(path string, snapshot []byte, update bool) (bool, error) {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return false, fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, snapshot, 0644); err != nil {
			return false, fmt.Errorf("failed to write golden file: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, snapshot), nil
}
