package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Want values for Case.Want.
const (
	WantPass = "pass"
	WantFail = "fail"
)

// Case is a single expectation check loaded from a YAML case file.
type Case struct {
	// Name uniquely identifies this case and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this case validates.
	Description string `yaml:"description"`

	// Subset compares in subset mode, ignoring observed-only mapping keys.
	Subset bool `yaml:"subset,omitempty"`

	// Expected is the tagged expectation, built through the registry.
	Expected yaml.Node `yaml:"expected"`

	// Observed is the inline observation. Mutually exclusive with
	// ObservedFile.
	Observed yaml.Node `yaml:"observed,omitempty"`

	// ObservedFile is a JSON, YAML or CUE observation, relative to the
	// case file.
	ObservedFile string `yaml:"observed_file,omitempty"`

	// Want is the expected comparison outcome: "pass" (default) or "fail".
	Want string `yaml:"want,omitempty"`

	// FailedKeys, when set, must equal the failing paths exactly.
	FailedKeys []string `yaml:"failed_keys,omitempty"`

	// Path is the file the case was loaded from, if any.
	Path string `yaml:"-"`
}

// HasObserved reports whether the case carries an inline observation.
func (c *Case) HasObserved() bool {
	return c.Observed.Kind != 0
}

// LoadCase reads and parses a case YAML file. Unknown fields are rejected
// and relative observation paths are resolved against the file's
// directory.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	c, err := ParseCase(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	if c.ObservedFile != "" && !filepath.IsAbs(c.ObservedFile) {
		c.ObservedFile = filepath.Join(filepath.Dir(path), c.ObservedFile)
	}
	return c, nil
}

// ParseCase parses and validates a case document.
func ParseCase(data []byte) (*Case, error) {
	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateCase(&c); err != nil {
		return nil, fmt.Errorf("invalid case: %w", err)
	}
	return &c, nil
}

// FindCases returns the sorted case files under dir. filter, when set, is a
// glob matched against the file name without extension. Files inside
// golden directories are skipped.
func FindCases(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == goldenDirName && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", c.Name)
	}
	if c.Expected.Kind == 0 {
		return fmt.Errorf("expected is required")
	}

	switch {
	case c.HasObserved() && c.ObservedFile != "":
		return fmt.Errorf("observed and observed_file are mutually exclusive")
	case !c.HasObserved() && c.ObservedFile == "":
		return fmt.Errorf("one of observed or observed_file is required")
	}

	switch c.Want {
	case "":
		c.Want = WantPass
	case WantPass, WantFail:
	default:
		return fmt.Errorf("want must be %q or %q, got %q", WantPass, WantFail, c.Want)
	}

	if len(c.FailedKeys) > 0 && c.Want != WantFail {
		return fmt.Errorf("failed_keys requires want: %s", WantFail)
	}
	return nil
}
