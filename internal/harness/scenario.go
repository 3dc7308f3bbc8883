package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/emit/internal/ir"
)

// Scenario is one emission and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Template is the message template.
	Template string `yaml:"template"`

	// Fields are extra field declarations, e.g. `a: 42` or `#[debug] job`.
	Fields []string `yaml:"fields,omitempty"`

	// Scope holds the host bindings visible to bare fields and expressions.
	Scope map[string]any `yaml:"scope,omitempty"`

	// Target selects the sink. A field named target is an ordinary field.
	Target string `yaml:"target,omitempty"`

	// Ambient lets bare holes bind the scope without an extra field.
	Ambient bool `yaml:"ambient,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect describes the expected outcome. Error excludes every other field.
type Expect struct {
	// Error is the expected error kind, e.g. CONFLICT or UNRESOLVED_HOLE.
	Error string `yaml:"error,omitempty"`

	// Rendering lists field names in rendering order.
	Rendering []string `yaml:"rendering,omitempty"`

	// Sorted lists field names in sorted order.
	Sorted []string `yaml:"sorted,omitempty"`

	// Index is the rendering-to-sorted index map.
	Index []int `yaml:"index,omitempty"`

	// Values holds expected captured values. Subset match.
	Values map[string]any `yaml:"values,omitempty"`

	// Message is the expected rendered template.
	Message string `yaml:"message,omitempty"`

	// Target is the expected dispatch target.
	Target string `yaml:"target,omitempty"`
}

func (e Expect) expectsRecord() bool {
	return len(e.Rendering) > 0 || len(e.Sorted) > 0 || len(e.Index) > 0 ||
		len(e.Values) > 0 || e.Message != "" || e.Target != ""
}

var errorKinds = []ir.ErrorKind{
	ir.ErrParse, ir.ErrConflict, ir.ErrUnresolvedHole, ir.ErrDuplicateKey, ir.ErrCapture,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "field:" vs "fields:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted by path.
// A non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
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
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	for i, f := range s.Fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("fields[%d]: declaration is empty", i)
		}
	}

	if s.Expect.Error != "" {
		if parseKind(s.Expect.Error) == "" {
			return fmt.Errorf("expect.error: unknown error kind %q", s.Expect.Error)
		}
		if s.Expect.expectsRecord() {
			return fmt.Errorf("expect.error cannot be combined with record expectations")
		}
	} else if !s.Expect.expectsRecord() {
		return fmt.Errorf("expect is required: give an error kind or record expectations")
	}

	return nil
}

// parseKind accepts a kind name case-insensitively, with or without an
// "_ERROR" suffix, and returns "" when it is unknown.
func parseKind(s string) ir.ErrorKind {
	s = strings.TrimSuffix(strings.ToUpper(s), "_ERROR")
	for _, k := range errorKinds {
		if string(k) == s {
			return k
		}
	}
	return ""
}
