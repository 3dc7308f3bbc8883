package cli

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/fields"
)

// parseVars turns --var name=value flags into a scope. Values are YAML, so
// `n=3` binds an integer, `ok=true` a bool, `tags=[a, b]` a list and
// `who=ada` a string.
func parseVars(vars []string) (capture.Vars, error) {
	return parseAssignments("--var", vars)
}

// parseAssignments parses name=value flags named flag.
func parseAssignments(flag string, vars []string) (capture.Vars, error) {
	scope := make(capture.Vars, len(vars))
	for _, v := range vars {
		name, raw, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid %s %q: expected name=value", flag, v)
		}
		name = strings.TrimSpace(name)
		if !fields.ValidName(name) {
			return nil, fmt.Errorf("invalid %s %q: %q is not an identifier", flag, v, name)
		}
		if _, dup := scope[name]; dup {
			return nil, fmt.Errorf("duplicate %s %q", flag, name)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", flag, v, err)
		}
		scope[name] = value
	}
	return scope, nil
}
