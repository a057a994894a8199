// internal/gesture/validate.go
package gesture

import (
	"fmt"
	"math"
	"net/url"
)

// Validate checks every invariant of cfg and reports all violations at once.
// It returns nil or an *InvalidConfigError.
func Validate(cfg Config) error {
	var issues []Issue

	switch {
	case math.IsNaN(cfg.DefaultDelay):
		issues = append(issues, Issue{Path: "defaultDelay", Reason: "must be a number"})
	case cfg.DefaultDelay < 0:
		issues = append(issues, Issue{Path: "defaultDelay", Reason: fmt.Sprintf("must be >= 0, got %v", cfg.DefaultDelay)})
	}

	switch {
	case math.IsNaN(cfg.MinMoveDistance):
		issues = append(issues, Issue{Path: "minMoveDistance", Reason: "must be a number"})
	case cfg.MinMoveDistance <= 0:
		issues = append(issues, Issue{Path: "minMoveDistance", Reason: fmt.Sprintf("must be > 0, got %v", cfg.MinMoveDistance)})
	}

	if cfg.malformedTable {
		issues = append(issues, Issue{Path: "gestures", Reason: "must be an array"})
	}
	for i, g := range cfg.Gestures {
		issues = append(issues, validateDefinition(i, g)...)
	}

	if len(issues) == 0 {
		return nil
	}
	return &InvalidConfigError{Issues: issues}
}

// ValidateDefinition checks a single gesture on its own.
func ValidateDefinition(g Definition) error {
	if issues := validateDefinition(-1, g); len(issues) > 0 {
		return &InvalidConfigError{Issues: issues}
	}
	return nil
}

func validateDefinition(index int, g Definition) []Issue {
	prefix := "gesture"
	if index >= 0 {
		prefix = fmt.Sprintf("gestures[%d]", index)
	}

	var issues []Issue
	if len(g.Sequence) == 0 {
		issues = append(issues, Issue{Path: prefix + ".sequence", Reason: "must be a non-empty array"})
	}
	for j, dir := range g.Sequence {
		if !dir.Valid() {
			issues = append(issues, Issue{
				Path:   fmt.Sprintf("%s.sequence[%d]", prefix, j),
				Reason: fmt.Sprintf("unsupported direction %q", string(dir)),
			})
		}
	}

	if !g.Action.Valid() {
		issues = append(issues, Issue{Path: prefix + ".action", Reason: fmt.Sprintf("unsupported action %q", string(g.Action))})
	} else if g.Action == ActionOpenURL {
		if g.URL == "" {
			issues = append(issues, Issue{Path: prefix + ".url", Reason: "required for OPEN_URL"})
		} else if u, err := url.Parse(g.URL); err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, Issue{Path: prefix + ".url", Reason: fmt.Sprintf("not an absolute URL: %q", g.URL)})
		}
	}
	return issues
}
