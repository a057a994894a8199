// internal/gesture/errors.go
package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid gesture configuration")

// Issue is a single broken invariant.
type Issue struct {
	Path   string // e.g. "gestures[2].sequence[0]"; empty for document-level problems
	Reason string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Reason
	}
	return i.Path + ": " + i.Reason
}

// InvalidConfigError lists every problem found in a configuration.
type InvalidConfigError struct {
	Issues []Issue
}

func (e *InvalidConfigError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrInvalidConfig) match.
func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
