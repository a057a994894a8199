// internal/gesture/config.go
package gesture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// KeySeparator joins sequence tokens into a gesture's identity key.
const KeySeparator = ">"

// Definition binds a direction sequence to an action.
type Definition struct {
	ID       string      `json:"id,omitempty"`
	Sequence []Direction `json:"sequence"`
	Action   Action      `json:"action"`
	URL      string      `json:"url,omitempty"` // only meaningful for OPEN_URL
}

// Key returns the identity key used when layering configurations.
func (d Definition) Key() string {
	return Key(d.Sequence)
}

// Clone returns a copy that shares no memory with d.
func (d Definition) Clone() Definition {
	d.Sequence = CloneSequence(d.Sequence)
	return d
}

// Key joins a sequence into its override key, e.g. "RIGHT>DOWN".
func Key(seq []Direction) string {
	parts := make([]string, len(seq))
	for i, dir := range seq {
		parts[i] = string(dir)
	}
	return strings.Join(parts, KeySeparator)
}

// CloneSequence copies a sequence.
func CloneSequence(seq []Direction) []Direction {
	if seq == nil {
		return nil
	}
	out := make([]Direction, len(seq))
	copy(out, seq)
	return out
}

// SequenceEqual reports whether a and b hold the same tokens in the same order.
func SequenceEqual(a, b []Direction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Config is a complete gesture configuration.
//
// A scalar that was absent from the source document is held as NaN so Merge
// can tell "not present" apart from zero. A nil Gestures slice is an empty
// table; a decoded document whose gestures value was missing or not an array
// is remembered and reported by Validate.
type Config struct {
	// DefaultDelay is the minimum gesture duration in milliseconds.
	DefaultDelay float64

	// MinMoveDistance is how far, in pixels, a segment must travel to count.
	MinMoveDistance float64

	Gestures []Definition

	malformedTable bool
}

// Absent is the scalar value for a field missing from a document.
var Absent = math.NaN()

// HasDefaultDelay reports whether the delay was present in the source.
func (c Config) HasDefaultDelay() bool { return !math.IsNaN(c.DefaultDelay) }

// HasMinMoveDistance reports whether the distance was present in the source.
func (c Config) HasMinMoveDistance() bool { return !math.IsNaN(c.MinMoveDistance) }

// Clone deep-copies the configuration.
func (c Config) Clone() Config {
	out := Config{
		DefaultDelay:    c.DefaultDelay,
		MinMoveDistance: c.MinMoveDistance,
		malformedTable:  c.malformedTable,
	}
	if c.Gestures != nil {
		out.Gestures = make([]Definition, len(c.Gestures))
		for i, g := range c.Gestures {
			out.Gestures[i] = g.Clone()
		}
	}
	return out
}

// document is the wire shape of a Config.
type document struct {
	DefaultDelay    *float64        `json:"defaultDelay,omitempty"`
	MinMoveDistance *float64        `json:"minMoveDistance,omitempty"`
	Gestures        json.RawMessage `json:"gestures,omitempty"`
}

// MarshalJSON encodes the configuration, omitting absent scalars.
func (c Config) MarshalJSON() ([]byte, error) {
	doc := document{}
	if c.HasDefaultDelay() {
		v := c.DefaultDelay
		doc.DefaultDelay = &v
	}
	if c.HasMinMoveDistance() {
		v := c.MinMoveDistance
		doc.MinMoveDistance = &v
	}
	gestures := c.Gestures
	if gestures == nil {
		gestures = []Definition{}
	}
	raw, err := json.Marshal(gestures)
	if err != nil {
		return nil, err
	}
	doc.Gestures = raw
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a configuration document. Missing scalars become
// Absent and a missing or non-array gestures value marks the table malformed;
// both are left for Validate to report.
func (c *Config) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	c.DefaultDelay = Absent
	if doc.DefaultDelay != nil {
		c.DefaultDelay = *doc.DefaultDelay
	}
	c.MinMoveDistance = Absent
	if doc.MinMoveDistance != nil {
		c.MinMoveDistance = *doc.MinMoveDistance
	}

	c.Gestures = nil
	c.malformedTable = true
	raw := bytes.TrimSpace(doc.Gestures)
	if len(raw) > 0 && raw[0] == '[' {
		c.malformedTable = false
		var defs []Definition
		if err := json.Unmarshal(raw, &defs); err != nil {
			return fmt.Errorf("gestures: %w", err)
		}
		if defs == nil {
			defs = []Definition{}
		}
		c.Gestures = defs
	}
	return nil
}

// ParseConfig decodes a JSON document and normalizes its tokens. It does not
// validate; callers run Validate on the result.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, &InvalidConfigError{Issues: []Issue{{Reason: fmt.Sprintf("malformed document: %v", err)}}}
	}
	return Normalize(cfg), nil
}

// Normalize maps every direction and action token through the vocabulary
// normalizers. The input is not modified.
func Normalize(cfg Config) Config {
	out := cfg.Clone()
	for i := range out.Gestures {
		g := &out.Gestures[i]
		for j, dir := range g.Sequence {
			g.Sequence[j] = NormalizeDirection(string(dir))
		}
		g.Action = NormalizeAction(string(g.Action))
		g.URL = strings.TrimSpace(g.URL)
	}
	return out
}
