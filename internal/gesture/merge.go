// internal/gesture/merge.go
package gesture

// Merge layers override on top of base.
//
// Gestures are matched by Key. An override entry whose key exists in base
// replaces the base entry wholesale at the base entry's position; override
// entries with new keys are appended in override order. When override holds
// the same key more than once, the last definition wins. Scalars come from
// override when present and from base otherwise. The result shares no memory
// with either input.
func Merge(base, override Config) Config {
	overrideByKey := make(map[string]Definition, len(override.Gestures))
	overrideOrder := make([]string, 0, len(override.Gestures))
	for _, g := range override.Gestures {
		key := g.Key()
		if _, exists := overrideByKey[key]; !exists {
			overrideOrder = append(overrideOrder, key)
		}
		overrideByKey[key] = g
	}

	merged := make([]Definition, 0, len(base.Gestures)+len(overrideOrder))
	used := make(map[string]bool, len(overrideOrder))
	for _, g := range base.Gestures {
		key := g.Key()
		if replacement, ok := overrideByKey[key]; ok {
			merged = append(merged, replacement.Clone())
			used[key] = true
			continue
		}
		merged = append(merged, g.Clone())
	}
	for _, key := range overrideOrder {
		if !used[key] {
			merged = append(merged, overrideByKey[key].Clone())
		}
	}

	out := Config{
		DefaultDelay:    base.DefaultDelay,
		MinMoveDistance: base.MinMoveDistance,
		Gestures:        merged,
	}
	if override.HasDefaultDelay() {
		out.DefaultDelay = override.DefaultDelay
	}
	if override.HasMinMoveDistance() {
		out.MinMoveDistance = override.MinMoveDistance
	}
	return out
}
