// internal/interpreter/interpreter.go

// Package interpreter resolves completed gesture sequences to actions.
package interpreter

import (
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

// Match is the definition a sequence resolved to.
type Match struct {
	Action     gesture.Action
	Definition gesture.Definition
}

// Resolve returns the first definition in table order whose sequence equals
// seq exactly.
func Resolve(seq []gesture.Direction, cfg gesture.Config) (Match, bool) {
	for _, def := range cfg.Gestures {
		if gesture.SequenceEqual(def.Sequence, seq) {
			return Match{Action: def.Action, Definition: def.Clone()}, true
		}
	}
	return Match{}, false
}

// ConfigProvider returns the configuration in force right now.
type ConfigProvider func() gesture.Config

// Interpreter is Resolve bound to a live configuration.
type Interpreter struct {
	config ConfigProvider
}

// New creates an interpreter reading its table from provider.
func New(provider ConfigProvider) *Interpreter {
	return &Interpreter{config: provider}
}

// Interpret matches seq against the current configuration.
func (i *Interpreter) Interpret(seq []gesture.Direction) (Match, bool) {
	logger.DebugTagf("interpreter", "Interpreting gesture %v", seq)
	match, ok := Resolve(seq, i.config())
	if !ok {
		logger.DebugTagf("interpreter", "No gesture definition matched %s", gesture.Key(seq))
		return Match{}, false
	}
	logger.DebugTagf("interpreter", "Gesture matched action=%s", match.Action)
	return match, true
}
