// internal/action/pipeline.go
package action

import (
	"context"
	"time"

	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/interpreter"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/tracker"
)

// Pipeline is the tracker's gesture handler: it interprets each completed
// sequence, reports it as telemetry and dispatches any matched action.
type Pipeline struct {
	interpreter *interpreter.Interpreter
	router      *Router
	bus         Publisher
	now         func() time.Time

	// OnResult, when set, is told how every gesture was resolved.
	OnResult func(seq []gesture.Direction, match interpreter.Match, ok bool, err error)
}

// NewPipeline creates a pipeline.
func NewPipeline(interp *interpreter.Interpreter, router *Router, bus Publisher) *Pipeline {
	return &Pipeline{interpreter: interp, router: router, bus: bus, now: time.Now}
}

// Handle implements tracker.GestureHandler.
func (p *Pipeline) Handle(c tracker.Completion) {
	match, ok := p.interpreter.Interpret(c.Sequence)

	telemetry := event.GestureTriggeredData{Sequence: gesture.CloneSequence(c.Sequence), At: p.now()}
	if ok {
		telemetry.Action = match.Action
	}
	logger.Infof("Gesture detected sequence=%s action=%s", gesture.Key(c.Sequence), telemetry.Action)
	p.bus.Publish(event.TypeGestureTriggered, telemetry)

	var err error
	if ok {
		if err = p.router.Dispatch(context.Background(), match.Definition); err != nil {
			logger.Errorf("Dispatching %s failed: %v", match.Action, err)
		}
	}
	if p.OnResult != nil {
		p.OnResult(c.Sequence, match, ok, err)
	}
}
