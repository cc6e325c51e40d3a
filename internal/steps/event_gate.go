// Package steps contains the assignment pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"github.com/similigh/auto-assign/internal/core/event"
	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// EventGate stops the pipeline for events that are not issues or pull requests.
type EventGate struct {
	logger pipeline.Logger
}

// NewEventGate creates a new event gate step.
func NewEventGate(deps *pipeline.Dependencies) *EventGate {
	return &EventGate{logger: loggerFrom(deps)}
}

// Name returns the step name.
func (s *EventGate) Name() string {
	return "event_gate"
}

// Run skips unsupported events and rejects supported ones missing their identity.
func (s *EventGate) Run(ctx *pipeline.Context) error {
	ev := ctx.Event
	if ev == nil || ev.Kind == event.Unsupported {
		name, action := "", ""
		if ev != nil {
			name, action = ev.Name, ev.Action
		}
		s.logger.Infof("[event_gate] Event (%s/%s) is not an opened or edited pull request or issue: skipping.", name, action)
		return ctx.Skip(pipeline.ReasonUnsupportedEvent)
	}

	if err := ev.Validate(); err != nil {
		return err
	}

	s.logger.Debugf("[event_gate] Processing %s %s", ev.Kind, ev.Item())
	return nil
}
