package steps

import (
	"strings"

	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// AssigneeGuard leaves items that already have an assignee untouched.
type AssigneeGuard struct {
	logger pipeline.Logger
}

// NewAssigneeGuard creates a new assignee guard step.
func NewAssigneeGuard(deps *pipeline.Dependencies) *AssigneeGuard {
	return &AssigneeGuard{logger: loggerFrom(deps)}
}

// Name returns the step name.
func (s *AssigneeGuard) Name() string {
	return "assignee_guard"
}

// Run skips when any assignee is present.
func (s *AssigneeGuard) Run(ctx *pipeline.Context) error {
	if ctx.Event.Assigned() {
		s.logger.Debugf("[assignee_guard] #%d already has an assignee (%s).",
			ctx.Event.Number, strings.Join(ctx.Event.Assignees, ", "))
		return ctx.Skip(pipeline.ReasonAlreadyAssigned)
	}
	return nil
}
