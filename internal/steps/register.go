package steps

import (
	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("event_gate", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewEventGate(deps), nil
	})

	r.Register("assignee_guard", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewAssigneeGuard(deps), nil
	})

	r.Register("title_matcher", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewTitleMatcher(deps), nil
	})

	r.Register("team_resolver", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewTeamResolver(deps), nil
	})

	r.Register("member_picker", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewMemberPicker(deps), nil
	})

	r.Register("assignment_executor", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewAssignmentExecutor(deps), nil
	})
}
