package steps

import (
	"context"
	"errors"

	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// AssignmentExecutor issues the add-assignee request for an AssignUser decision.
// The request runs in the background; the pipeline does not wait for it.
type AssignmentExecutor struct {
	assigner pipeline.Assigner
	dryRun   bool
	logger   pipeline.Logger
}

// NewAssignmentExecutor creates a new assignment executor step.
func NewAssignmentExecutor(deps *pipeline.Dependencies) *AssignmentExecutor {
	return &AssignmentExecutor{
		assigner: deps.Assigner,
		dryRun:   deps.DryRun,
		logger:   loggerFrom(deps),
	}
}

// Name returns the step name.
func (s *AssignmentExecutor) Name() string {
	return "assignment_executor"
}

// Run spawns the assignment request.
func (s *AssignmentExecutor) Run(ctx *pipeline.Context) error {
	d := ctx.Decision
	if !d.IsAssign() {
		return nil
	}

	ev := ctx.Event
	if s.dryRun || (ctx.Config != nil && ctx.Config.DryRun) {
		s.logger.Infof("[assignment_executor] DRY RUN: Would assign user @%s to %s", d.User, ev.Item())
		return nil
	}

	if s.assigner == nil {
		return errors.New("assignee client not configured")
	}

	s.logger.Infof("[assignment_executor] Assigning user @%s to %s", d.User, ev.Item())
	ctx.Pending = pipeline.Spawn(ctx.Ctx, d.User, d.Number, func(c context.Context) error {
		return s.assigner.AddAssignees(c, ev.Owner, ev.Repo, d.Number, []string{d.User})
	})
	return nil
}
