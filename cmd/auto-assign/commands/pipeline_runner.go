package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/auto-assign/internal/assign"
	"github.com/similigh/auto-assign/internal/core/config"
	"github.com/similigh/auto-assign/internal/core/event"
	"github.com/similigh/auto-assign/internal/core/pipeline"
	"github.com/similigh/auto-assign/internal/tui"
)

// decide runs the decider directly in CI and behind the step view otherwise.
func decide(ctx context.Context, cfg *config.Assignment, deps *pipeline.Dependencies, ev *event.IssueEvent) (pipeline.Decision, *pipeline.Pending, error) {
	if isCI() {
		d, err := assign.New(cfg, deps)
		if err != nil {
			return pipeline.Decision{}, nil, err
		}
		return d.Decide(ctx, ev)
	}
	return decideInteractive(ctx, cfg, deps, ev)
}

func decideInteractive(ctx context.Context, cfg *config.Assignment, deps *pipeline.Dependencies, ev *event.IssueEvent) (pipeline.Decision, *pipeline.Pending, error) {
	// Each step reports at most twice; the buffer keeps steps from blocking if the view quits early.
	statusChan := make(chan tui.StepStatusMsg, 2*len(pipeline.ResolveSteps(""))+2)

	d, err := assign.New(cfg, deps, assign.WithObserver(func(step, status, message string) {
		statusChan <- tui.StepStatusMsg{Step: step, Status: status, Message: message}
	}))
	if err != nil {
		return pipeline.Decision{}, nil, err
	}

	p := tea.NewProgram(tui.NewModel(d.StepNames(), statusChan))

	var (
		decision pipeline.Decision
		pending  *pipeline.Pending
		runErr   error
	)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(statusChan)

		decision, pending, runErr = d.Decide(ctx, ev)
		if runErr != nil {
			p.Send(tui.ResultMsg{Success: false, Output: runErr.Error()})
			return
		}
		p.Send(tui.ResultMsg{Success: true, Output: decision.String()})
	}()

	if _, err := p.Run(); err != nil {
		<-done
		return pipeline.Decision{}, nil, fmt.Errorf("error running TUI: %w", err)
	}
	<-done

	return decision, pending, runErr
}
