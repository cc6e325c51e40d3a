// Package assign decides whether an issue or pull request gets an assignee and who it is.
package assign

import (
	"context"
	"fmt"

	"github.com/similigh/auto-assign/internal/core/config"
	"github.com/similigh/auto-assign/internal/core/event"
	"github.com/similigh/auto-assign/internal/core/pipeline"
	"github.com/similigh/auto-assign/internal/steps"
)

// Decider runs the assignment pipeline for a single event.
type Decider struct {
	cfg      *config.Assignment
	pipeline *pipeline.Pipeline
}

// Option configures a Decider.
type Option func(*options)

type options struct {
	workflow string
	observer pipeline.Observer
}

// WithWorkflow selects a preset other than the default.
func WithWorkflow(name string) Option {
	return func(o *options) { o.workflow = name }
}

// WithObserver reports every step status to fn.
func WithObserver(fn pipeline.Observer) Option {
	return func(o *options) { o.observer = fn }
}

// New builds a Decider for a compiled configuration.
func New(cfg *config.Assignment, deps *pipeline.Dependencies, opts ...Option) (*Decider, error) {
	if cfg == nil || cfg.TitlePattern == nil {
		return nil, fmt.Errorf("%w: match pattern is required", config.ErrInvalidConfig)
	}
	var d pipeline.Dependencies
	if deps != nil {
		d = *deps
	}
	if cfg.DryRun {
		d.DryRun = true
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	p, err := registry.BuildFromNames(pipeline.ResolveSteps(o.workflow), &d)
	if err != nil {
		return nil, err
	}
	if o.observer != nil {
		p = pipeline.New(pipeline.Observe(p.Steps(), o.observer)...)
	}

	return &Decider{cfg: cfg, pipeline: p}, nil
}

// StepNames lists the steps in run order.
func (d *Decider) StepNames() []string {
	names := make([]string, 0, len(d.pipeline.Steps()))
	for _, s := range d.pipeline.Steps() {
		names = append(names, s.Name())
	}
	return names
}

// Decide runs the pipeline for ev. Skips are returned as decisions, not errors.
// When the decision assigns someone, the returned Pending tracks the request
// (nil in dry-run mode or when the preset stops before execution).
func (d *Decider) Decide(ctx context.Context, ev *event.IssueEvent) (pipeline.Decision, *pipeline.Pending, error) {
	pCtx := pipeline.NewContext(ctx, ev, d.cfg)
	if err := d.pipeline.Run(pCtx); err != nil {
		return pipeline.Decision{}, nil, err
	}
	return pCtx.Decision, pCtx.Pending, nil
}
