package pipeline

import (
	"context"
	"fmt"
	"sync"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
type StepFactory func(deps *Dependencies) (Step, error)

// MemberLister resolves the members of a team, consuming every page.
type MemberLister interface {
	ListTeamMembers(ctx context.Context, org, slug string) ([]string, error)
}

// Assigner adds assignees to an issue or pull request.
type Assigner interface {
	AddAssignees(ctx context.Context, owner, repo string, number int, users []string) error
}

// Logger is the subset of workflow-command logging used by steps.
type Logger interface {
	Debugf(msg string, args ...any)
	Infof(msg string, args ...any)
	Warningf(msg string, args ...any)
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	Members  MemberLister
	Assigner Assigner
	Logger   Logger

	// Rand returns a value in [0, 1). Nil selects the default source.
	Rand func() float64

	DryRun bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// auto-assign: decide and issue the assignment
	"auto-assign": {
		"event_gate",
		"assignee_guard",
		"title_matcher",
		"team_resolver",
		"member_picker",
		"assignment_executor",
	},

	// decide-only: stop once a user has been picked
	"decide-only": {
		"event_gate",
		"assignee_guard",
		"title_matcher",
		"team_resolver",
		"member_picker",
	},
}

// DefaultWorkflow is the preset used when none is requested.
const DefaultWorkflow = "auto-assign"

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps returns the preset for workflow, falling back to DefaultWorkflow.
func ResolveSteps(workflow string) []string {
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	return Presets[DefaultWorkflow]
}
