// Package pipeline provides the step engine behind the assignment decision.
// It defines the Step interface and the Context passed between steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/similigh/auto-assign/internal/core/config"
	"github.com/similigh/auto-assign/internal/core/event"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., title mismatch, empty team).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Skip reasons recorded on the decision.
const (
	ReasonUnsupportedEvent = "unsupported event"
	ReasonAlreadyAssigned  = "already assigned"
	ReasonTitleMismatch    = "title mismatch"
	ReasonNoTeam           = "no team configured"
	ReasonEmptyTeam        = "empty team"
)

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Action is the kind of outcome a decision carries.
type Action int

const (
	ActionSkip Action = iota
	ActionAssign
)

// Decision is the outcome of the pipeline: skip with a reason, or assign a user.
type Decision struct {
	Action Action
	Reason string
	User   string
	Number int
}

// Skip returns a skip decision.
func Skip(reason string) Decision {
	return Decision{Action: ActionSkip, Reason: reason}
}

// AssignUser returns a decision to assign user to item number.
func AssignUser(user string, number int) Decision {
	return Decision{Action: ActionAssign, User: user, Number: number}
}

// IsAssign reports whether the decision assigns someone.
func (d Decision) IsAssign() bool {
	return d.Action == ActionAssign
}

func (d Decision) String() string {
	if d.IsAssign() {
		return fmt.Sprintf("assign @%s to #%d", d.User, d.Number)
	}
	return fmt.Sprintf("skip (%s)", d.Reason)
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation.
	Ctx context.Context

	// Event is the event being processed.
	Event *event.IssueEvent

	// Config is the compiled assignment configuration.
	Config *config.Assignment

	// Candidates holds the resolved users a pick is drawn from.
	Candidates []string

	// Decision is the pipeline outcome. It defaults to an undecided skip.
	Decision Decision

	// Pending is set once an assignment request has been issued.
	Pending *Pending
}

// NewContext creates a new pipeline context for an event.
func NewContext(ctx context.Context, ev *event.IssueEvent, cfg *config.Assignment) *Context {
	return &Context{
		Ctx:    ctx,
		Event:  ev,
		Config: cfg,
	}
}

// Skip records a skip decision and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Decision = Skip(reason)
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Step statuses reported to an Observer.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Observer receives step status updates.
type Observer func(step, status, message string)

type observedStep struct {
	inner    Step
	observer Observer
}

// Observe wraps steps so that each run reports its status to observer.
func Observe(steps []Step, observer Observer) []Step {
	wrapped := make([]Step, 0, len(steps))
	for _, s := range steps {
		wrapped = append(wrapped, &observedStep{inner: s, observer: observer})
	}
	return wrapped
}

func (s *observedStep) Name() string {
	return s.inner.Name()
}

func (s *observedStep) Run(ctx *Context) error {
	s.observer(s.Name(), StatusStarted, "")

	err := s.inner.Run(ctx)
	switch {
	case err == nil:
		s.observer(s.Name(), StatusSuccess, "")
	case errors.Is(err, ErrSkipPipeline):
		s.observer(s.Name(), StatusSkipped, ctx.Decision.Reason)
	default:
		s.observer(s.Name(), StatusError, err.Error())
	}
	return err
}
