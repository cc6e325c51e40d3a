package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcStep struct {
	name string
	run  func(ctx *Context) error
}

func (s *funcStep) Name() string           { return s.name }
func (s *funcStep) Run(ctx *Context) error { return s.run(ctx) }

func TestPipelineRunStopsOnSkip(t *testing.T) {
	var ran []string
	p := New(
		&funcStep{name: "a", run: func(ctx *Context) error { ran = append(ran, "a"); return nil }},
		&funcStep{name: "b", run: func(ctx *Context) error { ran = append(ran, "b"); return ctx.Skip(ReasonTitleMismatch) }},
		&funcStep{name: "c", run: func(ctx *Context) error { ran = append(ran, "c"); return nil }},
	)

	pCtx := NewContext(context.Background(), nil, nil)
	require.NoError(t, p.Run(pCtx))

	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, Skip(ReasonTitleMismatch), pCtx.Decision)
	assert.False(t, pCtx.Decision.IsAssign())
}

func TestPipelineRunWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	p := New(&funcStep{name: "broken", run: func(*Context) error { return boom }})

	err := p.Run(NewContext(context.Background(), nil, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step 'broken' failed")
}

func TestObserveReportsStatuses(t *testing.T) {
	type report struct{ step, status, msg string }
	var reports []report
	observer := func(step, status, msg string) {
		reports = append(reports, report{step, status, msg})
	}

	steps := Observe([]Step{
		&funcStep{name: "ok", run: func(*Context) error { return nil }},
		&funcStep{name: "skip", run: func(ctx *Context) error { return ctx.Skip(ReasonEmptyTeam) }},
	}, observer)

	require.NoError(t, New(steps...).Run(NewContext(context.Background(), nil, nil)))

	assert.Equal(t, []report{
		{"ok", StatusStarted, ""},
		{"ok", StatusSuccess, ""},
		{"skip", StatusStarted, ""},
		{"skip", StatusSkipped, ReasonEmptyTeam},
	}, reports)

	errSteps := Observe([]Step{&funcStep{name: "bad", run: func(*Context) error { return errors.New("nope") }}}, observer)
	require.Error(t, New(errSteps...).Run(NewContext(context.Background(), nil, nil)))
	assert.Equal(t, report{"bad", StatusError, "nope"}, reports[len(reports)-1])
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "assign @alice to #3", AssignUser("alice", 3).String())
	assert.Equal(t, "skip (already assigned)", Skip(ReasonAlreadyAssigned).String())
}

func TestPendingWait(t *testing.T) {
	var nilPending *Pending
	assert.NoError(t, nilPending.Wait())

	p := Spawn(context.Background(), "alice", 3, func(context.Context) error { return nil })
	assert.NoError(t, p.Wait())
	assert.Equal(t, "alice", p.User)

	failure := errors.New("forbidden")
	p = Spawn(context.Background(), "bob", 4, func(context.Context) error { return failure })
	assert.ErrorIs(t, p.Wait(), failure)
}

func TestRegistryBuildFromNames(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", func(*Dependencies) (Step, error) {
		return &funcStep{name: "noop", run: func(*Context) error { return nil }}, nil
	})
	r.Register("broken", func(*Dependencies) (Step, error) {
		return nil, errors.New("missing dependency")
	})

	p, err := r.BuildFromNames([]string{"noop", "noop"}, &Dependencies{})
	require.NoError(t, err)
	assert.Len(t, p.Steps(), 2)

	_, err = r.BuildFromNames([]string{"unknown"}, &Dependencies{})
	assert.ErrorContains(t, err, "unknown step")

	_, err = r.BuildFromNames([]string{"broken"}, &Dependencies{})
	assert.ErrorContains(t, err, "missing dependency")
}

func TestResolveSteps(t *testing.T) {
	assert.Equal(t, Presets["auto-assign"], ResolveSteps(""))
	assert.Equal(t, Presets["decide-only"], ResolveSteps("decide-only"))
	assert.Equal(t, Presets["auto-assign"], ResolveSteps("nonexistent"))
	assert.NotContains(t, Presets["decide-only"], "assignment_executor")
}
