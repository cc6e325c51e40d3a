package steps

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// MemberPicker draws one candidate uniformly at random.
type MemberPicker struct {
	rand   func() float64
	logger pipeline.Logger
}

// NewMemberPicker creates a new member picker step.
func NewMemberPicker(deps *pipeline.Dependencies) *MemberPicker {
	r := deps.Rand
	if r == nil {
		r = rand.Float64
	}
	return &MemberPicker{rand: r, logger: loggerFrom(deps)}
}

// Name returns the step name.
func (s *MemberPicker) Name() string {
	return "member_picker"
}

// Run picks a candidate and records an AssignUser decision.
func (s *MemberPicker) Run(ctx *pipeline.Context) error {
	n := len(ctx.Candidates)
	if n == 0 {
		return ctx.Skip(pipeline.ReasonEmptyTeam)
	}

	i := pickIndex(s.rand(), n)
	if i < 0 || i >= n {
		return fmt.Errorf("random index %d out of range [0, %d)", i, n)
	}

	user := ctx.Candidates[i]
	s.logger.Debugf("[member_picker] Picked @%s (%d of %d)", user, i+1, n)
	ctx.Decision = pipeline.AssignUser(user, ctx.Event.Number)
	return nil
}

// pickIndex maps r in [0, 1) onto [0, n). Callers must range-check the result.
func pickIndex(r float64, n int) int {
	return int(math.Floor(r * float64(n)))
}
