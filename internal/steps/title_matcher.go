package steps

import (
	"fmt"

	"github.com/similigh/auto-assign/internal/core/config"
	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// TitleMatcher requires the item title to contain a match of the configured pattern.
type TitleMatcher struct {
	logger pipeline.Logger
}

// NewTitleMatcher creates a new title matcher step.
func NewTitleMatcher(deps *pipeline.Dependencies) *TitleMatcher {
	return &TitleMatcher{logger: loggerFrom(deps)}
}

// Name returns the step name.
func (s *TitleMatcher) Name() string {
	return "title_matcher"
}

// Run skips when the title does not match.
func (s *TitleMatcher) Run(ctx *pipeline.Context) error {
	if ctx.Config == nil || ctx.Config.TitlePattern == nil {
		return fmt.Errorf("%w: no match pattern configured", config.ErrInvalidConfig)
	}

	if !ctx.Config.TitlePattern.MatchString(ctx.Event.Title) {
		s.logger.Debugf("[title_matcher] Title %q does not match %q.", ctx.Event.Title, ctx.Config.TitlePattern.String())
		return ctx.Skip(pipeline.ReasonTitleMismatch)
	}
	return nil
}
