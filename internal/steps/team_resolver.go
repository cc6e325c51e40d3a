package steps

import (
	"errors"
	"fmt"

	"github.com/similigh/auto-assign/internal/core/pipeline"
)

// TeamResolver fills the candidate list from the configured team or fixed user.
type TeamResolver struct {
	members pipeline.MemberLister
	logger  pipeline.Logger
}

// NewTeamResolver creates a new team resolver step.
func NewTeamResolver(deps *pipeline.Dependencies) *TeamResolver {
	return &TeamResolver{
		members: deps.Members,
		logger:  loggerFrom(deps),
	}
}

// Name returns the step name.
func (s *TeamResolver) Name() string {
	return "team_resolver"
}

// Run resolves candidates. The member list is fetched to completion before returning.
func (s *TeamResolver) Run(ctx *pipeline.Context) error {
	team := ctx.Config.Team
	if team == nil {
		if ctx.Config.User != "" {
			s.logger.Debugf("[team_resolver] No team configured, using fixed user @%s", ctx.Config.User)
			ctx.Candidates = []string{ctx.Config.User}
			return nil
		}
		s.logger.Infof("[team_resolver] No team configuration found: skipping action.")
		return ctx.Skip(pipeline.ReasonNoTeam)
	}

	if s.members == nil {
		return errors.New("team member source not configured")
	}

	s.logger.Debugf("[team_resolver] Resolving members of team %s", team)
	members, err := s.members.ListTeamMembers(ctx.Ctx, team.Org, team.Slug)
	if err != nil {
		return fmt.Errorf("failed to list members of team %s: %w", team, err)
	}

	if len(members) == 0 {
		s.logger.Infof("[team_resolver] No member in team %s: skipping action.", team)
		return ctx.Skip(pipeline.ReasonEmptyTeam)
	}

	ctx.Candidates = members
	return nil
}
