package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/similigh/auto-assign/internal/core/config"
	"github.com/similigh/auto-assign/internal/integrations/github"
)

var membersTeam string

// membersCmd prints the members a run would draw from.
var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the members of the configured team",
	Long: `Lists the members of a team, following every page of the API.
The team defaults to the configured one (INPUT_TEAM or the config file).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		teamSpec := firstSet(membersTeam, cfg.Team)
		if teamSpec == "" {
			return fmt.Errorf("%w: no team given (use --team org/slug)", config.ErrInvalidConfig)
		}
		team, err := config.ParseTeamRef(teamSpec)
		if err != nil {
			return err
		}

		client := github.NewClient(ctx, cfg.TeamToken()).WithRetry(retryConfig(cfg))
		members, err := client.ListTeamMembers(ctx, team.Org, team.Slug)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if verbose {
			fmt.Fprintf(out, "%s has %d members\n", team, len(members))
		}
		for _, m := range members {
			fmt.Fprintln(out, m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(membersCmd)

	membersCmd.Flags().StringVar(&membersTeam, "team", "", "Team in org/slug format")
}
