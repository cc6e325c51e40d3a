package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/similigh/auto-assign/internal/core/config"
	"github.com/similigh/auto-assign/internal/core/event"
	"github.com/similigh/auto-assign/internal/core/pipeline"
	"github.com/similigh/auto-assign/internal/integrations/github"
)

var (
	eventName string
	eventPath string
	dryRun    bool
)

// runCmd is the action entry point.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assign a random team member to the triggering issue or pull request",
	Long: `Reads the triggering event (GITHUB_EVENT_NAME / GITHUB_EVENT_PATH) and the
action inputs (INPUT_MATCH, INPUT_TEAM, INPUT_USER, INPUT_TOKEN, INPUT_ORG-TOKEN),
then assigns a random team member when the item is unassigned and its title matches.

Environment variables:
  GITHUB_TOKEN   Used when INPUT_TOKEN is not set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runAction(cmd.Context(), newAction(cmd.OutOrStdout())); err != nil {
			// Annotate the workflow run; cobra prints the plain error as well.
			githubactions.New(githubactions.WithWriter(cmd.OutOrStdout())).Errorf("%s", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&eventName, "event-name", "", "Event name (default: $GITHUB_EVENT_NAME)")
	runCmd.Flags().StringVar(&eventPath, "event-path", "", "Path to event payload JSON (default: $GITHUB_EVENT_PATH)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Decide without assigning anyone")
}

// newAction returns the workflow-command logger. Outside CI, debug and info
// lines would garble the interactive view, so they are dropped unless verbose.
func newAction(w io.Writer) *githubactions.Action {
	if !isCI() && !verbose {
		w = io.Discard
	}
	return githubactions.New(githubactions.WithWriter(w))
}

func runAction(ctx context.Context, action *githubactions.Action) error {
	// 1. Load configuration
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if dryRun {
		cfg.EnableDryRun()
	}

	assignment, err := cfg.Compile()
	if err != nil {
		return err
	}

	// 2. Load event
	ev, err := event.Load(firstSet(eventName, os.Getenv("GITHUB_EVENT_NAME")), firstSet(eventPath, os.Getenv("GITHUB_EVENT_PATH")))
	if err != nil {
		return err
	}

	// 3. Wire clients; team listing and issue mutation may use different tokens.
	teamClient := github.NewClient(ctx, cfg.TeamToken()).WithRetry(retryConfig(cfg))
	issueClient := github.NewClient(ctx, cfg.IssueToken())

	deps := &pipeline.Dependencies{
		Members:  teamClient,
		Assigner: issueClient,
		Logger:   action,
		DryRun:   cfg.IsDryRun(),
	}

	// 4. Decide
	decision, pending, err := decide(ctx, assignment, deps, ev)
	if err != nil {
		return err
	}

	if !decision.IsAssign() {
		action.Infof("No assignment: %s", decision.Reason)
		return nil
	}

	// 5. Observe the assignment request. Failures are reported, never fatal.
	if err := pending.Wait(); err != nil {
		action.Warningf("Failed to assign @%s to %s: %v", decision.User, ev.Item(), err)
		return nil
	}
	if pending != nil {
		action.Infof("Assigned @%s to %s", decision.User, ev.Item())
	}
	return nil
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	path := cfgFile
	if path != "" {
		if config.FindConfigPath(path) == "" {
			return nil, fmt.Errorf("%w: config file %s not found", config.ErrInvalidConfig, path)
		}
	} else {
		path = config.FindConfigPath("")
	}

	return config.Resolve(path, remoteConfigFetcher(ctx))
}

// remoteConfigFetcher resolves 'extends' references through the contents API.
func remoteConfigFetcher(ctx context.Context) config.Fetcher {
	return func(ref string) ([]byte, error) {
		org, repo, branch, path, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}

		token := firstSet(os.Getenv("INPUT_TOKEN"), os.Getenv("GITHUB_TOKEN"))
		if token == "" {
			return nil, fmt.Errorf("a token is required to fetch remote config %s", ref)
		}

		return github.NewClient(ctx, token).GetFileContent(ctx, org, repo, path, branch)
	}
}

func retryConfig(cfg *config.Config) github.RetryConfig {
	rc := github.DefaultRetryConfig()
	rc.MaxRetries = cfg.Retry.Retries()
	rc.BaseDelay = cfg.Retry.BaseDelay
	return rc
}

func isCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
