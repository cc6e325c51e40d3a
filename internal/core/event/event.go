// Package event turns raw GitHub webhook payloads into IssueEvent values.
// Payloads are validated once here so the rest of the code never probes raw fields.
package event

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/go-github/v60/github"
)

// ErrInvalidPayload marks a payload that lacks fields required for its kind.
var ErrInvalidPayload = errors.New("invalid event payload")

// Webhook event names handled by auto-assign.
const (
	NameIssues      = "issues"
	NamePullRequest = "pull_request"
)

// Kind discriminates the supported event variants.
type Kind int

const (
	Unsupported Kind = iota
	PullRequestOpened
	IssueOpened
	PullRequestEdited
	IssueEdited
)

func (k Kind) String() string {
	switch k {
	case PullRequestOpened:
		return "pull_request_opened"
	case IssueOpened:
		return "issue_opened"
	case PullRequestEdited:
		return "pull_request_edited"
	case IssueEdited:
		return "issue_edited"
	default:
		return "unsupported"
	}
}

// IsPullRequest reports whether the event targets a pull request.
func (k Kind) IsPullRequest() bool {
	return k == PullRequestOpened || k == PullRequestEdited
}

// IssueEvent is an issue or pull request event reduced to what assignment needs.
type IssueEvent struct {
	Kind Kind

	// Name and Action are the raw webhook event name and action.
	Name   string
	Action string

	Title     string
	Assignees []string
	Number    int
	Owner     string
	Repo      string
	Sender    string
}

// Assigned reports whether the item already has at least one assignee.
func (e *IssueEvent) Assigned() bool {
	return len(e.Assignees) > 0
}

// Item returns a short "owner/repo#number" label.
func (e *IssueEvent) Item() string {
	return fmt.Sprintf("%s/%s#%d", e.Owner, e.Repo, e.Number)
}

// Validate checks that a supported event carries its item identity.
func (e *IssueEvent) Validate() error {
	if e.Kind == Unsupported {
		return nil
	}
	if e.Owner == "" {
		return fmt.Errorf("%w: repository owner not present in payload", ErrInvalidPayload)
	}
	if e.Repo == "" {
		return fmt.Errorf("%w: repository name not present in payload", ErrInvalidPayload)
	}
	if e.Number <= 0 {
		return fmt.Errorf("%w: item number not present in payload", ErrInvalidPayload)
	}
	return nil
}

// Load reads the event payload stored at path (GITHUB_EVENT_PATH) and parses it.
// Events other than issues and pull_request are returned as Unsupported without reading the file.
func Load(name, path string) (*IssueEvent, error) {
	if !isHandled(name) {
		return unsupported(name, ""), nil
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no payload path for %s event", ErrInvalidPayload, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	return Parse(name, data)
}

// Parse decodes a webhook payload of the given event name.
func Parse(name string, payload []byte) (*IssueEvent, error) {
	if !isHandled(name) {
		return unsupported(name, ""), nil
	}

	raw, err := github.ParseWebHook(name, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var ev *IssueEvent
	switch e := raw.(type) {
	case *github.IssuesEvent:
		ev, err = fromIssuesEvent(e)
	case *github.PullRequestEvent:
		ev, err = fromPullRequestEvent(e)
	default:
		return unsupported(name, ""), nil
	}
	if err != nil {
		return nil, err
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

func fromIssuesEvent(e *github.IssuesEvent) (*IssueEvent, error) {
	action := e.GetAction()

	var kind Kind
	switch action {
	case "opened", "reopened":
		kind = IssueOpened
	case "edited":
		kind = IssueEdited
	default:
		return unsupported(NameIssues, action), nil
	}

	if e.Issue == nil {
		return nil, fmt.Errorf("%w: issue not present in payload", ErrInvalidPayload)
	}

	issue := e.GetIssue()
	return &IssueEvent{
		Kind:      kind,
		Name:      NameIssues,
		Action:    action,
		Title:     issue.GetTitle(),
		Assignees: collectLogins(issue.Assignee, issue.Assignees),
		Number:    issue.GetNumber(),
		Owner:     e.GetRepo().GetOwner().GetLogin(),
		Repo:      e.GetRepo().GetName(),
		Sender:    e.GetSender().GetLogin(),
	}, nil
}

func fromPullRequestEvent(e *github.PullRequestEvent) (*IssueEvent, error) {
	action := e.GetAction()

	var kind Kind
	switch action {
	case "opened", "reopened", "ready_for_review":
		kind = PullRequestOpened
	case "edited":
		kind = PullRequestEdited
	default:
		return unsupported(NamePullRequest, action), nil
	}

	if e.PullRequest == nil {
		return nil, fmt.Errorf("%w: pull_request not present in payload", ErrInvalidPayload)
	}

	pr := e.GetPullRequest()
	number := pr.GetNumber()
	if number == 0 {
		number = e.GetNumber()
	}

	return &IssueEvent{
		Kind:      kind,
		Name:      NamePullRequest,
		Action:    action,
		Title:     pr.GetTitle(),
		Assignees: collectLogins(pr.Assignee, pr.Assignees),
		Number:    number,
		Owner:     e.GetRepo().GetOwner().GetLogin(),
		Repo:      e.GetRepo().GetName(),
		Sender:    e.GetSender().GetLogin(),
	}, nil
}

// collectLogins merges the legacy single assignee with the assignees list.
func collectLogins(single *github.User, many []*github.User) []string {
	seen := make(map[string]struct{})
	var logins []string

	add := func(u *github.User) {
		login := u.GetLogin()
		if login == "" {
			return
		}
		if _, ok := seen[login]; ok {
			return
		}
		seen[login] = struct{}{}
		logins = append(logins, login)
	}

	add(single)
	for _, u := range many {
		add(u)
	}
	return logins
}

func isHandled(name string) bool {
	return name == NameIssues || name == NamePullRequest
}

func unsupported(name, action string) *IssueEvent {
	return &IssueEvent{Kind: Unsupported, Name: name, Action: action}
}
