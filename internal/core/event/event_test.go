package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issueOpenedPayload = `{
  "action": "opened",
  "issue": {
    "number": 12,
    "title": "Bug: crash on start",
    "assignee": null,
    "assignees": []
  },
  "repository": {"name": "widgets", "owner": {"login": "acme"}},
  "sender": {"login": "reporter"}
}`

const pullRequestOpenedPayload = `{
  "action": "opened",
  "number": 7,
  "pull_request": {
    "number": 7,
    "title": "WIP: refactor",
    "assignee": {"login": "carol"},
    "assignees": [{"login": "carol"}, {"login": "dave"}]
  },
  "repository": {"name": "widgets", "owner": {"login": "acme"}}
}`

func TestParseIssueOpened(t *testing.T) {
	ev, err := Parse(NameIssues, []byte(issueOpenedPayload))
	require.NoError(t, err)

	assert.Equal(t, IssueOpened, ev.Kind)
	assert.Equal(t, "Bug: crash on start", ev.Title)
	assert.Equal(t, 12, ev.Number)
	assert.Equal(t, "acme", ev.Owner)
	assert.Equal(t, "widgets", ev.Repo)
	assert.Equal(t, "reporter", ev.Sender)
	assert.False(t, ev.Assigned())
	assert.Equal(t, "acme/widgets#12", ev.Item())
	assert.False(t, ev.Kind.IsPullRequest())
}

func TestParsePullRequestOpened(t *testing.T) {
	ev, err := Parse(NamePullRequest, []byte(pullRequestOpenedPayload))
	require.NoError(t, err)

	assert.Equal(t, PullRequestOpened, ev.Kind)
	assert.True(t, ev.Kind.IsPullRequest())
	assert.Equal(t, 7, ev.Number)
	assert.Equal(t, []string{"carol", "dave"}, ev.Assignees, "assignee and assignees are merged without duplicates")
	assert.True(t, ev.Assigned())
}

func TestParseActions(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		payload  string
		wantKind Kind
	}{
		{
			name:     "issue edited",
			event:    NameIssues,
			payload:  `{"action":"edited","issue":{"number":1,"title":"t"},"repository":{"name":"r","owner":{"login":"o"}}}`,
			wantKind: IssueEdited,
		},
		{
			name:     "issue reopened",
			event:    NameIssues,
			payload:  `{"action":"reopened","issue":{"number":1,"title":"t"},"repository":{"name":"r","owner":{"login":"o"}}}`,
			wantKind: IssueOpened,
		},
		{
			name:     "issue closed",
			event:    NameIssues,
			payload:  `{"action":"closed","issue":{"number":1,"title":"t"}}`,
			wantKind: Unsupported,
		},
		{
			name:     "pull request edited",
			event:    NamePullRequest,
			payload:  `{"action":"edited","pull_request":{"number":3,"title":"t"},"repository":{"name":"r","owner":{"login":"o"}}}`,
			wantKind: PullRequestEdited,
		},
		{
			name:     "pull request ready for review",
			event:    NamePullRequest,
			payload:  `{"action":"ready_for_review","number":3,"pull_request":{"title":"t"},"repository":{"name":"r","owner":{"login":"o"}}}`,
			wantKind: PullRequestOpened,
		},
		{
			name:     "pull request synchronize",
			event:    NamePullRequest,
			payload:  `{"action":"synchronize","pull_request":{"number":3}}`,
			wantKind: Unsupported,
		},
		{
			name:     "push event",
			event:    "push",
			payload:  `{"ref":"refs/heads/main"}`,
			wantKind: Unsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Parse(tt.event, []byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, ev.Kind, "kind %s", ev.Kind)
			assert.Equal(t, tt.event, ev.Name)
		})
	}
}

func TestParseInvalidPayload(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		payload string
		wantMsg string
	}{
		{
			name:    "malformed json",
			event:   NameIssues,
			payload: `{"action":`,
		},
		{
			name:    "missing issue",
			event:   NameIssues,
			payload: `{"action":"opened","repository":{"name":"r","owner":{"login":"o"}}}`,
			wantMsg: "issue not present",
		},
		{
			name:    "missing repository",
			event:   NameIssues,
			payload: `{"action":"opened","issue":{"number":1,"title":"t"}}`,
			wantMsg: "repository owner",
		},
		{
			name:    "missing repository name",
			event:   NamePullRequest,
			payload: `{"action":"opened","pull_request":{"number":1},"repository":{"owner":{"login":"o"}}}`,
			wantMsg: "repository name",
		},
		{
			name:    "missing number",
			event:   NamePullRequest,
			payload: `{"action":"opened","pull_request":{"title":"t"},"repository":{"name":"r","owner":{"login":"o"}}}`,
			wantMsg: "number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.event, []byte(tt.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPayload)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(issueOpenedPayload), 0o600))

	ev, err := Load(NameIssues, path)
	require.NoError(t, err)
	assert.Equal(t, IssueOpened, ev.Kind)

	ev, err = Load("workflow_dispatch", "")
	require.NoError(t, err)
	assert.Equal(t, Unsupported, ev.Kind)

	_, err = Load(NameIssues, "")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = Load(NameIssues, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&IssueEvent{Kind: Unsupported}).Validate())
	assert.NoError(t, (&IssueEvent{Kind: IssueOpened, Owner: "o", Repo: "r", Number: 1}).Validate())
	assert.ErrorIs(t, (&IssueEvent{Kind: IssueOpened, Owner: "o", Repo: "r"}).Validate(), ErrInvalidPayload)
}
