package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local test server.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base

	return &Client{
		client: gh,
		retry:  RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}
}

func TestAddAssigneesValidation(t *testing.T) {
	// Test that AddAssignees rejects empty input before touching the API
	client := &Client{client: nil} // nil client for validation testing

	err := client.AddAssignees(context.Background(), "org", "repo", 1, nil)
	if err == nil {
		t.Error("Expected error for nil assignees")
	}

	err = client.AddAssignees(context.Background(), "org", "repo", 1, []string{})
	if err == nil {
		t.Error("Expected error for empty assignees")
	}

	err = client.AddAssignees(context.Background(), "org", "repo", 0, []string{"alice"})
	if err == nil {
		t.Error("Expected error for zero issue number")
	}
}

func TestListTeamMembersValidation(t *testing.T) {
	client := &Client{client: nil}

	tests := []struct {
		name string
		org  string
		slug string
	}{
		{"empty org", "", "slug"},
		{"empty slug", "org", ""},
		{"blank both", " ", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.ListTeamMembers(context.Background(), tt.org, tt.slug); err == nil {
				t.Errorf("Expected error for org=%q slug=%q", tt.org, tt.slug)
			}
		})
	}
}

func TestListTeamMembersPaginates(t *testing.T) {
	mux := http.NewServeMux()
	var serverURL string
	mux.HandleFunc("/orgs/acme/teams/oncall/members", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%sorgs/acme/teams/oncall/members?per_page=100&page=2>; rel="next"`, serverURL))
			fmt.Fprint(w, `[{"login":"alice"},{"login":"bob"}]`)
		case "2":
			fmt.Fprint(w, `[{"login":"carol"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	client := newTestClient(t, mux)
	serverURL = client.client.BaseURL.String()

	members, err := client.ListTeamMembers(context.Background(), "acme", "oncall")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, members)
}

func TestListTeamMembersEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/teams/empty/members", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	members, err := newTestClient(t, mux).ListTeamMembers(context.Background(), "acme", "empty")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestListTeamMembersRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/teams/oncall/members", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"message":"Bad Gateway"}`)
			return
		}
		fmt.Fprint(w, `[{"login":"alice"}]`)
	})

	members, err := newTestClient(t, mux).ListTeamMembers(context.Background(), "acme", "oncall")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, members)
	assert.Equal(t, int32(2), calls.Load())
}

func TestListTeamMembersNotFound(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/teams/ghost/members", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	_, err := newTestClient(t, mux).ListTeamMembers(context.Background(), "acme", "ghost")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "404 is not retried")
}

func TestAddAssignees(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues/42/assignees", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Assignees []string `json:"assignees"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"alice"}, body.Assignees)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number":42,"assignees":[{"login":"alice"}]}`)
	})

	err := newTestClient(t, mux).AddAssignees(context.Background(), "acme", "widgets", 42, []string{"alice"})
	assert.NoError(t, err)
}

func TestAddAssigneesFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues/42/assignees", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
	})

	err := newTestClient(t, mux).AddAssignees(context.Background(), "acme", "widgets", 42, []string{"alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add assignees")
}

func TestGetFileContent(t *testing.T) {
	content := "match: \"^Bug:\"\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/.github/contents/.github/auto-assign.yaml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","content":%q}`,
			base64.StdEncoding.EncodeToString([]byte(content)))
	})

	data, err := newTestClient(t, mux).GetFileContent(context.Background(), "acme", ".github", ".github/auto-assign.yaml", "main")
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	_, err = (&Client{}).GetFileContent(context.Background(), "acme", ".github", "", "main")
	assert.Error(t, err)
}
