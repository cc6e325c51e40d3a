// Package github wraps the GitHub REST calls auto-assign needs.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

// membersPerPage is the maximum page size the teams API accepts.
const membersPerPage = 100

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
	retry  RetryConfig
}

// WithRetry overrides the backoff used for read calls.
func (c *Client) WithRetry(cfg RetryConfig) *Client {
	c.retry = cfg
	return c
}

// ListTeamMembers returns the logins of every member of org/slug, in API order.
// All pages are fetched before returning; transient failures are retried.
func (c *Client) ListTeamMembers(ctx context.Context, org, slug string) ([]string, error) {
	if strings.TrimSpace(org) == "" || strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("team org and slug cannot be empty")
	}

	opts := &github.TeamListTeamMembersOptions{
		ListOptions: github.ListOptions{PerPage: membersPerPage},
	}

	var logins []string
	for {
		page, err := withRetry(ctx, c.retry, "list team members", func() (memberPage, error) {
			users, resp, err := c.client.Teams.ListTeamMembersBySlug(ctx, org, slug, opts)
			if err != nil {
				return memberPage{}, err
			}
			return memberPage{users: users, next: resp.NextPage}, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list members of %s/%s: %w", org, slug, err)
		}

		for _, u := range page.users {
			if login := u.GetLogin(); login != "" {
				logins = append(logins, login)
			}
		}

		if page.next == 0 {
			break
		}
		opts.Page = page.next
	}

	return logins, nil
}

type memberPage struct {
	users []*github.User
	next  int
}

// AddAssignees adds users as assignees of an issue or pull request.
// It is a single attempt; callers decide what a failure means.
func (c *Client) AddAssignees(ctx context.Context, owner, repo string, number int, users []string) error {
	if len(users) == 0 {
		return fmt.Errorf("assignees cannot be empty")
	}
	if number <= 0 {
		return fmt.Errorf("invalid issue number: %d", number)
	}

	_, _, err := c.client.Issues.AddAssignees(ctx, owner, repo, number, users)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// GetFileContent fetches the decoded content of a file at ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from %s/%s: %w", path, owner, repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is not a file", path, owner, repo)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}
