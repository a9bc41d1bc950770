// Package github wraps the GitHub REST API behind the hook.CodeHost
// interface used by the rules.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/prwarden/prwarden-bot/internal/core/hook"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// CreateCheck publishes a completed check run on the given commit. The
// host keeps one current check per (name, head SHA), so re-running a
// rule replaces its previous result instead of accumulating.
func (c *Client) CreateCheck(ctx context.Context, owner, repo string, check hook.CheckResult) error {
	if check.Name == "" || check.HeadSHA == "" {
		return fmt.Errorf("check name and head SHA are required")
	}

	opts := github.CreateCheckRunOptions{
		Name:       check.Name,
		HeadSHA:    check.HeadSHA,
		Status:     github.String("completed"),
		Conclusion: github.String(string(check.Conclusion)),
		Output: &github.CheckRunOutput{
			Title:   github.String(check.Name),
			Summary: github.String(check.Summary),
		},
	}
	_, _, err := c.client.Checks.CreateCheckRun(ctx, owner, repo, opts)
	if err != nil {
		return fmt.Errorf("failed to create check run: %w", err)
	}
	return nil
}

// CreateComment posts a comment on a pull request.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, _, err := c.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListCommentBodies returns the bodies of all comments on a pull request.
func (c *Client) ListCommentBodies(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var bodies []string
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		for _, comment := range comments {
			bodies = append(bodies, comment.GetBody())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return bodies, nil
}

// AddAssignees adds assignees to a pull request. The host silently
// skips identifiers that cannot be assigned, and caps assignees at 10.
func (c *Client) AddAssignees(ctx context.Context, owner, repo string, number int, assignees []string) error {
	if len(assignees) == 0 {
		return fmt.Errorf("assignees cannot be empty")
	}

	_, _, err := c.client.Issues.AddAssignees(ctx, owner, repo, number, assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// OrgMembership queries whether a user is a member of an organization.
// 204 is an authoritative yes, 404 an authoritative no; every other
// response maps to MembershipUnknown together with the error.
func (c *Client) OrgMembership(ctx context.Context, org, user string) (hook.Membership, error) {
	member, _, err := c.client.Organizations.IsMember(ctx, org, user)
	if err != nil {
		return hook.MembershipUnknown, fmt.Errorf("failed to query membership of %q in %q: %w", user, org, err)
	}
	if member {
		return hook.MembershipMember, nil
	}
	return hook.MembershipAbsent, nil
}

// FileContent fetches a file from the repository at the given ref.
func (c *Client) FileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s@%s: %w", path, ref, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s@%s is not a file", path, ref)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s@%s: %w", path, ref, err)
	}
	return []byte(content), nil
}
