// Package tracker provides read-only access to the issue tracker.
package tracker

import (
	"context"
	"fmt"

	jira "github.com/andygrunwald/go-jira"
)

// Client reads ticket metadata from the tracker. Reads are
// unauthenticated; the bot never writes to the tracker.
type Client struct {
	jira *jira.Client
}

// New creates a tracker client for the given base URL.
func New(baseURL string) (*Client, error) {
	client, err := jira.NewClient(nil, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker client: %w", err)
	}
	return &Client{jira: client}, nil
}

// TicketComponents returns the component names attached to a ticket.
// Only the components field is requested.
func (c *Client) TicketComponents(ctx context.Context, key string) ([]string, error) {
	issue, _, err := c.jira.Issue.GetWithContext(ctx, key, &jira.GetQueryOptions{
		Fields: "components",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %s: %w", key, err)
	}
	if issue.Fields == nil {
		return nil, nil
	}

	var names []string
	for _, component := range issue.Fields.Components {
		names = append(names, component.Name)
	}
	return names, nil
}
