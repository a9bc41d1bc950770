// Package notify delivers messages to the chat notification webhooks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client posts formatted messages to one of two webhook URLs: the
// team-visible channel and the operator/debug channel. An empty URL
// downgrades that channel to log output.
type Client struct {
	teamURL    string
	debugURL   string
	httpClient *http.Client
}

// New creates a notification client for the two channel URLs.
func New(teamURL, debugURL string) *Client {
	return &Client{
		teamURL:  teamURL,
		debugURL: debugURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Team posts to the team-visible channel.
func (c *Client) Team(ctx context.Context, text string) error {
	return c.post(ctx, "team", c.teamURL, text)
}

// Debug posts to the operator channel used for warnings and faults.
func (c *Client) Debug(ctx context.Context, text string) error {
	return c.post(ctx, "debug", c.debugURL, text)
}

func (c *Client) post(ctx context.Context, channel, url, text string) error {
	if url == "" {
		log.Printf("[notify] No %s webhook configured, message: %s", channel, text)
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to marshal %s notification: %w", channel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s notification request: %w", channel, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver %s notification: %w", channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s notification rejected: %d - %s", channel, resp.StatusCode, string(body))
	}

	return nil
}
