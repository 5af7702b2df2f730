// Package slack delivers daily report messages over the team's chat
// workspace.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"
)

const defaultAPIURL = "https://slack.com/api"

// Client posts messages via the chat API.
type Client struct {
	apiURL     string
	token      string
	recipients []string
	http       *http.Client
	log        *logger.Logger
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Mrkdwn  bool   `json:"mrkdwn"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// NewClient creates a chat client. Returns nil when the channel is not
// configured; callers treat a nil client as a no-op sender.
func NewClient(cfg config.SlackConfig, log *logger.Logger) *Client {
	if !cfg.IsSlackEnabled() {
		return nil
	}

	return &Client{
		apiURL:     defaultAPIURL,
		token:      cfg.GetSlackBotToken(),
		recipients: cfg.GetSlackRecipients(),
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// PostMessage sends one mrkdwn message to a channel or user.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if c == nil {
		return nil
	}

	payload := postMessageRequest{
		Channel: channel,
		Text:    text,
		Mrkdwn:  true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat.postMessage", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("chat service rejected message: %s", parsed.Error)
	}

	return nil
}

// Broadcast sends the same messages to every configured recipient. A failed
// recipient is logged and skipped; the first error is returned after all
// recipients were attempted.
func (c *Client) Broadcast(ctx context.Context, messages []string) error {
	if c == nil {
		return nil
	}

	var firstErr error
	for _, recipient := range c.recipients {
		for _, msg := range messages {
			if err := c.PostMessage(ctx, recipient, msg); err != nil {
				c.log.CollaboratorError("slack", "post_message", err)
				if firstErr == nil {
					firstErr = err
				}
				break
			}
		}
	}

	return firstErr
}
