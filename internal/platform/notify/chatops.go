// Package notify carries operator-facing side channels: fire-and-forget
// chat-ops messages and periodic metrics snapshots pushed to a webhook.
// Neither channel ever surfaces a failure to the request that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ChatOps posts short operator messages to a chat webhook (Slack-compatible
// `{"text": ...}` payload). A ChatOps with an empty URL is a no-op, so
// callers never need to nil-check.
type ChatOps struct {
	client *resty.Client
	url    string
	logger zerolog.Logger
}

func NewChatOps(webhookURL string, logger zerolog.Logger) *ChatOps {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	return &ChatOps{
		client: client,
		url:    webhookURL,
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *ChatOps) Enabled() bool {
	return c.url != ""
}

// Post sends the message in the background. Delivery failures are logged.
func (c *ChatOps) Post(text string) {
	if !c.Enabled() {
		return
	}
	go c.post(text)
}

// PostSync sends the message on the calling goroutine. Used by tests and by
// shutdown paths that need delivery before exit.
func (c *ChatOps) PostSync(ctx context.Context, text string) {
	if !c.Enabled() {
		return
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		Post(c.url)
	if err != nil {
		c.logger.Warn().Err(err).Msg("chat-ops post failed")
		return
	}
	if resp.IsError() {
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Msg("chat-ops webhook rejected message")
	}
}

func (c *ChatOps) post(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	c.PostSync(ctx, text)
}
