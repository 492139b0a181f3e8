// Package line implements the gateway to the LINE Messaging API: the
// outbound push/reply client, the outbound message variants, the inbound
// webhook payload types, and request signature validation.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ksaito/gomibot/internal/config"
)

const (
	pushPath  = "/v2/bot/message/push"
	replyPath = "/v2/bot/message/reply"

	defaultRequestTimeout = 10 * time.Second
)

// Client defines the outbound operations the bot performs against the
// Messaging API. Push delivers to the configured recipient; Reply
// answers a specific webhook event using its reply token.
type Client interface {
	Push(ctx context.Context, to string, messages ...Message) error
	Reply(ctx context.Context, replyToken string, messages ...Message) error
}

type httpClient struct {
	baseURL     string
	accessToken string
	hc          *http.Client
	log         *slog.Logger
}

// NewClient creates a Messaging API client from the provided
// configuration. The base URL is configurable so tests can point the
// client at a local server.
func NewClient(cfg config.LINEConfig, logger *slog.Logger) (Client, error) {
	if cfg.ChannelAccessToken == "" {
		return nil, fmt.Errorf("line channel access token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &httpClient{
		baseURL:     cfg.APIBaseURL,
		accessToken: cfg.ChannelAccessToken,
		hc:          &http.Client{Timeout: defaultRequestTimeout},
		log:         logger.With("component", "line_client"),
	}, nil
}

// Push sends messages to a user via the push endpoint.
func (c *httpClient) Push(ctx context.Context, to string, messages ...Message) error {
	payload := struct {
		To       string    `json:"to"`
		Messages []Message `json:"messages"`
	}{
		To:       to,
		Messages: messages,
	}

	if err := c.post(ctx, pushPath, payload); err != nil {
		return fmt.Errorf("failed to push message: %w", err)
	}

	c.log.DebugContext(ctx, "Pushed messages", "count", len(messages))
	return nil
}

// Reply answers a webhook event via the reply endpoint. Reply tokens are
// single use, so this is at most once per event.
func (c *httpClient) Reply(ctx context.Context, replyToken string, messages ...Message) error {
	payload := struct {
		ReplyToken string    `json:"replyToken"`
		Messages   []Message `json:"messages"`
	}{
		ReplyToken: replyToken,
		Messages:   messages,
	}

	if err := c.post(ctx, replyPath, payload); err != nil {
		return fmt.Errorf("failed to reply to message: %w", err)
	}

	c.log.DebugContext(ctx, "Replied to event", "count", len(messages))
	return nil
}

// post marshals payload and sends it to the given API path, treating any
// non-2xx response as an error carrying the response body.
func (c *httpClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("messaging API returned status %d for %s: %s", resp.StatusCode, path, respBody)
	}

	return nil
}
