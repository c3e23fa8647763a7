// Package discord delivers presence notifications to a Discord channel.
//
// [Client] posts a single embed through the Discord REST API using a bot
// token. [Dispatcher] sits in front of it and gives the poll loop a
// non-blocking, order-preserving Deliver call.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"tools.zach/dev/presencecord/internal/presence"
)

// DefaultBaseURL is the versioned Discord REST endpoint.
const DefaultBaseURL = "https://discord.com/api/v10"

// Embed field limits enforced by Discord.
const (
	maxTitleLen       = 256
	maxDescriptionLen = 4096
)

// ///////////////////////////////////////////////
// Sentinel Errors
// ///////////////////////////////////////////////

// ErrNotConfigured is returned when the bot token or channel is missing.
var ErrNotConfigured = errors.New("discord: token or channel not configured")

// ///////////////////////////////////////////////
// Wire Types
// ///////////////////////////////////////////////

// Embed is the subset of a Discord embed object the daemon sends.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color"`
}

// createMessage is the body of POST /channels/{id}/messages.
type createMessage struct {
	Embeds []Embed `json:"embeds"`
}

// apiError is the JSON error body Discord returns on failure.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ///////////////////////////////////////////////
// Client
// ///////////////////////////////////////////////

// Options configures a [Client].
type Options struct {
	// BaseURL overrides [DefaultBaseURL]. Used by tests.
	BaseURL string
	// RetryMax is the number of retries on 429/5xx. Discord's Retry-After
	// header is honored between attempts.
	RetryMax int
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
}

// Client sends embeds to one channel.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	token     string
	channelID string
}

// NewClient creates a Client for the given bot token and channel ID.
func NewClient(token, channelID string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = max(opts.RetryMax, 0)
	hc.HTTPClient.Timeout = opts.Timeout
	hc.Logger = nil

	return &Client{
		http:      hc,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     token,
		channelID: channelID,
	}
}

// Send posts msg as a single embed.
func (c *Client) Send(ctx context.Context, msg presence.Message) error {
	if c.token == "" || c.channelID == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(createMessage{Embeds: []Embed{toEmbed(msg)}})
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	endpoint := c.baseURL + "/channels/" + c.channelID + "/messages"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "DiscordBot (presencecord, 1.0)")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST channel message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var ae apiError
	if json.Unmarshal(raw, &ae) == nil && ae.Message != "" {
		return fmt.Errorf("POST channel message: status %d: %s (code %d)", resp.StatusCode, ae.Message, ae.Code)
	}
	return fmt.Errorf("POST channel message: status %d", resp.StatusCode)
}

// toEmbed converts a rendered message, truncating fields to Discord's limits.
func toEmbed(msg presence.Message) Embed {
	return Embed{
		Title:       truncate(msg.Title, maxTitleLen),
		Description: truncate(msg.Body, maxDescriptionLen),
		Color:       msg.Color,
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
