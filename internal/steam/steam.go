// Package steam samples account presence from the Steam Web API.
//
// [Client.Fetch] calls ISteamUser/GetPlayerSummaries for a list of SteamID64
// values and returns one [presence.State] per account that resolved.
// Accounts that are deleted, private or otherwise missing from the response
// are left out of the result rather than reported as offline.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"tools.zach/dev/presencecord/internal/presence"
)

// DefaultBaseURL is the public Steam Web API endpoint.
const DefaultBaseURL = "https://api.steampowered.com"

// MaxIDsPerRequest is the GetPlayerSummaries limit on steamids per call.
const MaxIDsPerRequest = 100

// maxResponseBytes caps a single response body.
const maxResponseBytes = 4 << 20

// ErrNoAPIKey is returned by [Client.Fetch] when no API key is configured.
var ErrNoAPIKey = errors.New("steam: no API key configured")

// ///////////////////////////////////////////////
// Client
// ///////////////////////////////////////////////

// Options configures a [Client].
type Options struct {
	// BaseURL overrides [DefaultBaseURL]. Used by tests.
	BaseURL string
	// Timeout bounds one whole Fetch, retries included.
	Timeout time.Duration
	// RetryMax is the number of retries per request on 429/5xx.
	RetryMax int
}

// Client fetches player summaries. It holds no per-account state.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	timeout time.Duration
}

// NewClient creates a Client. An empty BaseURL means the public API and a
// zero Timeout means 15 seconds.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = opts.RetryMax
	hc.RetryWaitMin = 500 * time.Millisecond
	hc.RetryWaitMax = 5 * time.Second
	hc.HTTPClient.Timeout = opts.Timeout
	hc.Logger = nil

	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
	}
}

// ///////////////////////////////////////////////
// Fetch
// ///////////////////////////////////////////////

// Fetch returns the current state of every id that resolved. Ids are sent in
// batches of [MaxIDsPerRequest]. Any failed batch fails the whole fetch so
// the caller never mistakes a transport error for accounts disappearing.
func (c *Client) Fetch(ctx context.Context, apiKey string, ids []uint64) (presence.Snapshot, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	out := presence.Snapshot{}
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for start := 0; start < len(ids); start += MaxIDsPerRequest {
		end := min(start+MaxIDsPerRequest, len(ids))
		players, err := c.fetchBatch(ctx, apiKey, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			id, err := strconv.ParseUint(p.SteamID, 10, 64)
			if err != nil {
				slog.Debug("skipping player with malformed steamid", "steamid", p.SteamID)
				continue
			}
			out[id] = p.state()
		}
	}
	return out, nil
}

// summariesResponse is the GetPlayerSummaries v2 envelope.
type summariesResponse struct {
	Response struct {
		Players []player `json:"players"`
	} `json:"response"`
}

// player holds the summary fields the tracker uses.
type player struct {
	SteamID       string `json:"steamid"`
	PersonaName   string `json:"personaname"`
	PersonaState  int    `json:"personastate"`
	GameExtraInfo string `json:"gameextrainfo"`
}

func (p player) state() presence.State {
	return presence.State{
		ProfileName: p.PersonaName,
		Activity:    p.GameExtraInfo,
		Status:      presence.StatusFromPersonaState(p.PersonaState),
	}
}

// fetchBatch performs one GetPlayerSummaries call.
func (c *Client) fetchBatch(ctx context.Context, apiKey string, ids []uint64) ([]player, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatUint(id, 10)
	}
	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("steamids", strings.Join(strIDs, ","))
	endpoint := c.baseURL + "/ISteamUser/GetPlayerSummaries/v0002/?" + q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build summaries request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The request URL carries the key; keep it out of logs.
		return nil, fmt.Errorf("get player summaries: %s", redact(err.Error(), apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get player summaries: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading summaries response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("summaries response exceeds %d bytes", maxResponseBytes)
	}

	var sr summariesResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing summaries response: %w", err)
	}
	return sr.Response.Players, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, secret, "REDACTED")
	return strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
}
