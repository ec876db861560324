// Package spotify implements the metadata enrichment port against the
// Spotify Web API, with an explicit demo mode that serves canned data when
// no credentials are configured. The mode is decided once at construction
// and injected, never read from global state.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Config selects the client mode and endpoints. Enabled=false puts the
// client in demo mode regardless of credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Enabled      bool
	MaxRetries   int
	BaseBackoff  time.Duration
}

// Client is the MetadataProvider adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	enabled     bool
	maxRetries  int
	baseBackoff time.Duration
}

var _ ports.MetadataProvider = (*Client)(nil)

// NewClient constructs a Client. In live mode requests carry a
// client-credentials bearer token refreshed automatically by the oauth2
// transport.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     baseURL,
		enabled:     cfg.Enabled,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.baseBackoff <= 0 {
		c.baseBackoff = defaultBackoff
	}

	if cfg.Enabled {
		tokenURL := cfg.TokenURL
		if tokenURL == "" {
			tokenURL = defaultTokenURL
		}
		creds := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
		c.httpClient = creds.Client(context.Background())
		c.httpClient.Timeout = 15 * time.Second
	}

	return c
}

// Enabled reports whether the client talks to the live API.
func (c *Client) Enabled() bool {
	return c.enabled
}

// TrackInfo fetches extended display metadata for one track. Demo mode
// serves the canned catalog instead.
func (c *Client) TrackInfo(ctx context.Context, trackID string) (domain.TrackInfo, error) {
	if !c.enabled {
		return demoTrackInfo(trackID), nil
	}

	var tr spotifyTrack
	if err := c.getJSON(ctx, fmt.Sprintf("%s/tracks/%s", c.baseURL, url.PathEscape(trackID)), &tr); err != nil {
		return domain.TrackInfo{}, err
	}

	info := tr.toDomain()

	// Audio features are fetched separately; losing them is not fatal.
	var features spotifyAudioFeatures
	if err := c.getJSON(ctx, fmt.Sprintf("%s/audio-features/%s", c.baseURL, url.PathEscape(trackID)), &features); err == nil {
		info.Features = features.toDomain()
	}

	return info, nil
}

// Search looks up tracks by free-text query. Demo mode ranks the canned
// catalog by fuzzy similarity instead.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.TrackInfo, error) {
	if limit <= 0 {
		limit = 10
	}
	if !c.enabled {
		return demoSearch(query, limit), nil
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	q := searchURL.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))
	searchURL.RawQuery = q.Encode()

	var body struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := c.getJSON(ctx, searchURL.String(), &body); err != nil {
		return nil, err
	}

	out := make([]domain.TrackInfo, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: build request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify adapter: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("spotify adapter: decode response: %w", err)
	}
	return nil
}
