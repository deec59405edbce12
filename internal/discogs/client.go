package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.discogs.com"

// rateLimitHeader is Discogs' per-window remaining call count.
const rateLimitHeader = "X-Discogs-Ratelimit-Remaining"

// collectionFolder 1 is the "Uncategorized" folder every account has.
const collectionFolder = 1

type Client struct {
	token     string
	userAgent string
	baseURL   string
	client    *http.Client

	apiCallCount int64
	apiCallMutex sync.Mutex

	// Rate limit state, updated from response headers.
	rateLimitThreshold int
	rateLimitPause     time.Duration
	remainingCalls     int
	remainingMutex     sync.Mutex
}

// Release is a catalog entry returned by the search API.
type Release struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Year    string `json:"year"`
	Country string `json:"country"`
	Type    string `json:"type"`
}

type searchResponse struct {
	Results []Release `json:"results"`
}

type identityResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func NewClient(token, username string, rateLimitThreshold int, rateLimitPause time.Duration) *Client {
	return &Client{
		token:     token,
		userAgent: fmt.Sprintf("%s/discogs_import", username),
		baseURL:   defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimitThreshold: rateLimitThreshold,
		rateLimitPause:     rateLimitPause,
		remainingCalls:     -1,
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// SearchRelease looks up a release by artist, title and optional year and
// returns the first candidate. The Discogs search is relevance-ordered, so
// the first result is taken as the match.
func (c *Client) SearchRelease(ctx context.Context, artist, title string, year int) (*Release, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("artist", artist)
	params.Set("release_title", title)
	params.Set("type", "release")
	params.Set("country", "US")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	searchURL := fmt.Sprintf("%s/database/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.IncrementAPICall()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	c.noteRateLimit(resp)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("no release found for %s - %s", artist, title)
	}

	log.Debug().
		Str("artist", artist).
		Str("title", title).
		Int("candidates", len(result.Results)).
		Int("release_id", result.Results[0].ID).
		Msg("Resolved release")

	return &result.Results[0], nil
}

// AddToCollection adds a release to the user's Uncategorized collection folder.
func (c *Client) AddToCollection(ctx context.Context, username string, releaseID int) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	addURL := fmt.Sprintf("%s/users/%s/collection/folders/%d/releases/%d",
		c.baseURL, url.PathEscape(username), collectionFolder, releaseID)

	req, err := http.NewRequestWithContext(ctx, "POST", addURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.IncrementAPICall()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	c.noteRateLimit(resp)

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("add to collection failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Debug().
		Str("username", username).
		Int("release_id", releaseID).
		Msg("Added release to collection")

	return nil
}

// Identity verifies the access token and returns the authenticated username.
func (c *Client) Identity(ctx context.Context) (string, error) {
	identityURL := fmt.Sprintf("%s/oauth/identity", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", identityURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.IncrementAPICall()

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	c.noteRateLimit(resp)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("identity request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var identity identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return identity.Username, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Discogs token=%s", c.token))
	req.Header.Set("User-Agent", c.userAgent)
}

// noteRateLimit records the remaining call budget from a response.
func (c *Client) noteRateLimit(resp *http.Response) {
	raw := resp.Header.Get(rateLimitHeader)
	if raw == "" {
		return
	}
	remaining, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	c.remainingMutex.Lock()
	c.remainingCalls = remaining
	c.remainingMutex.Unlock()
}

// waitForRateLimit pauses before the next call when the remaining budget
// reported by Discogs has dropped below the configured threshold.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	c.remainingMutex.Lock()
	remaining := c.remainingCalls
	if remaining >= 0 && remaining < c.rateLimitThreshold {
		// Assume the window resets while we sleep.
		c.remainingCalls = -1
	}
	c.remainingMutex.Unlock()

	if remaining < 0 || remaining >= c.rateLimitThreshold {
		return nil
	}

	log.Info().
		Int("remaining_calls", remaining).
		Dur("pause", c.rateLimitPause).
		Msg("Discogs API rate limit reached, pausing")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.rateLimitPause):
		return nil
	}
}
