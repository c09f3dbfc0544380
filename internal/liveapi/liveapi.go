// Package liveapi wraps the optional dated-fixtures API used to pull
// recently completed results outside the CSV refresh cycle. Its retry
// and timeout shape follows the pack's SportsDataIO client.
package liveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a small authenticated HTTP client for the live fixture API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// New constructs a Client. timeout bounds each individual attempt.
func New(baseURL, apiKey string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fixture is one entry of the dated-fixtures response, trimmed to the
// fields spec §6 says are consumed.
type Fixture struct {
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
	Fixture struct {
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
}

type fixturesResponse struct {
	Response []Fixture `json:"response"`
}

// FixturesForDate fetches the fixtures on date (YYYY-MM-DD), retrying
// up to maxRetries times on transient failure.
func (c *Client) FixturesForDate(ctx context.Context, date string) ([]Fixture, error) {
	url := fmt.Sprintf("%s/fixtures?date=%s", c.baseURL, date)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}

		fixtures, err := c.fetchOnce(ctx, url)
		if err == nil {
			return fixtures, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("date", date).Int("attempt", attempt+1).Msg("liveapi: fetch failed")
	}
	return nil, lastErr
}

// FinishedFixtures filters FixturesForDate's result to fixtures whose
// status is exactly "FT" (full time) — spec §6's only consumed status.
func (c *Client) FinishedFixtures(ctx context.Context, date string) ([]Fixture, error) {
	all, err := c.FixturesForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	var finished []Fixture
	for _, f := range all {
		if f.Fixture.Status.Short == "FT" {
			finished = append(finished, f)
		}
	}
	return finished, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]Fixture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("liveapi: build request: %w", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("liveapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("liveapi: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("liveapi: read body: %w", err)
	}

	var parsed fixturesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("liveapi: decode response: %w", err)
	}
	return parsed.Response, nil
}
