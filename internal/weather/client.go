// Package weather resolves the forecast icon name ("clear-day", "rain", ...)
// for a place and time from a Dark Sky compatible forecast API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chris-regnier/agendactl/internal/log"
)

const (
	// DefaultBaseURL is the forecast endpoint used when none is configured.
	DefaultBaseURL = "https://api.darksky.net/forecast"

	excludeBlocks = "hourly,daily,alerts,flags"
)

// Client fetches forecast icons over HTTP. It performs no retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client for baseURL (DefaultBaseURL when empty).
// A zero timeout leaves the request bounded only by its context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type forecast struct {
	Currently *struct {
		Icon *string `json:"icon"`
	} `json:"currently"`
}

// URL builds the forecast request URL for a coordinate and unix timestamp.
func (c *Client) URL(lat, lon float64, ts int64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", ErrURL)
	}
	raw := fmt.Sprintf("%s/%s/%s,%s,%d?exclude=%s",
		c.baseURL, url.PathEscape(c.apiKey),
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64),
		ts, excludeBlocks)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrURL, c.baseURL)
	}
	return u.String(), nil
}

// FetchIcon returns the icon of the "currently" block of the forecast at
// (lat, lon) for the unix timestamp ts.
func (c *Client) FetchIcon(ctx context.Context, lat, lon float64, ts int64) (string, error) {
	u, err := c.URL(lat, lon, ts)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURL, err)
	}

	log.Debug("weather fetch start", "url", redactURL(u, c.apiKey))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Expected: http.StatusOK, Received: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrResponse, err)
	}
	if len(body) == 0 {
		return "", ErrNilData
	}

	var f forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrongDataFormat, err)
	}
	if f.Currently == nil || f.Currently.Icon == nil {
		return "", ErrWrongDataFormat
	}
	return *f.Currently.Icon, nil
}

// redactURL hides the API key in log output.
func redactURL(u, apiKey string) string {
	if apiKey == "" {
		return u
	}
	return strings.ReplaceAll(u, url.PathEscape(apiKey), "REDACTED")
}
