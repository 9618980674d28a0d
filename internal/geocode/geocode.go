// Package geocode resolves free-text addresses to coordinates through a
// Nominatim-compatible search endpoint. Lookups are strictly best-effort:
// any failure yields (0, 0) so that review creation never depends on the
// geocoding service being up.
package geocode

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Client performs address lookups against a search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a geocoding client. baseURL may be empty to use the
// public Nominatim endpoint. userAgent identifies this deployment to the
// service, which Nominatim's usage policy requires.
func NewClient(baseURL, userAgent string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// searchResult is the subset of a Nominatim result we consume. Coordinates
// arrive as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup resolves an address to (latitude, longitude). A single request is
// issued, no retries. Network errors, non-2xx responses, empty result sets
// and malformed payloads all fall back to (0, 0).
func (c *Client) Lookup(ctx context.Context, address string) (float64, float64) {
	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("geocode: lookup failed for %q: %v", address, err)
		return 0, 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("geocode: lookup for %q returned status %d", address, resp.StatusCode)
		return 0, 0
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("geocode: malformed response for %q: %v", address, err)
		return 0, 0
	}
	if len(results) == 0 {
		return 0, 0
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0
	}

	return lat, lon
}
