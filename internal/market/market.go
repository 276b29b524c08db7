// Package market averages live used-listing prices around the vehicle's ZIP
// as a sanity reference alongside the generative estimate. Not part of the
// quote pipeline; exposed as its own endpoint.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultSearchURL = "https://api.marketcheck.com/v2/search/car/active"

// ErrNoListings means the search succeeded but returned no priced listings.
var ErrNoListings = errors.New("market: no priced listings found")

// Query identifies the vehicle and search window.
type Query struct {
	Make    string
	Model   string
	Year    int
	Trim    string
	Mileage int
	ZIP     string
}

// Value is the aggregated market view.
type Value struct {
	AveragePrice int   `json:"average_price"`
	SampleCount  int   `json:"sample_count"`
	PriceSamples []int `json:"price_samples"`
}

// Client queries the listing search service.
type Client struct {
	searchURL string
	apiKey    string
	radius    int
	rows      int
	client    *http.Client
}

// NewClient creates a client. radius is in miles; rows caps returned
// listings. Zero values select the defaults (100 miles, 50 rows).
func NewClient(searchURL, apiKey string, radius, rows int, timeout time.Duration) *Client {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	if radius <= 0 {
		radius = 100
	}
	if rows <= 0 {
		rows = 50
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		searchURL: searchURL,
		apiKey:    apiKey,
		radius:    radius,
		rows:      rows,
		client:    &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Listings []struct {
		Price int `json:"price"`
	} `json:"listings"`
}

// Average searches active used listings of the same year within ±10k miles of
// the vehicle's mileage and averages the non-null prices.
func (c *Client) Average(ctx context.Context, q Query) (*Value, error) {
	lowMiles := q.Mileage - 10000
	if lowMiles < 0 {
		lowMiles = 0
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("make", q.Make)
	params.Set("model", q.Model)
	params.Set("trim", q.Trim)
	params.Set("year", strconv.Itoa(q.Year))
	params.Set("start_year", strconv.Itoa(q.Year))
	params.Set("end_year", strconv.Itoa(q.Year))
	params.Set("car_type", "used")
	params.Set("miles_range", fmt.Sprintf("%d-%d", lowMiles, q.Mileage+10000))
	params.Set("zip", q.ZIP)
	params.Set("radius", strconv.Itoa(c.radius))
	params.Set("rows", strconv.Itoa(c.rows))
	params.Set("sort_by", "price")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("market: create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("market: status %d: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("market: decode response: %w", err)
	}

	var prices []int
	sum := 0
	for _, l := range sr.Listings {
		if l.Price > 0 {
			prices = append(prices, l.Price)
			sum += l.Price
		}
	}
	if len(prices) == 0 {
		return nil, ErrNoListings
	}

	return &Value{
		AveragePrice: int(float64(sum)/float64(len(prices)) + 0.5),
		SampleCount:  len(prices),
		PriceSamples: prices,
	}, nil
}
