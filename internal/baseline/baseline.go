// Package baseline adapts the external vehicle appraisal catalog into the
// engine's BaselineProvider contract. Two single-attempt calls per fetch:
// resolve a style identifier for make/model/year, then pull the appraisal
// figures for that style at the given mileage and ZIP. Any transport or
// non-2xx failure aborts the enclosing request; there is no retry and no
// silent fallback to an un-anchored estimate.
package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/carlycompare/carlycompare/internal/engine"
	"github.com/rs/zerolog/log"
)

const (
	defaultStylesURL    = "https://www.edmunds.com/api/vehicle/v3/styles"
	defaultAppraisalURL = "https://www.edmunds.com/api/vehicle-appraisal/v1/values"

	source = "edmunds"
)

// Client implements engine.BaselineProvider against the appraisal service.
type Client struct {
	stylesURL    string
	appraisalURL string
	client       *http.Client
}

// NewClient creates a client. Empty URLs select the public endpoints; timeout
// bounds each of the two calls independently.
func NewClient(stylesURL, appraisalURL string, timeout time.Duration) *Client {
	if stylesURL == "" {
		stylesURL = defaultStylesURL
	}
	if appraisalURL == "" {
		appraisalURL = defaultAppraisalURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		stylesURL:    stylesURL,
		appraisalURL: appraisalURL,
		client:       &http.Client{Timeout: timeout},
	}
}

type stylesResponse struct {
	Styles []struct {
		ID int64 `json:"id"`
	} `json:"styles"`
}

type appraisalResponse struct {
	TradeIn struct {
		Base     float64 `json:"base"`
		Adjusted float64 `json:"adjusted"`
	} `json:"tradeIn"`
	DealerRetail struct {
		Adjusted float64 `json:"adjusted"`
	} `json:"dealerRetail"`
	PrivateParty struct {
		Adjusted float64 `json:"adjusted"`
	} `json:"privateParty"`
}

// ResolveStyle looks up the catalog style for make/model/year. Zero matches
// is style_not_found; anything else that goes wrong is baseline_unavailable.
func (c *Client) ResolveStyle(ctx context.Context, make, model, year string) (string, error) {
	params := url.Values{}
	params.Set("make", make)
	params.Set("model", model)
	params.Set("year", year)

	var resp stylesResponse
	if err := c.getJSON(ctx, c.stylesURL, params, &resp); err != nil {
		return "", err
	}
	if len(resp.Styles) == 0 {
		return "", &engine.Error{
			Kind:    engine.KindStyleNotFound,
			Message: "no catalog style found for this vehicle",
			Detail:  fmt.Sprintf("%s %s %s", year, make, model),
		}
	}
	// The catalog returns candidates in relevance order; take the first.
	return strconv.FormatInt(resp.Styles[0].ID, 10), nil
}

// Fetch resolves the style and pulls the adjusted appraisal figures.
func (c *Client) Fetch(ctx context.Context, q engine.BaselineQuery) (*engine.Baseline, error) {
	styleID, err := c.ResolveStyle(ctx, q.Make, q.Model, q.Year)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("styleId", styleID)
	params.Set("mileage", strconv.Itoa(q.Mileage))
	params.Set("zip", q.ZIP)

	var resp appraisalResponse
	if err := c.getJSON(ctx, c.appraisalURL, params, &resp); err != nil {
		return nil, err
	}

	log.Debug().
		Str("style_id", styleID).
		Float64("adjusted_trade_in", resp.TradeIn.Adjusted).
		Msg("Baseline fetched")

	return &engine.Baseline{
		StyleID:         styleID,
		TradeInBase:     resp.TradeIn.Base,
		TradeInAdjusted: resp.TradeIn.Adjusted,
		DealerRetail:    resp.DealerRetail.Adjusted,
		PrivateParty:    resp.PrivateParty.Adjusted,
		Source:          source,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, base string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return &engine.Error{Kind: engine.KindBaselineUnavailable, Message: "baseline service is unavailable", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &engine.Error{Kind: engine.KindBaselineUnavailable, Message: "baseline service is unavailable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &engine.Error{
			Kind:    engine.KindBaselineUnavailable,
			Message: "baseline service is unavailable",
			Detail:  fmt.Sprintf("status %d from %s", resp.StatusCode, base),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &engine.Error{Kind: engine.KindBaselineUnavailable, Message: "baseline service returned an unreadable reply", Err: err}
	}
	return nil
}
