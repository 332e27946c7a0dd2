// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/httputil"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

const trendsPath = "/1.1/trends/place.json"

type trendsLocation struct {
	Trends []types.Trend `json:"trends"`
}

// Trends returns the trending topics for a WOEID (1 is worldwide).
func (c *Client) Trends(ctx context.Context, woeid int64) ([]types.Trend, error) {
	if woeid <= 0 {
		return nil, fmt.Errorf("invalid WOEID %d", woeid)
	}

	params := url.Values{"id": {strconv.FormatInt(woeid, 10)}}
	req, err := c.newRequest(ctx, trendsPath+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var locations []trendsLocation
	if err := httputil.GetJSON(c.http, req, &locations); err != nil {
		return nil, fmt.Errorf("fetching trends for %d: %w", woeid, toAPIError(err))
	}

	var trends []types.Trend
	for _, loc := range locations {
		trends = append(trends, loc.Trends...)
	}
	return trends, nil
}
