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

const searchPath = "/1.1/search/tweets.json"

type searchResponse struct {
	Statuses []types.Tweet `json:"statuses"`
}

// Search runs one standard search request and returns the first page of
// statuses. It does not retry.
func (c *Client) Search(ctx context.Context, sr types.SearchRequest) ([]types.Tweet, error) {
	if err := sr.Validate(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, searchPath+"?"+searchParams(sr).Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := httputil.GetJSON(c.http, req, &resp); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", sr.Term, toAPIError(err))
	}
	return resp.Statuses, nil
}

// searchParams encodes sr, applying the default result type and count.
func searchParams(sr types.SearchRequest) url.Values {
	resultType := sr.ResultType
	if resultType == "" {
		resultType = types.ResultRecent
	}
	count := sr.Count
	if count == 0 {
		count = types.DefaultCount
	}

	params := url.Values{
		"q":                {sr.Term},
		"result_type":      {string(resultType)},
		"count":            {strconv.Itoa(count)},
		"include_entities": {strconv.FormatBool(sr.IncludeEntities)},
		"tweet_mode":       {"extended"},
	}
	if since := sr.SinceDateString(); since != "" {
		params.Set("since", since)
	}
	if sr.SinceID > 0 {
		params.Set("since_id", strconv.FormatInt(sr.SinceID, 10))
	}
	return params
}
