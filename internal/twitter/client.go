// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package twitter is a minimal client for the v1.1 search and trends
// endpoints using app-only authentication.
package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

// apiBase is the Twitter API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.twitter.com"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "twitter-scraper/0.1"
)

// Client calls the Twitter API. Construct it with New.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// New builds a client from cfg. A configured bearer token is used as is;
// otherwise the consumer key and secret are exchanged for an app-only token
// at {base}/oauth2/token on the first request.
func New(ctx context.Context, cfg types.TwitterConfig) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = apiBase
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	// The token exchange and API calls share one base client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})

	var hc *http.Client
	switch {
	case cfg.BearerToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.BearerToken,
			TokenType:   "Bearer",
		})
		hc = oauth2.NewClient(ctx, ts)
	case cfg.ConsumerKey != "" && cfg.ConsumerSecret != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ConsumerKey,
			ClientSecret: cfg.ConsumerSecret,
			TokenURL:     base + "/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		hc = cc.Client(ctx)
	default:
		return nil, fmt.Errorf("twitter credentials missing: set a bearer token or consumer key and secret")
	}
	hc.Timeout = timeout

	return &Client{http: hc, baseURL: base, userAgent: userAgent}, nil
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}
