// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/httputil"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/retry"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

// codeRateLimitExceeded is the v1.1 error code for an exhausted window.
const codeRateLimitExceeded = 88

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       int
	Message    string

	// RetryAfter is the server-advised wait, zero when not provided.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("twitter API error %d (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("twitter API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// RetryHint returns the server-advised wait, zero when none was sent.
func (e *APIError) RetryHint() time.Duration { return e.RetryAfter }

// RateLimited reports whether the error signals an exhausted rate window.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == codeRateLimitExceeded
}

type errorDocument struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// toAPIError converts an httputil.StatusError into an *APIError; other
// errors pass through.
func toAPIError(err error) error {
	var se *httputil.StatusError
	if !errors.As(err, &se) {
		return err
	}

	apiErr := &APIError{
		StatusCode: se.StatusCode,
		Message:    http.StatusText(se.StatusCode),
	}
	var doc errorDocument
	if json.Unmarshal(se.Body, &doc) == nil && len(doc.Errors) > 0 {
		apiErr.Code = doc.Errors[0].Code
		apiErr.Message = doc.Errors[0].Message
	}
	if d, ok := se.RetryAfter(time.Now()); ok {
		apiErr.RetryAfter = d
	}
	return apiErr
}

// Classify sorts search errors for the retry loop: rate limits and server
// errors are retried, other client errors and invalid requests are not,
// and anything else (network failures, decode errors) is treated as
// transient. A rejected token exchange is classified by its HTTP status
// like any API response.
func Classify(err error) retry.Class {
	if errors.Is(err, types.ErrInvalidSinceID) {
		return retry.Permanent
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.RateLimited() {
			return retry.RateLimited
		}
		return classifyStatus(apiErr.StatusCode)
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) && tokenErr.Response != nil {
		return classifyStatus(tokenErr.Response.StatusCode)
	}
	return retry.Transient
}

func classifyStatus(status int) retry.Class {
	switch {
	case status == http.StatusTooManyRequests:
		return retry.RateLimited
	case status >= 500, status == http.StatusRequestTimeout:
		return retry.Transient
	default:
		return retry.Permanent
	}
}
