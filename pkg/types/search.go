// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the twitter-scraper:
// search requests, provider tweets, normalized output records and the
// process configuration.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ResultType is the provider-defined relevance mode of a search.
type ResultType string

const (
	ResultRecent  ResultType = "recent"
	ResultPopular ResultType = "popular"
	ResultMixed   ResultType = "mixed"
)

// Valid reports whether r is a result type the search API accepts.
func (r ResultType) Valid() bool {
	switch r {
	case ResultRecent, ResultPopular, ResultMixed:
		return true
	}
	return false
}

const (
	// DefaultCount is the page size used when a request leaves Count at 0.
	DefaultCount = 100

	// SinceDateLayout is the wire format of the since parameter.
	SinceDateLayout = "2006-01-02"
)

// ErrInvalidSinceID is returned when a checkpoint cannot be coerced to a
// numeric tweet id.
var ErrInvalidSinceID = errors.New("invalid since_id")

// SearchRequest holds the parameters of one search call. A request is never
// modified once built; retries resend the same value.
type SearchRequest struct {
	// Term is the search keyword or hashtag.
	Term string `json:"term" yaml:"term"`

	// ResultType selects recent, popular or mixed results (default recent).
	ResultType ResultType `json:"result_type" yaml:"result_type"`

	// Count is the page size (default 100).
	Count int `json:"count" yaml:"count"`

	// IncludeEntities asks the provider for extended entity metadata.
	IncludeEntities bool `json:"include_entities" yaml:"include_entities"`

	// SinceDate is a lower bound on tweet age. Zero means unbounded.
	SinceDate time.Time `json:"since_date" yaml:"since_date"`

	// SinceID excludes every tweet at or before this id. Zero means no cursor.
	SinceID int64 `json:"since_id" yaml:"since_id"`
}

// NewSearchRequest returns a request for term with the default result type
// and page size.
func NewSearchRequest(term string) SearchRequest {
	return SearchRequest{
		Term:       term,
		ResultType: ResultRecent,
		Count:      DefaultCount,
	}
}

// Validate checks the request before it is sent.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Term) == "" {
		return fmt.Errorf("search term is empty")
	}
	if r.ResultType != "" && !r.ResultType.Valid() {
		return fmt.Errorf("unknown result type %q", r.ResultType)
	}
	if r.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", r.Count)
	}
	if r.SinceID < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSinceID, r.SinceID)
	}
	return nil
}

// SinceDateString formats SinceDate for the wire, or "" when unset.
func (r SearchRequest) SinceDateString() string {
	if r.SinceDate.IsZero() {
		return ""
	}
	return r.SinceDate.Format(SinceDateLayout)
}

// ParseSinceID coerces a checkpoint value into a tweet id. An empty string
// yields 0 (no cursor). Anything else must be a non-negative integer.
func ParseSinceID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSinceID, s)
	}
	return id, nil
}

// ParseSinceDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseSinceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(SinceDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing since date %q: %w", s, err)
	}
	return t, nil
}
