// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_Success(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"gopher","count":3}`))
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, GetJSON(ts.Client(), req, &out))
	assert.Equal(t, "gopher", out.Name)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSON_StatusErrorKeepsBody(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`))
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = GetJSON(ts.Client(), req, &out)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, string(se.Body), "Rate limit exceeded")
	assert.Equal(t, "HTTP 429 Too Many Requests", se.Error())
	// No retrying happens here.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	d, ok := se.RetryAfter(time.Now())
	assert.True(t, ok)
	assert.Equal(t, 7*time.Second, d)
}

func TestGetJSON_BadBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = GetJSON(ts.Client(), req, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestStatusError_RetryAfterFromResetHeader(t *testing.T) {
	now := time.Unix(1_600_000_000, 0)
	se := &StatusError{StatusCode: 429, Header: http.Header{}}
	se.Header.Set("X-Rate-Limit-Reset", strconv.FormatInt(now.Add(90*time.Second).Unix(), 10))

	d, ok := se.RetryAfter(now)
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	past := &StatusError{StatusCode: 429, Header: http.Header{}}
	past.Header.Set("X-Rate-Limit-Reset", strconv.FormatInt(now.Add(-time.Minute).Unix(), 10))
	d, ok = past.RetryAfter(now)
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), d)

	none := &StatusError{StatusCode: 500, Header: http.Header{}}
	_, ok = none.RetryAfter(now)
	assert.False(t, ok)
}
