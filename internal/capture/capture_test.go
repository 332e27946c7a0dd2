// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package capture

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/checkpoint"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/retry"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

// --- stub provider ---

type stubProvider struct {
	failures int
	err      error
	tweets   []types.Tweet
	requests []types.SearchRequest
}

func (p *stubProvider) Search(_ context.Context, req types.SearchRequest) ([]types.Tweet, error) {
	p.requests = append(p.requests, req)
	if len(p.requests) <= p.failures {
		return nil, p.err
	}
	return p.tweets, nil
}

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func tweet(id int64, user string) types.Tweet {
	return types.Tweet{
		ID:        id,
		IDStr:     strconv.FormatInt(id, 10),
		FullText:  "tweet " + user,
		CreatedAt: "Mon Oct 26 10:00:00 +0000 2020",
		User:      types.User{ScreenName: user},
		Entities:  types.Entities{Hashtags: []types.Hashtag{{Text: "test"}}},
	}
}

func newCapturer(p Provider, store checkpoint.Store, rec *sleepRecorder, logger *zap.Logger, opts Options) *Capturer {
	policy := retry.Policy{Unit: time.Second, Sleep: rec.sleep}
	return New(NewSearcher(p, policy, logger), store, opts, logger)
}

// --- Searcher ---

func TestSearcherReturnsResultAfterFailures(t *testing.T) {
	p := &stubProvider{failures: 2, err: errors.New("rate limit"), tweets: []types.Tweet{tweet(1, "a")}}
	rec := &sleepRecorder{}
	s := NewSearcher(p, retry.Policy{Sleep: rec.sleep}, nil)

	got, err := s.Search(context.Background(), types.NewSearchRequest("#test"))
	require.NoError(t, err)
	require.Len(t, got, 1, "the top-level call returns the successful result")
	assert.Len(t, p.requests, 3)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)
}

func TestSearcherPreservesRequestAcrossRetries(t *testing.T) {
	p := &stubProvider{failures: 2, err: errors.New("boom")}
	rec := &sleepRecorder{}
	s := NewSearcher(p, retry.Policy{Sleep: rec.sleep}, nil)

	req := types.SearchRequest{
		Term:            "#test",
		ResultType:      types.ResultPopular,
		Count:           15,
		IncludeEntities: true,
		SinceDate:       time.Date(2020, 10, 26, 0, 0, 0, 0, time.UTC),
		SinceID:         100,
	}
	_, err := s.Search(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, p.requests, 3)
	for i, got := range p.requests {
		assert.Equal(t, req, got, "attempt %d must resend the original request", i)
	}
}

func TestSearcherInvalidRequestIsNotSent(t *testing.T) {
	p := &stubProvider{}
	s := NewSearcher(p, retry.Policy{}, nil)
	_, err := s.Search(context.Background(), types.SearchRequest{})
	require.Error(t, err)
	assert.Empty(t, p.requests)
}

func TestSearcherBoundedAttempts(t *testing.T) {
	p := &stubProvider{failures: 100, err: errors.New("down")}
	rec := &sleepRecorder{}
	s := NewSearcher(p, retry.Policy{MaxAttempts: 4, Sleep: rec.sleep}, nil)

	_, err := s.Search(context.Background(), types.NewSearchRequest("#test"))
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Len(t, p.requests, 4)
}

// --- Capturer ---

func TestRunEndToEnd(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "cp", "100"))

	p := &stubProvider{tweets: []types.Tweet{tweet(200, "first"), tweet(201, "second")}}
	c := newCapturer(p, store, &sleepRecorder{}, nil, Options{Term: "#test", CheckpointName: "cp"})

	records, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Len(t, p.requests, 1)
	assert.Equal(t, "#test", p.requests[0].Term)
	assert.Equal(t, int64(100), p.requests[0].SinceID)

	for i, wantID := range []string{"200", "201"} {
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(records[i]), &got))
		assert.Equal(t, wantID, got["id"])

		meta, ok := got["metadata"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, `[{"text":"test"}]`, meta["hashtags"])
		assert.Equal(t, "None", meta["media"])
		assert.Equal(t, "None", meta["retweet_data"])
		assert.Equal(t, "Mon Oct 26 10:00:00 +0000 2020", meta["created_date"])
	}
}

func TestRunRetriesOnceAndLogsCounter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	rec := &sleepRecorder{}

	p := &stubProvider{failures: 1, err: errors.New("Rate limit exceeded"), tweets: []types.Tweet{tweet(300, "x")}}
	c := newCapturer(p, nil, rec, logger, Options{Term: "#test"})

	records, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0], `"id":"300"`)

	retries := logs.FilterMessage("operation failed, backing off").All()
	require.Len(t, retries, 1)
	assert.Equal(t, int64(1), retries[0].ContextMap()["attempt"])
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.delays)

	assert.Equal(t, 2, logs.FilterMessage("searching twitter").Len(), "parameters are logged on every attempt")
}

func TestRunNoneCheckpointMeansNoCursor(t *testing.T) {
	for _, stored := range []string{"None", ""} {
		store := checkpoint.NewMemoryStore()
		if stored != "" {
			require.NoError(t, store.Put(context.Background(), "cp", stored))
		}
		p := &stubProvider{}
		c := newCapturer(p, store, &sleepRecorder{}, nil, Options{Term: "#test", CheckpointName: "cp"})

		_, err := c.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, p.requests, 1)
		assert.Equal(t, int64(0), p.requests[0].SinceID, "stored %q", stored)
	}
}

func TestRunNonNumericCheckpointFails(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "cp", "abc"))
	p := &stubProvider{}
	c := newCapturer(p, store, &sleepRecorder{}, nil, Options{Term: "#test", CheckpointName: "cp"})
	before := testutil.ToFloat64(runsTotal.WithLabelValues(statusFailed))

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidSinceID)
	assert.Empty(t, p.requests, "no search is made with an unusable cursor")
	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues(statusFailed)))
}

type brokenStore struct{ checkpoint.Store }

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("parameter store unavailable")
}

func TestRunCheckpointReadErrorCountsFailedRun(t *testing.T) {
	p := &stubProvider{}
	c := newCapturer(p, brokenStore{}, &sleepRecorder{}, nil, Options{Term: "#test", CheckpointName: "cp"})
	before := testutil.ToFloat64(runsTotal.WithLabelValues(statusFailed))

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter store unavailable")
	assert.Empty(t, p.requests)
	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues(statusFailed)))
}

func TestRunAdvancesCheckpoint(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "cp", "100"))
	p := &stubProvider{tweets: []types.Tweet{tweet(205, "a"), tweet(201, "b")}}
	c := newCapturer(p, store, &sleepRecorder{}, nil, Options{Term: "#test", CheckpointName: "cp", AdvanceCheckpoint: true})

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	v, err := store.Get(context.Background(), "cp")
	require.NoError(t, err)
	assert.Equal(t, "205", v)
}

func TestRunKeepsCheckpointWhenNothingNew(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "cp", "None"))
	c := newCapturer(&stubProvider{}, store, &sleepRecorder{}, nil, Options{Term: "#test", CheckpointName: "cp", AdvanceCheckpoint: true})

	records, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	v, err := store.Get(context.Background(), "cp")
	require.NoError(t, err)
	assert.Equal(t, "None", v)
}

func TestRunDebugLogsPayloads(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := &stubProvider{tweets: []types.Tweet{tweet(1, "a"), tweet(2, "b")}}
	c := newCapturer(p, nil, &sleepRecorder{}, zap.New(core), Options{Term: "#test", Debug: true})

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, logs.FilterMessage("payload to ship").Len())
}

func TestRunPassesSearchOptions(t *testing.T) {
	p := &stubProvider{}
	since := time.Date(2020, 10, 26, 0, 0, 0, 0, time.UTC)
	c := newCapturer(p, nil, &sleepRecorder{}, nil, Options{
		Term:            "#test",
		SinceDate:       since,
		ResultType:      types.ResultMixed,
		Count:           50,
		IncludeEntities: true,
	})

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, p.requests, 1)
	got := p.requests[0]
	assert.Equal(t, since, got.SinceDate)
	assert.Equal(t, types.ResultMixed, got.ResultType)
	assert.Equal(t, 50, got.Count)
	assert.True(t, got.IncludeEntities)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := types.Config{
		Twitter: types.TwitterConfig{Keyword: "#awscopilot", SinceDate: "2020-10-26", Count: 20},
		Checkpoint: types.CheckpointConfig{
			Name:    "/copilot/checkpoint",
			Advance: true,
		},
		Debug: true,
	}
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "#awscopilot", opts.Term)
	assert.Equal(t, time.Date(2020, 10, 26, 0, 0, 0, 0, time.UTC), opts.SinceDate)
	assert.Equal(t, 20, opts.Count)
	assert.Equal(t, "/copilot/checkpoint", opts.CheckpointName)
	assert.True(t, opts.AdvanceCheckpoint)
	assert.True(t, opts.Debug)

	cfg.Twitter.SinceDate = "yesterday"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}
