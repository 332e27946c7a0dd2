// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package capture runs one collection pass: read the checkpoint, search
// for tweets newer than it, and normalize each result into a JSON record.
package capture

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/checkpoint"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/internal/retry"
	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

// Provider runs a single search request without retrying.
type Provider interface {
	Search(ctx context.Context, req types.SearchRequest) ([]types.Tweet, error)
}

// Searcher wraps a Provider with the exponential backoff loop. Every retry
// resends the original request unchanged.
type Searcher struct {
	provider Provider
	policy   retry.Policy
	logger   *zap.Logger
}

// NewSearcher returns a Searcher. The policy's Logger and Operation default
// to logger and "search".
func NewSearcher(p Provider, policy retry.Policy, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Logger == nil {
		policy.Logger = logger
	}
	if policy.Operation == "" {
		policy.Operation = "search"
	}
	return &Searcher{provider: p, policy: policy, logger: logger}
}

// Search returns the statuses of the first successful attempt.
func (s *Searcher) Search(ctx context.Context, req types.SearchRequest) ([]types.Tweet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return retry.Do(ctx, s.policy, func(ctx context.Context) ([]types.Tweet, error) {
		s.logger.Info("searching twitter",
			zap.String("term", req.Term),
			zap.String("since_date", req.SinceDateString()),
			zap.Int64("since_id", req.SinceID))
		return s.provider.Search(ctx, req)
	})
}

// Options are the per-run settings of a Capturer.
type Options struct {
	// Term is the search keyword.
	Term string

	// SinceDate is the lower bound on tweet age. Zero means unbounded.
	SinceDate time.Time

	// ResultType, Count and IncludeEntities are passed through to the
	// provider. Zero values take the request defaults.
	ResultType      types.ResultType
	Count           int
	IncludeEntities bool

	// CheckpointName is the parameter holding the last captured id. Empty
	// disables checkpoint reads and writes.
	CheckpointName string

	// AdvanceCheckpoint stores the highest captured id after a run.
	AdvanceCheckpoint bool

	// Debug logs every encoded payload.
	Debug bool
}

// OptionsFromConfig derives run options from the process configuration.
func OptionsFromConfig(cfg types.Config) (Options, error) {
	since, err := types.ParseSinceDate(cfg.Twitter.SinceDate)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Term:              cfg.Twitter.Keyword,
		SinceDate:         since,
		ResultType:        cfg.Twitter.ResultType,
		Count:             cfg.Twitter.Count,
		IncludeEntities:   cfg.Twitter.IncludeEntities,
		CheckpointName:    cfg.Checkpoint.Name,
		AdvanceCheckpoint: cfg.Checkpoint.Advance,
		Debug:             cfg.Debug,
	}, nil
}

// Capturer performs capture runs.
type Capturer struct {
	searcher *Searcher
	store    checkpoint.Store
	opts     Options
	logger   *zap.Logger
}

// New returns a Capturer. store may be nil when opts.CheckpointName is empty.
func New(searcher *Searcher, store checkpoint.Store, opts Options, logger *zap.Logger) *Capturer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{searcher: searcher, store: store, opts: opts, logger: logger}
}

// Run executes one capture pass and returns the JSON-encoded records in
// provider order.
func (c *Capturer) Run(ctx context.Context) ([]string, error) {
	sinceID, err := c.readCheckpoint(ctx)
	if err != nil {
		runsTotal.WithLabelValues(statusFailed).Inc()
		return nil, err
	}

	req := types.NewSearchRequest(c.opts.Term)
	req.SinceDate = c.opts.SinceDate
	req.SinceID = sinceID
	req.IncludeEntities = c.opts.IncludeEntities
	if c.opts.ResultType != "" {
		req.ResultType = c.opts.ResultType
	}
	if c.opts.Count > 0 {
		req.Count = c.opts.Count
	}

	tweets, err := c.searcher.Search(ctx, req)
	if err != nil {
		runsTotal.WithLabelValues(statusFailed).Inc()
		return nil, fmt.Errorf("searching for %q: %w", req.Term, err)
	}

	records := make([]string, 0, len(tweets))
	var maxID int64
	for _, t := range tweets {
		payload, err := types.NewRecord(t).JSON()
		if err != nil {
			runsTotal.WithLabelValues(statusFailed).Inc()
			return nil, err
		}
		if c.opts.Debug {
			c.logger.Debug("payload to ship", zap.String("payload", payload))
		}
		records = append(records, payload)
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	recordsTotal.Add(float64(len(records)))

	if c.opts.AdvanceCheckpoint && maxID > sinceID {
		if err := c.writeCheckpoint(ctx, maxID); err != nil {
			runsTotal.WithLabelValues(statusFailed).Inc()
			return nil, err
		}
	}

	c.logger.Info("capture complete",
		zap.String("term", req.Term),
		zap.Int("records", len(records)),
		zap.Int64("max_id", maxID))
	runsTotal.WithLabelValues(statusSucceeded).Inc()
	return records, nil
}

// readCheckpoint returns the since_id cursor, 0 when there is none.
func (c *Capturer) readCheckpoint(ctx context.Context) (int64, error) {
	if c.opts.CheckpointName == "" || c.store == nil {
		return 0, nil
	}

	raw, ok, err := checkpoint.Lookup(ctx, c.store, c.opts.CheckpointName)
	if err != nil {
		return 0, err
	}
	if !ok {
		c.logger.Info("no checkpoint", zap.String("name", c.opts.CheckpointName))
		return 0, nil
	}

	id, err := types.ParseSinceID(raw)
	if err != nil {
		return 0, fmt.Errorf("checkpoint %q: %w", c.opts.CheckpointName, err)
	}
	c.logger.Info("checkpoint loaded", zap.String("name", c.opts.CheckpointName), zap.Int64("since_id", id))
	checkpointGauge.Set(float64(id))
	return id, nil
}

func (c *Capturer) writeCheckpoint(ctx context.Context, id int64) error {
	if c.opts.CheckpointName == "" || c.store == nil {
		return nil
	}
	if err := c.store.Put(ctx, c.opts.CheckpointName, strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("advancing checkpoint %q: %w", c.opts.CheckpointName, err)
	}
	c.logger.Info("checkpoint advanced", zap.String("name", c.opts.CheckpointName), zap.Int64("since_id", id))
	checkpointGauge.Set(float64(id))
	return nil
}
