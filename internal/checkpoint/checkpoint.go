// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checkpoint reads and writes the id of the last captured tweet in
// an external parameter store.
//
// A stored value equal to the literal string "None" means no checkpoint, the
// same as a missing parameter.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SoManyHs/ghostpilot-twitter-scraper/pkg/types"
)

// ErrNotFound is returned by Store.Get when the parameter does not exist.
var ErrNotFound = errors.New("checkpoint not found")

// NoneValue is the stored value that stands for an absent checkpoint.
const NoneValue = "None"

// Store is a named string parameter store.
type Store interface {
	// Get returns the raw value of name, or ErrNotFound.
	Get(ctx context.Context, name string) (string, error)

	// Put creates or overwrites name.
	Put(ctx context.Context, name, value string) error

	// Close releases the store's resources.
	Close() error
}

// Lookup reads name from s. The second result is false when the parameter
// is missing or holds NoneValue.
func Lookup(ctx context.Context, s Store, name string) (string, bool, error) {
	v, err := s.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading checkpoint %q: %w", name, err)
	}
	v = strings.TrimSpace(v)
	if v == "" || v == NoneValue {
		return "", false, nil
	}
	return v, true, nil
}

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg types.CheckpointConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("backend", string(cfg.Backend)))

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case types.CheckpointSSM, "":
		s, err = NewSSMStore(ctx, cfg.Region)
	case types.CheckpointRedis:
		s, err = NewRedisStore(ctx, RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}, logger)
	case types.CheckpointSQLite:
		s, err = NewSQLiteStore(cfg.Path)
	case types.CheckpointFile:
		s, err = NewFileStore(cfg.Path)
	case types.CheckpointMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s checkpoint store: %w", cfg.Backend, err)
	}
	return s, nil
}
