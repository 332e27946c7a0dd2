// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry runs a fallible operation with exponential backoff.
//
// After failed attempt n (counting from 0) the loop waits 2^(n+1) units and
// calls the operation again with the same arguments. There is no jitter. The
// first successful result is returned to the caller. Permanent errors end the
// loop at once; MaxAttempts and MaxElapsed bound it otherwise.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrExhausted is returned when the attempt or elapsed-time bound is reached.
var ErrExhausted = errors.New("retry attempts exhausted")

// Class is the retry disposition of an error.
type Class int

const (
	// Transient errors are retried.
	Transient Class = iota
	// RateLimited errors are retried.
	RateLimited
	// Permanent errors are returned without retrying.
	Permanent
)

func (c Class) String() string {
	switch c {
	case Transient:
		return "transient"
	case RateLimited:
		return "rate_limited"
	case Permanent:
		return "permanent"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Hinter is implemented by errors that carry a server-advised wait, such
// as a Retry-After header. The hint is logged; the schedule is unchanged.
type Hinter interface {
	RetryHint() time.Duration
}

// Classifier maps an operation error to a Class.
type Classifier func(error) Class

// RetryAll treats every error as transient.
func RetryAll(error) Class { return Transient }

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy configures Do. The zero value is usable: one-second unit, no
// bounds, every error retried, no logging.
type Policy struct {
	// Unit is the backoff time unit (default 1s).
	Unit time.Duration

	// MaxAttempts caps the total number of calls. 0 retries forever.
	MaxAttempts int

	// MaxElapsed caps the time spent in the loop. 0 means no cap.
	MaxElapsed time.Duration

	// MaxDelay caps a single wait. 0 means no cap.
	MaxDelay time.Duration

	// Classify decides whether an error is retried (default RetryAll).
	Classify Classifier

	// Sleep replaces the context-aware timer wait. Tests use it to record
	// delays without sleeping.
	Sleep SleepFunc

	// Logger receives one warning per failed attempt.
	Logger *zap.Logger

	// Operation labels log lines and metrics.
	Operation string
}

// DefaultUnit is the backoff unit when Policy.Unit is zero.
const DefaultUnit = time.Second

func (p Policy) withDefaults() Policy {
	if p.Unit <= 0 {
		p.Unit = DefaultUnit
	}
	if p.Classify == nil {
		p.Classify = RetryAll
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Operation == "" {
		p.Operation = "operation"
	}
	return p
}

// newBackOff returns the interval generator: 2u, 4u, 8u, ... with no
// randomization, capped by MaxDelay and stopped after MaxElapsed.
func (p Policy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * p.Unit
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	if p.MaxDelay > 0 {
		// The first interval is returned unclamped, so cap it here too.
		b.InitialInterval = min(b.InitialInterval, p.MaxDelay)
		b.MaxInterval = p.MaxDelay
	}
	b.MaxElapsedTime = p.MaxElapsed
	b.Reset()
	return b
}

// Do calls op until it succeeds, returns a permanent error, the context is
// done, or a bound in p is reached.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()
	b := p.newBackOff()
	start := time.Now()

	var zero T
	for attempt := 0; ; attempt++ {
		attemptsTotal.WithLabelValues(p.Operation).Inc()

		v, err := op(ctx)
		if err == nil {
			recordOutcome(p.Operation, outcomeSuccess, start)
			return v, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			recordOutcome(p.Operation, outcomeCanceled, start)
			return zero, ctxErr
		}

		class := p.Classify(err)
		if class == Permanent {
			p.Logger.Warn("operation failed with a permanent error",
				zap.String("operation", p.Operation),
				zap.Int("attempt", attempt),
				zap.Error(err))
			recordOutcome(p.Operation, outcomePermanent, start)
			return zero, err
		}

		next := attempt + 1
		if p.MaxAttempts > 0 && next >= p.MaxAttempts {
			recordOutcome(p.Operation, outcomeExhausted, start)
			return zero, fmt.Errorf("%s: %w after %d attempts: %w", p.Operation, ErrExhausted, next, err)
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			recordOutcome(p.Operation, outcomeExhausted, start)
			return zero, fmt.Errorf("%s: %w after %v: %w", p.Operation, ErrExhausted, time.Since(start).Round(time.Millisecond), err)
		}

		fields := []zap.Field{
			zap.String("operation", p.Operation),
			zap.Error(err),
			zap.Stringer("class", class),
			zap.Int("attempt", next),
			zap.Duration("delay", delay),
		}
		var h Hinter
		if errors.As(err, &h) && h.RetryHint() > 0 {
			fields = append(fields, zap.Duration("retry_after", h.RetryHint()))
		}
		p.Logger.Warn("operation failed, backing off", fields...)
		backoffSeconds.WithLabelValues(p.Operation).Observe(delay.Seconds())

		if err := p.Sleep(ctx, delay); err != nil {
			recordOutcome(p.Operation, outcomeCanceled, start)
			return zero, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
