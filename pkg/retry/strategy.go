package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/invoix/wrapper-server/pkg/retry/backoff"
)

// Strategy determines whether an action should be attempted again after
// failing with err. Strategies may delay before returning.
type Strategy func(ctx context.Context, attempts uint, err error) bool

// Limit caps the total number of attempts. maxAttempts should be >= 1, since
// the action always runs once.
func Limit(maxAttempts uint) Strategy {
	return func(_ context.Context, attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only allows another attempt when err is, or wraps, one of
// retriableErrors.
func RetriableErrors(retriableErrors ...error) Strategy {
	return func(_ context.Context, _ uint, err error) bool {
		for _, e := range retriableErrors {
			if errors.Is(err, e) {
				return true
			}
		}
		return false
	}
}

// Backoff delays the next attempt by strategy, capped at maxBackoff. The delay
// is cut short, and retries stop, once ctx is done.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return BackoffWithJitter(strategy, maxBackoff, 0)
}

// BackoffWithJitter is Backoff with the capped delay randomly moved by up to
// jitter of itself in either direction. A jitter of 0.1 on a 100ms delay
// sleeps between 90ms and 110ms.
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(ctx context.Context, attempts uint, _ error) bool {
		delay := strategy(attempts)
		if delay > maxBackoff {
			delay = maxBackoff
		}

		if jitter > 0 {
			delay = time.Duration(float64(delay) * (1 + (rand.Float64()*2-1)*jitter))
		}

		return sleeperImpl.Sleep(ctx, delay)
	}
}

type sleeper interface {
	// Sleep waits for d, returning false if ctx finished first
	Sleep(ctx context.Context, d time.Duration) bool
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

var sleeperImpl sleeper = realSleeper{}
