package retry

import (
	"context"
	"errors"
	"strings"
	"time"
)

// TransientError is implemented by errors that are safe to retry,
// typically rate-limit responses from an upstream provider.
type TransientError interface {
	error
	Transient() bool
}

// Policy controls the backoff sequence. Delays double on every attempt
// with no jitter and no cap; callers that need a cap should wrap the
// operation with a context deadline instead.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// DefaultPolicy matches the product contract for generative calls:
// 3 retries at 2s, 4s, 8s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: 2 * time.Second,
	}
}

// sleepFn is swapped out in tests to observe the backoff sequence.
var sleepFn = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsTransient reports whether err carries the transient rate-limit
// signature: either a self-classifying TransientError, or a message
// containing the provider's quota/exhaustion markers.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te TransientError
	if errors.As(err, &te) {
		return te.Transient()
	}
	msg := err.Error()
	for _, marker := range []string{"429", "503", "RESOURCE_EXHAUSTED", "quota"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Do executes op, retrying with exponential backoff while the failure is
// transient and the retry budget lasts. Non-transient failures propagate
// unchanged on the first occurrence.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	delay := p.InitialDelay
	retries := p.MaxRetries

	for {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) || retries <= 0 {
			var zero T
			return zero, err
		}
		if sleepErr := sleepFn(ctx, delay); sleepErr != nil {
			var zero T
			return zero, sleepErr
		}
		retries--
		delay *= 2
	}
}
