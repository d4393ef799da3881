package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type rateLimitErr struct{ msg string }

func (e *rateLimitErr) Error() string   { return e.msg }
func (e *rateLimitErr) Transient() bool { return true }

func captureSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFn
	sleepFn = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleepFn = orig })
	return &slept
}

func TestDoRetriesTransientWithDoubling(t *testing.T) {
	slept := captureSleeps(t)

	calls := 0
	_, err := Do(context.Background(), Policy{MaxRetries: 3, InitialDelay: 2 * time.Second}, func(ctx context.Context) (string, error) {
		calls++
		return "", &rateLimitErr{msg: "rate limit exceeded (429)"}
	})

	assert.Error(t, err)
	assert.Equal(t, 4, calls, "maxRetries=3 means exactly 4 invocations")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *slept)
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	captureSleeps(t)

	calls := 0
	result, err := Do(context.Background(), DefaultPolicy(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("RESOURCE_EXHAUSTED: quota exceeded")
		}
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDoPropagatesNonTransientImmediately(t *testing.T) {
	slept := captureSleeps(t)

	boom := errors.New("invalid request")
	calls := 0
	_, err := Do(context.Background(), DefaultPolicy(), func(ctx context.Context) (string, error) {
		calls++
		return "", boom
	})

	assert.ErrorIs(t, err, boom, "non-transient failures propagate unchanged")
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestDoStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, Policy{MaxRetries: 2, InitialDelay: time.Minute}, func(ctx context.Context) (string, error) {
		return "", errors.New("got 503 from upstream")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "status 429 in message", err: errors.New("status error, got status 429"), want: true},
		{name: "status 503 in message", err: errors.New("got 503 from upstream"), want: true},
		{name: "quota marker", err: errors.New("generativelanguage: quota exceeded for model"), want: true},
		{name: "resource exhausted marker", err: errors.New("RESOURCE_EXHAUSTED"), want: true},
		{name: "typed transient", err: &rateLimitErr{msg: "slow down"}, want: true},
		{name: "plain failure", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
