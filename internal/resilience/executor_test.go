package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func retryable(err error) ErrorClassification {
	return ErrorClassification{Retryable: errors.Is(err, errTransient), RecordFailure: true}
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryMaxAttempts = 3
	cfg.RetryInitialBackoff = time.Millisecond
	cfg.RetryMaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestExecutor_RetriesTransientErrors(t *testing.T) {
	exec := NewExecutor(fastConfig(), zerolog.Nop())

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, retryable)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecutor_StopsAtMaxAttempts(t *testing.T) {
	exec := NewExecutor(fastConfig(), zerolog.Nop())

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errTransient
	}, retryable)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestExecutor_DoesNotRetryPermanentErrors(t *testing.T) {
	exec := NewExecutor(fastConfig(), zerolog.Nop())
	permanent := errors.New("bad request")

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return permanent
	}, retryable)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestExecutor_BreakerOpens(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	exec := NewExecutor(cfg, zerolog.Nop())

	fail := func(context.Context) error { return errTransient }
	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, exec.Execute(context.Background(), "ai", fail, retryable), errTransient)
	}

	called := false
	err := exec.Execute(context.Background(), "ai", func(context.Context) error {
		called = true
		return nil
	}, retryable)

	assert.True(t, IsCircuitOpen(err))
	assert.False(t, called)

	// other operations have their own breaker
	assert.NoError(t, exec.Execute(context.Background(), "other", func(context.Context) error { return nil }, retryable))
}

func TestExecutor_CanceledContext(t *testing.T) {
	exec := NewExecutor(fastConfig(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exec.Execute(ctx, "op", func(context.Context) error { return nil }, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_NilCallback(t *testing.T) {
	exec := NewExecutor(Config{}, zerolog.Nop())
	assert.Error(t, exec.Execute(context.Background(), "op", nil, nil))
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{RetryMaxAttempts: -1, RetryMultiplier: 0.5, BreakerFailureRatio: 2}.normalize()
	assert.Equal(t, 1, cfg.RetryMaxAttempts)
	assert.Equal(t, 2.0, cfg.RetryMultiplier)
	assert.Equal(t, 0.5, cfg.BreakerFailureRatio)
	assert.Equal(t, uint32(5), cfg.BreakerMinRequests)
}
