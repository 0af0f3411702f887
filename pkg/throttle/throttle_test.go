package throttle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

func TestNewClampsInitial(t *testing.T) {
	assert.Equal(t, 10.0, NewAdaptiveLimiter(50, 1, 10, 1, 0.5).CurrentLimit())
	assert.Equal(t, 2.0, NewAdaptiveLimiter(1, 2, 10, 1, 0.5).CurrentLimit())
}

func TestOverloadedHalvesAndRespectsMin(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 2, 20, 1, 0.5)

	lim.Overloaded()
	assert.Equal(t, 4.0, lim.CurrentLimit())
	lim.Overloaded()
	lim.Overloaded()
	assert.Equal(t, 2.0, lim.CurrentLimit())
}

func TestSuccessWaitsOutRecoveryWindow(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 5, 1, 0.5)
	now := time.Now()
	lim.now = func() time.Time { return now }

	lim.Overloaded()
	lim.Success()
	assert.Equal(t, 2.0, lim.CurrentLimit())

	now = now.Add(recoveryWindow + time.Second)
	lim.Success()
	assert.Equal(t, 3.0, lim.CurrentLimit())
	lim.Success()
	lim.Success()
	lim.Success()
	assert.Equal(t, 5.0, lim.CurrentLimit())
}

func TestDoFeedsOutcome(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 1, 10, 1, 0.5)
	ctx := context.Background()

	err := lim.Do(ctx, func(context.Context) error { return statusErr(http.StatusTooManyRequests) }, IsOverloaded)
	require.Error(t, err)
	assert.Equal(t, 5.0, lim.CurrentLimit())

	plain := errors.New("bad request")
	err = lim.Do(ctx, func(context.Context) error { return plain }, IsOverloaded)
	require.ErrorIs(t, err, plain)
	assert.Equal(t, 5.0, lim.CurrentLimit())
}

func TestDoHonorsCanceledContext(t *testing.T) {
	lim := NewAdaptiveLimiter(1, 1, 1, 1, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := lim.Do(ctx, func(context.Context) error { called = true; return nil }, nil)
	require.Error(t, err)
	assert.False(t, called)
}

func TestIsOverloaded(t *testing.T) {
	assert.True(t, IsOverloaded(statusErr(429)))
	assert.True(t, IsOverloaded(fmt.Errorf("wrapped: %w", statusErr(502))))
	assert.False(t, IsOverloaded(statusErr(400)))
	assert.False(t, IsOverloaded(errors.New("plain")))
}
