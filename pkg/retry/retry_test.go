package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	t.Cleanup(func() { sleep = orig })
	return &waits
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	waits := recordSleeps(t)
	calls := 0
	v, err := Do(context.Background(), Policy{Attempts: 3, BaseDelay: time.Second}, func(_ context.Context, attempt int) (string, error) {
		calls++
		if attempt < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	waits := recordSleeps(t)
	boom := errors.New("boom")
	_, err := Do(context.Background(), DefaultPolicy, func(context.Context, int) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Len(t, *waits, 2)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	waits := recordSleeps(t)
	calls := 0
	bad := errors.New("404")
	_, err := Do(context.Background(), DefaultPolicy, func(context.Context, int) (int, error) {
		calls++
		return 0, Permanent(bad)
	})
	require.ErrorIs(t, err, bad)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *waits)
}

func TestDo_ContextCancelled(t *testing.T) {
	recordSleeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Do(ctx, DefaultPolicy, func(context.Context, int) (int, error) {
		calls++
		return 0, errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(context.Context, int) (int, error) {
		calls++
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestSleep_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}
