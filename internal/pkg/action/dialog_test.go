package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDialog_RunSettles(t *testing.T) {
	d := New[string]()
	assert.Equal(t, PhaseIdle, d.Snapshot().Phase)

	r, err := d.Run(context.Background(), func(ctx context.Context) (string, error) {
		assert.Equal(t, PhaseInFlight, d.Snapshot().Phase)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", r)

	s := d.Snapshot()
	assert.True(t, s.OK())
	assert.Equal(t, "ok", s.Result)
	assert.Equal(t, 100, s.Progress)
}

func TestDialog_FailureKeepsError(t *testing.T) {
	d := New[int]()
	boom := errors.New("boom")
	_, err := d.Run(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	s := d.Snapshot()
	assert.Equal(t, PhaseSettled, s.Phase)
	assert.ErrorIs(t, s.Err, boom)
	assert.False(t, s.OK())
}

func TestDialog_SecondSubmitIsBusy(t *testing.T) {
	d := New[int]()
	release := make(chan struct{})
	calls := 0
	require.NoError(t, d.Start(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		<-release
		return 1, nil
	}))

	err := d.Start(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 2, nil
	})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	s, err := d.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Result)
	assert.Equal(t, 1, calls)
}

func TestDialog_CloseDiscardsLateResult(t *testing.T) {
	d := New[string]()
	started := make(chan struct{})
	require.NoError(t, d.Start(context.Background(), func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "late", nil
	}))
	<-started

	d.Close()
	_, err := d.Wait(context.Background())
	require.NoError(t, err)

	s := d.Snapshot()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Empty(t, s.Result)
	assert.NoError(t, s.Err)

	// 取消的操作结束后可以重新提交
	r, err := d.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", r)
}

func TestDialog_Retry(t *testing.T) {
	d := New[int]()
	assert.ErrorIs(t, d.Retry(context.Background()), ErrInvalidPhase)

	attempts := 0
	_, err := d.Run(context.Background(), func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("first")
		}
		return attempts, nil
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	require.NoError(t, d.Retry(context.Background()))
	s, err := d.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, s.OK())
	assert.Equal(t, 2, s.Result)
}

func TestProgress_CappedThenSnapped(t *testing.T) {
	p := NewProgress(time.Millisecond, 85)
	p.step = func() float64 { return 30 }
	d := New[int](WithProgress(p))

	release := make(chan struct{})
	require.NoError(t, d.Start(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	}))

	assert.Eventually(t, func() bool {
		return d.Snapshot().Progress == 85
	}, time.Second, time.Millisecond)

	close(release)
	s, err := d.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, s.Progress)

	d.Close()
	assert.Equal(t, 0, d.Snapshot().Progress)
}
