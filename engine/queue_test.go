package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PutGetFIFO(t *testing.T) {
	q := newQueue(2)
	ctx := context.Background()

	require.NoError(t, q.put(ctx, Payload{SeqID: 1}, true, 0))
	require.NoError(t, q.put(ctx, Payload{SeqID: 2}, true, 0))

	p1, err := q.get(ctx, true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p1.SeqID)

	p2, err := q.get(ctx, true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p2.SeqID)
}

func TestQueue_PutNonBlockingFullReturnsErrFull(t *testing.T) {
	q := newQueue(1)
	ctx := context.Background()

	require.NoError(t, q.put(ctx, Payload{SeqID: 1}, true, 0))
	err := q.put(ctx, Payload{SeqID: 2}, false, 0)
	assert.ErrorIs(t, err, ErrFull)
}

func TestQueue_GetNonBlockingEmptyReturnsErrEmpty(t *testing.T) {
	q := newQueue(1)
	_, err := q.get(context.Background(), false, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestQueue_PutTimeoutReturnsErrFull(t *testing.T) {
	q := newQueue(1)
	ctx := context.Background()
	require.NoError(t, q.put(ctx, Payload{SeqID: 1}, true, 0))

	start := time.Now()
	err := q.put(ctx, Payload{SeqID: 2}, true, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrFull)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueue_GetTimeoutReturnsErrEmpty(t *testing.T) {
	q := newQueue(1)
	start := time.Now()
	_, err := q.get(context.Background(), true, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueue_PutUnblocksOnContextCancel(t *testing.T) {
	q := newQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.put(context.Background(), Payload{SeqID: 1}, true, 0))

	done := make(chan error, 1)
	go func() {
		done <- q.put(ctx, Payload{SeqID: 2}, true, 0)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("put did not unblock on context cancellation")
	}
}
