package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionLocksAcquireRelease(t *testing.T) {
	l := newPartitionLocks()

	release, err := l.acquire(context.Background(), "1:2026-03-14", time.Second)
	require.NoError(t, err)

	// A different key is independent.
	release2, err := l.acquire(context.Background(), "2:2026-03-14", time.Second)
	require.NoError(t, err)
	release2()

	// The same key times out while held.
	_, err = l.acquire(context.Background(), "1:2026-03-14", 20*time.Millisecond)
	assert.ErrorIs(t, err, errLockTimeout)

	release()

	// And is available again after release.
	release, err = l.acquire(context.Background(), "1:2026-03-14", time.Second)
	require.NoError(t, err)
	release()
}

func TestPartitionLocksContextCancel(t *testing.T) {
	l := newPartitionLocks()

	release, err := l.acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPartitionLocksEntriesCleanedUp(t *testing.T) {
	l := newPartitionLocks()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.acquire(context.Background(), "shared", 5*time.Second)
			if err != nil {
				return
			}
			time.Sleep(time.Millisecond)
			release()
		}()
	}
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries, "entries must be removed once no waiter holds a reference")
}
