package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

// errLockTimeout is returned by acquire when the partition lock could
// not be taken within the configured wait. The service surfaces it to
// callers as ErrTransient so clients know a retry may succeed.
var errLockTimeout = errors.New("partition lock timeout")

// partitionLocks hands out one in-process mutex per (workspace, date)
// partition key. Every operation locks exactly one key, so there is no
// ordering to get wrong and no deadlock; acquisition is bounded by a
// timeout instead of blocking forever. Entries are reference-counted
// and removed when the last waiter leaves, keeping the map bounded by
// the number of partitions currently in flight.
type partitionLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	// ch has capacity 1; holding the token means holding the lock.
	ch   chan struct{}
	refs int
}

func newPartitionLocks() *partitionLocks {
	return &partitionLocks{entries: make(map[string]*lockEntry)}
}

// acquire blocks until the lock for key is held, the wait elapses or
// ctx is cancelled. On success it returns a release function that must
// be called exactly once.
func (l *partitionLocks) acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	l.mu.Lock()
	e := l.entries[key]
	if e == nil {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.unref(key)
		}, nil
	case <-timer.C:
		l.unref(key)
		return nil, errLockTimeout
	case <-ctx.Done():
		l.unref(key)
		return nil, ctx.Err()
	}
}

func (l *partitionLocks) unref(key string) {
	l.mu.Lock()
	if e := l.entries[key]; e != nil {
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
	}
	l.mu.Unlock()
}
