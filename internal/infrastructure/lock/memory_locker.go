package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/agrotrace/backend/internal/domain/shared"
)

type memoryEntry struct {
	held chan struct{}
	refs int
}

// MemoryLocker implements shared.Locker with one mutex per key inside the
// current process. It is suitable for single-instance deployments and tests.
// Entries are dropped as soon as no goroutine holds or waits for them.
type MemoryLocker struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	waitTimeout time.Duration
}

// NewMemoryLocker creates an in-process locker. A positive waitTimeout bounds
// how long Lock waits before failing with shared.ErrLockTimeout.
func NewMemoryLocker(waitTimeout time.Duration) *MemoryLocker {
	return &MemoryLocker{
		entries:     make(map[string]*memoryEntry),
		waitTimeout: waitTimeout,
	}
}

// Lock implements shared.Locker
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	e := l.acquireEntry(key)
	select {
	case e.held <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.held
				l.releaseEntry(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, waitError(ctx, key)
	}
}

// Len returns the number of keys currently held or waited for
func (l *MemoryLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *MemoryLocker) acquireEntry(key string) *memoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &memoryEntry{held: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *MemoryLocker) releaseEntry(key string, e *memoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func waitError(ctx context.Context, key string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", shared.ErrLockTimeout, key)
	}
	return ctx.Err()
}

var _ shared.Locker = (*MemoryLocker)(nil)
