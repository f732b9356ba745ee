package indexer

import "sync/atomic"

// IndexLock is a non-blocking lock for warm-up runs. A second caller learns
// that indexing is already in progress instead of queueing behind it.
type IndexLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that acquired it.
func (l *IndexLock) Release() {
	l.state.Store(0)
}

// Held reports whether the lock is currently held
func (l *IndexLock) Held() bool {
	return l.state.Load() == 1
}
