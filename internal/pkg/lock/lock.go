// Package lock provides keyed locks used as the serialisation boundary of a
// game room: every action of one room runs while holding the room's lock,
// distinct rooms proceed in parallel.
package lock

import (
	"context"
	"sync"
	"time"
)

// keyMutex is a mutex that can be acquired with a deadline.
type keyMutex struct {
	ch chan struct{}
	// refs counts the holder and every waiter; guarded by KeyLock.mu.
	refs int
}

// KeyLock holds one mutex per key. A key's mutex lives only while someone
// holds or waits for it, so rooms that come and go leave nothing behind.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyMutex
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyMutex)}
}

// acquire registers interest in key and returns its mutex.
func (kl *KeyLock) acquire(key string) *keyMutex {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	m, ok := kl.locks[key]
	if !ok {
		m = &keyMutex{ch: make(chan struct{}, 1)}
		kl.locks[key] = m
	}
	m.refs++
	return m
}

// drop gives up an interest taken by acquire. Must hold kl.mu.
func (kl *KeyLock) drop(key string, m *keyMutex) {
	m.refs--
	if m.refs == 0 {
		delete(kl.locks, key)
	}
}

// Lock blocks until the lock for key is held.
func (kl *KeyLock) Lock(key string) {
	kl.acquire(key).ch <- struct{}{}
}

// Unlock releases the lock for key. Unlocking a key that is not held is a
// no-op.
func (kl *KeyLock) Unlock(key string) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	m, ok := kl.locks[key]
	if !ok {
		return
	}
	select {
	case <-m.ch:
		kl.drop(key, m)
	default:
	}
}

// LockContext waits for the lock until the timeout elapses or ctx is done.
// A non-positive timeout waits on ctx alone.
func (kl *KeyLock) LockContext(ctx context.Context, key string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	m := kl.acquire(key)
	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		kl.mu.Lock()
		kl.drop(key, m)
		kl.mu.Unlock()

		if ctx.Err() == context.DeadlineExceeded {
			return ErrLockTimeout
		}
		return ctx.Err()
	}
}
