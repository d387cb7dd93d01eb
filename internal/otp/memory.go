package otp

import (
	"context"
	"sync"
	"time"
)

type record struct {
	code     string
	issuedAt time.Time
}

// MemoryLedger is a process-local ledger backed by a mutex-guarded map.
// Expiry is enforced on read; there is no background eviction.
type MemoryLedger struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	records map[string]record
}

// NewMemoryLedger creates a ledger with the given verification window.
// A non-positive window falls back to DefaultWindow.
func NewMemoryLedger(window time.Duration) *MemoryLedger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLedger{
		window:  window,
		now:     time.Now,
		records: make(map[string]record),
	}
}

// Issue generates a code and stores it, replacing any live code for the
// identifier. Concurrent issues resolve last-write-wins.
func (l *MemoryLedger) Issue(_ context.Context, identifier string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	l.mu.Lock()
	l.records[identifier] = record{code: code, issuedAt: l.now()}
	l.mu.Unlock()
	return code, nil
}

// Verify checks the candidate against the stored code. On success the
// record is deleted, making verification strictly single-use.
func (l *MemoryLedger) Verify(_ context.Context, identifier, candidate string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[identifier]
	if !ok {
		return ErrNotFound
	}
	if l.now().Sub(rec.issuedAt) > l.window {
		delete(l.records, identifier)
		return ErrExpired
	}
	if rec.code != candidate {
		return ErrMismatch
	}
	delete(l.records, identifier)
	return nil
}
