package services

import "sync"

// SessionLocks serializes state transitions per session. start/advance/submit
// all funnel through the same lock so a host double-click cannot double-advance
// and duplicate submissions cannot race past the application-level check.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *SessionLocks) Lock(sessionID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
