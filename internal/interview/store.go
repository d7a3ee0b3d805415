package interview

import "sync"

// Store holds active sessions by id. Each entry has its own lock so
// operations on one session are serialized while different sessions run in
// parallel.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	sess    *Session
	removed bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// put stores sess, replacing any session with the same id.
func (s *Store) put(sess *Session) {
	e := &entry{sess: sess}

	s.mu.Lock()
	old := s.entries[sess.ID]
	s.entries[sess.ID] = e
	s.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.removed = true
		old.mu.Unlock()
	}
}

// acquire returns the locked entry for id. The caller must call release.
func (s *Store) acquire(id string) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, false
	}
	return e, true
}

func (e *entry) release() {
	e.mu.Unlock()
}

// remove deletes e from the store. It must be called with e locked.
func (s *Store) remove(id string, e *entry) {
	e.removed = true

	s.mu.Lock()
	if s.entries[id] == e {
		delete(s.entries, id)
	}
	s.mu.Unlock()
}

// Get returns a copy of the session with id.
func (s *Store) Get(id string) (Session, bool) {
	e, ok := s.acquire(id)
	if !ok {
		return Session{}, false
	}
	defer e.release()
	return e.sess.clone(), true
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
