package search

import (
	"sync"
	"time"
)

const (
	// DefaultSessionTTL is how long an idle session keeps its index.
	DefaultSessionTTL = 30 * time.Minute
	// DefaultMaxSessions caps how many sessions a registry keeps at once.
	DefaultMaxSessions = 1024
)

type sessionEntry struct {
	session  *Session
	lastUsed time.Time
}

// Registry hands out search sessions by id. Sessions are created on first use
// and dropped once idle for longer than the TTL. When full, creating a
// session evicts the least recently used one.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	factory     func() *Session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	cleanupTicker *time.Ticker
	stopChan      chan struct{}
	stopOnce      sync.Once
}

func NewRegistry(factory func() *Session, ttl time.Duration, maxSessions int) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	r := &Registry{
		sessions:    make(map[string]*sessionEntry),
		factory:     factory,
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}

	r.cleanupTicker = time.NewTicker(ttl)
	go r.cleanup()

	return r
}

// Get returns the session for id, creating it if needed.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		if len(r.sessions) >= r.maxSessions {
			r.evictOldestLocked()
		}
		e = &sessionEntry{session: r.factory()}
		r.sessions[id] = e
	}
	e.lastUsed = r.now()
	return e.session
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range r.sessions {
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	delete(r.sessions, oldestID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions idle for longer than the TTL and returns how many.
func (r *Registry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) cleanup() {
	for {
		select {
		case <-r.cleanupTicker.C:
			r.Evict()
		case <-r.stopChan:
			return
		}
	}
}

func (r *Registry) Close() {
	r.stopOnce.Do(func() {
		r.cleanupTicker.Stop()
		close(r.stopChan)
	})
}
