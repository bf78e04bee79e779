package dashboard

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultIdle        = 12 * time.Hour
	defaultMaxSessions = 1000
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Sessions maps signed session ids to dashboard stores. State lives in
// memory only and is lost on restart. Sessions idle longer than idle are
// dropped, and the oldest one goes when max is reached.
type Sessions struct {
	secret   []byte
	newStore func() *Store
	idle     time.Duration
	max      int
	now      func() time.Time

	mu     sync.Mutex
	stores map[string]*session
}

func NewSessions(secret string, newStore func() *Store) *Sessions {
	if secret == "" {
		secret = uuid.NewString()
	}
	return &Sessions{
		secret:   []byte(secret),
		newStore: newStore,
		idle:     defaultIdle,
		max:      defaultMaxSessions,
		now:      time.Now,
		stores:   make(map[string]*session),
	}
}

// Lookup returns the store for a cookie value produced by Create or
// Rotate, and marks the session as seen.
func (s *Sessions) Lookup(cookie string) (*Store, bool) {
	sid, ok := s.verify(cookie)
	if !ok {
		return nil, false
	}
	now := s.now()

	s.mu.Lock()
	e, ok := s.stores[sid]
	if ok && now.Sub(e.lastSeen) > s.idle {
		delete(s.stores, sid)
		s.mu.Unlock()
		e.store.Close()
		return nil, false
	}
	if ok {
		e.lastSeen = now
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return e.store, true
}

// Create starts a session and returns its cookie value.
func (s *Sessions) Create() (string, *Store) {
	sid := uuid.NewString()
	st := s.newStore()
	now := s.now()

	s.mu.Lock()
	evicted := s.evictLocked(now)
	s.stores[sid] = &session{store: st, lastSeen: now}
	s.mu.Unlock()

	for _, e := range evicted {
		e.Close()
	}
	return s.cookie(sid), st
}

// Rotate moves the session behind cookie to a fresh id and returns the
// new cookie value. The old value stops resolving.
func (s *Sessions) Rotate(cookie string) (string, bool) {
	old, ok := s.verify(cookie)
	if !ok {
		return "", false
	}
	sid := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.stores[old]
	if !ok {
		return "", false
	}
	delete(s.stores, old)
	e.lastSeen = s.now()
	s.stores[sid] = e
	return s.cookie(sid), true
}

func (s *Sessions) Delete(cookie string) {
	sid, ok := s.verify(cookie)
	if !ok {
		return
	}
	s.mu.Lock()
	e := s.stores[sid]
	delete(s.stores, sid)
	s.mu.Unlock()
	if e != nil {
		e.store.Close()
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// evictLocked removes idle sessions and, at capacity, the least recently
// seen one. The caller closes the returned stores after unlocking.
func (s *Sessions) evictLocked(now time.Time) []*Store {
	var out []*Store
	for sid, e := range s.stores {
		if now.Sub(e.lastSeen) > s.idle {
			delete(s.stores, sid)
			out = append(out, e.store)
		}
	}
	for s.max > 0 && len(s.stores) >= s.max {
		var oldest string
		for sid, e := range s.stores {
			if oldest == "" || e.lastSeen.Before(s.stores[oldest].lastSeen) {
				oldest = sid
			}
		}
		out = append(out, s.stores[oldest].store)
		delete(s.stores, oldest)
	}
	return out
}

func (s *Sessions) cookie(sid string) string {
	return sid + "." + s.sign(sid)
}

func (s *Sessions) sign(sid string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(sid))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}

func (s *Sessions) verify(cookie string) (string, bool) {
	sid, sig, ok := strings.Cut(cookie, ".")
	if !ok || sid == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(sid))) {
		return "", false
	}
	return sid, true
}
