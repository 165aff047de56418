package usecase

import (
	"context"
	"sync"
	"time"

	"product_manager/internal/clients"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sessions keeps one Manager per browser session. A session that has been
// idle for longer than the TTL is dropped, and its next request starts over
// like a fresh page load.
type Sessions struct {
	client clients.CatalogClient
	logger *logrus.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	manager  *Manager
	lastSeen time.Time
}

func NewSessions(client clients.CatalogClient, ttl time.Duration, logger *logrus.Logger) *Sessions {
	return &Sessions{
		client:   client,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Get returns the manager for id. When id is unknown or expired a new
// session is created; created reports that case and newID is the id to hand
// back to the browser.
func (s *Sessions) Get(id string) (m *Manager, newID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok && now.Sub(sess.lastSeen) <= s.ttl {
		sess.lastSeen = now
		return sess.manager, id, false
	}

	newID = uuid.NewString()
	sess := &session{manager: NewManager(s.client, s.logger), lastSeen: now}
	s.sessions[newID] = sess
	s.logger.WithField("component", "sessions").Debugf("Started session %s", newID)
	return sess.manager, newID, true
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Sessions) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.WithField("component", "sessions").Infof("Expired %d idle sessions", n)
			}
		}
	}
}
