package auth

import (
	"log"
	"sync"

	"github.com/snacksense/backend/internal/models"
)

// Subscription delivers identity changes onto a single-consumer channel.
// The current identity (possibly nil, meaning signed out) arrives immediately
// on subscribe so a starting consumer can restore the session. Cancel is
// idempotent and must be called when the consumer shuts down.
type Subscription struct {
	C <-chan *models.Identity

	once   sync.Once
	cancel func()
}

// Cancel releases the subscription. After Cancel returns the channel is
// closed and no further values arrive.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers an auth-change listener. Each subscriber gets its own
// buffered channel; a consumer that stops draining loses updates rather than
// blocking sign-in.
func (s *Service) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *models.Identity, 16)
	if s.closed {
		close(ch)
		return &Subscription{C: ch, cancel: func() {}}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	// Initial value for session restore.
	ch <- s.current

	return &Subscription{
		C: ch,
		cancel: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if existing, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(existing)
			}
		},
	}
}

// setIdentity swaps the current identity and fans it out to subscribers.
func (s *Service) setIdentity(identity *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = identity
	for id, ch := range s.subs {
		select {
		case ch <- identity:
		default:
			log.Printf("Auth subscriber %d is not draining, dropping update", id)
		}
	}
}

// CurrentIdentity returns the signed-in identity, or nil when signed out.
func (s *Service) CurrentIdentity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close cancels every outstanding subscription. Used at process shutdown so
// the long-lived auth listener is released.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
