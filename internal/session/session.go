// Package session holds per-conversation pending confirmations. It
// replaces an ambient global with an injected, mutex-guarded store so
// the confirmation gate is testable in isolation. State is in-memory
// only and lost on restart, an accepted trade-off for a single-user
// personal tracker.
package session

import (
	"sync"
	"time"

	"github.com/kevinkling/kashflow/internal/parser"
)

// DefaultTTL bounds how long a parsed intent waits for its yes/no.
const DefaultTTL = 5 * time.Minute

type slot struct {
	intent    parser.Intent
	expiresAt time.Time
}

// Store keeps at most one pending intent per chat. A new Put for the
// same chat overwrites any unconfirmed prior one.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	slots map[int64]slot
}

// NewStore creates a pending-confirmation store. ttl <= 0 falls back
// to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		slots: make(map[int64]slot),
	}
}

// Put parks an intent awaiting confirmation, replacing any prior one
// for the chat.
func (s *Store) Put(chatID int64, in parser.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[chatID] = slot{intent: in, expiresAt: s.now().Add(s.ttl)}
}

// Peek reports the pending intent without consuming it. Expired slots
// are dropped and reported as absent.
func (s *Store) Peek(chatID int64) (parser.Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[chatID]
	if !ok {
		return parser.Intent{}, false
	}
	if s.now().After(sl.expiresAt) {
		delete(s.slots, chatID)
		return parser.Intent{}, false
	}
	return sl.intent, true
}

// Pop consumes the pending intent. The slot is cleared whether or not
// the caller's subsequent posting succeeds, which is exactly the
// contract the conversation boundary needs.
func (s *Store) Pop(chatID int64) (parser.Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[chatID]
	if !ok {
		return parser.Intent{}, false
	}
	delete(s.slots, chatID)
	if s.now().After(sl.expiresAt) {
		return parser.Intent{}, false
	}
	return sl.intent, true
}
