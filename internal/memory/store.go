// Package memory owns the per-session conversation transcripts the agent
// feeds to the LLM. Transcripts live in process memory only — nothing
// survives a restart — and each one is bounded by a token budget.
package memory

import (
	"sync"
	"time"

	"github.com/occhi/vendafacil/internal/llm"
)

// Store maps opaque session ids to bounded transcripts. It is safe for
// concurrent use: turns on the same session are serialised through Acquire,
// independent sessions proceed in parallel.
type Store struct {
	maxTokens int

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	turns    []llm.Message
	tokens   int
	lastUsed time.Time
}

func NewStore(maxTokens int) *Store {
	if maxTokens <= 0 {
		panic("memory: maxTokens must be positive")
	}
	return &Store{
		maxTokens: maxTokens,
		sessions:  make(map[string]*session),
	}
}

// MaxTokens returns the transcript token budget.
func (s *Store) MaxTokens() int { return s.maxTokens }

// Session is an exclusive handle on one transcript. While held, any other
// request on the same session id blocks in Acquire.
type Session struct {
	store *Store
	sess  *session
	id    string
}

// Acquire locks the transcript for sessionID, creating an empty one on first
// use. The caller must Release when the turn is finished.
func (s *Store) Acquire(sessionID string) *Session {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{lastUsed: time.Now()}
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	return &Session{store: s, sess: sess, id: sessionID}
}

// History returns a copy of the transcript turns, oldest first.
func (h *Session) History() []llm.Message {
	return append([]llm.Message(nil), h.sess.turns...)
}

// Replace commits a new transcript for the session, evicting the oldest
// turns until the token budget fits. A handle that is Released without
// calling Replace leaves the transcript exactly as it was at Acquire time —
// that is how a cancelled or failed request rolls back.
//
// Replace panics if turns contains a tool result with no matching tool call:
// that transcript could never be replayed to the LLM.
func (h *Session) Replace(turns []llm.Message) {
	validatePairs(turns)
	kept, tokens := Trim(turns, h.store.maxTokens)
	h.sess.turns = kept
	h.sess.tokens = tokens
}

// TokenCount returns the estimated token total of the committed transcript.
func (h *Session) TokenCount() int { return h.sess.tokens }

func (h *Session) Release() {
	h.sess.lastUsed = time.Now()
	h.sess.mu.Unlock()
}

// Snapshot returns a read-only copy of a session's transcript, or nil if the
// session does not exist. It waits for any in-flight turn to finish.
func (s *Store) Snapshot(sessionID string) []llm.Message {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]llm.Message(nil), sess.turns...)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SweepIdle drops sessions whose last activity is older than idleFor and
// returns how many were removed. Sessions currently held by a request are
// skipped.
func (s *Store) SweepIdle(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue // in use
		}
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// validatePairs checks the transcript invariant: every tool result refers to
// a tool call that appeared earlier.
func validatePairs(turns []llm.Message) {
	calls := make(map[string]bool)
	for _, m := range turns {
		for _, tc := range m.ToolCalls {
			calls[tc.ID] = true
		}
		if m.ToolCallID != "" && !calls[m.ToolCallID] {
			panic("memory: tool result " + m.ToolCallID + " has no matching tool call")
		}
	}
}
