package chat

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for lookups of unknown or deleted sessions.
var ErrSessionNotFound = errors.New("chat session not found")

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one entry in a session's ordered history.
type Message struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// Session is an ephemeral chat session. Sessions live only in process memory;
// a restart loses all history.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID *uuid.UUID `json:"customer_id"`
	Messages   []Message  `json:"messages"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SessionStore is a memory-backed session store. All access goes through the
// mutex so concurrent requests against the same session are safe.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create registers a new session, optionally tied to a customer.
func (s *SessionStore) Create(customerID *uuid.UUID) *Session {
	now := time.Now()
	session := &Session{
		ID:         uuid.New(),
		CustomerID: customerID,
		Messages:   []Message{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Get returns a copy of the session to keep callers off the shared slice.
func (s *SessionStore) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// Append adds a message to the session history.
func (s *SessionStore) Append(id uuid.UUID, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = time.Now()
	return nil
}

// Delete removes the session. Deleting an unknown session is an error so the
// HTTP layer can surface 404.
func (s *SessionStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List returns session copies ordered by creation time, newest first.
func (s *SessionStore) List(limit, offset int) []*Session {
	s.mu.RLock()
	all := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		all = append(all, snapshot(session))
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*Session{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

func snapshot(session *Session) *Session {
	copied := *session
	copied.Messages = append([]Message(nil), session.Messages...)
	return &copied
}
