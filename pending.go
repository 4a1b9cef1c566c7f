package vette

import (
	"fmt"
	"sync"
)

// PendKindHeldMessage tags pending records created by the hold flow.
const PendKindHeldMessage = "held message"

// Pending is one durable pending record: a kind tag plus the held
// message identifier the approval workflow will act on.
type Pending struct {
	Kind   string
	HeldID string
}

var ErrPendingNotFound = fmt.Errorf("pending record not found")

// PendingStore durably maps opaque tokens to pending records.
type PendingStore interface {
	Add(p Pending) (string, error)
	Lookup(token string) (Pending, error)
}

// Registrar durably records a held message for later moderator
// retrieval and returns its identifier.
type Registrar interface {
	HoldMessage(l *List, m *Message, meta *Metadata, reason string) (string, error)
}

// MemoryStore keeps pendings and held messages in process memory. It
// backs the injector without a DSN and the tests.
type MemoryStore struct {
	mu       sync.Mutex
	pendings map[string]Pending
	held     map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pendings: map[string]Pending{},
		held:     map[string][]byte{},
	}
}

func (s *MemoryStore) Add(p Pending) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := NewToken().String()
	s.pendings[token] = p
	return token, nil
}

func (s *MemoryStore) Lookup(token string) (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pendings[token]
	if !ok {
		return Pending{}, ErrPendingNotFound
	}
	return p, nil
}

func (s *MemoryStore) HoldMessage(l *List, m *Message, meta *Metadata, reason string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := NewToken().String()
	s.held[id] = m.Raw
	return id, nil
}

// HeldCount reports how many messages are currently held.
func (s *MemoryStore) HeldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}
