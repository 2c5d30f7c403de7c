package memory

import (
	"sync"

	"socratic-tutor/internal/domain"
)

// Store is an in-memory, append-only conversation log.
type Store struct {
	mu       sync.RWMutex
	messages []domain.Message
}

func NewStore() *Store {
	return &Store{
		messages: make([]domain.Message, 0, 16),
	}
}

func (s *Store) Append(msg domain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *Store) Snapshot() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Message(nil), s.messages...)
}
