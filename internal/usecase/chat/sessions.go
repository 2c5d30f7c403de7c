package chat

import (
	"sync"

	"go.uber.org/zap"

	"socratic-tutor/internal/domain"
)

// Sessions keeps one independent conversation per key, created on first use.
type Sessions struct {
	mu       sync.Mutex
	items    map[string]*Service
	newStore func() domain.ConversationStore
	model    *Model
	logger   *zap.Logger
	opts     []Option
}

func NewSessions(newStore func() domain.ConversationStore, model *Model, logger *zap.Logger, opts ...Option) *Sessions {
	return &Sessions{
		items:    make(map[string]*Service),
		newStore: newStore,
		model:    model,
		logger:   logger,
		opts:     opts,
	}
}

func (s *Sessions) Get(key string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, ok := s.items[key]; ok {
		return svc
	}

	svc := NewService(s.newStore(), s.model, s.logger.With(zap.String("conversation", key)), s.opts...)
	s.items[key] = svc
	s.logger.Info("conversation started", zap.String("conversation", key))
	return svc
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
