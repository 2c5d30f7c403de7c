package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socratic-tutor/internal/domain"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrBusy         = errors.New("still waiting for the previous reply")
)

type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Input struct {
	Text  string
	Image *domain.Attachment
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// Service drives one conversation. At most one model request is in flight;
// a submit made while waiting is refused, not queued.
type Service struct {
	mu     sync.Mutex
	state  State
	last   time.Time
	store  domain.ConversationStore
	model  *Model
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(store domain.ConversationStore, model *Model, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		model:  model,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends the user turn, asks the model and appends its reply.
// On failure the user turn stays in the history and no reply is added.
func (s *Service) Submit(ctx context.Context, input Input) (domain.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.Image == nil {
		return domain.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		return domain.Message{}, ErrBusy
	}

	history := s.store.Snapshot()
	userMessage := domain.Message{
		ID:        s.newID(),
		Role:      domain.RoleUser,
		Text:      text,
		Timestamp: s.stamp(),
	}
	if input.Image != nil {
		userMessage.Image = input.Image.DataURL()
	}
	if err := s.store.Append(userMessage); err != nil {
		s.mu.Unlock()
		return domain.Message{}, err
	}
	s.state = StateAwaitingResponse
	s.mu.Unlock()

	s.logger.Debug("user turn appended",
		zap.String("message_id", userMessage.ID),
		zap.Bool("has_image", userMessage.HasImage()),
		zap.Int("history_len", len(history)),
	)

	reply, err := s.exchange(ctx, history, text, input.Image)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle

	if err != nil {
		return domain.Message{}, err
	}

	modelMessage := domain.Message{
		ID:        s.newID(),
		Role:      domain.RoleModel,
		Text:      reply,
		Timestamp: s.stamp(),
	}
	if err := s.store.Append(modelMessage); err != nil {
		return domain.Message{}, err
	}

	return modelMessage, nil
}

func (s *Service) exchange(ctx context.Context, history []domain.Message, text string, image *domain.Attachment) (string, error) {
	turns, err := BuildTurns(history, text, image)
	if err != nil {
		s.logger.Error("could not build request from history", zap.Error(err))
		return "", fmt.Errorf("build request: %w", err)
	}
	return s.model.Send(ctx, turns)
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) Awaiting() bool {
	return s.State() == StateAwaitingResponse
}

func (s *Service) Snapshot() []domain.Message {
	return s.store.Snapshot()
}

func (s *Service) ModelName() string {
	return s.model.Name()
}

// stamp returns a timestamp later than every earlier one. Callers hold mu.
func (s *Service) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}
