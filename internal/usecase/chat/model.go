package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"socratic-tutor/internal/config"
	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/logger"
)

// FallbackReply replaces a successful but empty model response.
const FallbackReply = "I'm sorry, I couldn't generate a response. Please try again."

// Client is implemented by the provider adapters.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries no output-length cap: step-by-step
// explanations must not be truncated.
type CompletionRequest struct {
	Model             string
	SystemInstruction string
	ThinkingBudget    int
	Turns             []domain.Turn
}

type ModelConfig struct {
	Model             string
	SystemInstruction string
	ThinkingBudget    int
	Timeout           time.Duration
}

func ModelConfigFrom(cfg config.Config) ModelConfig {
	return ModelConfig{
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
		ThinkingBudget:    cfg.ThinkingBudget,
		Timeout:           cfg.RequestTimeout,
	}
}

// ModelInvocationError wraps any failure of the provider call.
type ModelInvocationError struct {
	Model string
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model %s invocation failed: %v", e.Model, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// Model performs exactly one provider call per Send. There is no retry.
type Model struct {
	client Client
	cfg    ModelConfig
	logger *zap.Logger
}

func NewModel(client Client, cfg ModelConfig, logger *zap.Logger) *Model {
	return &Model{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (m *Model) Name() string {
	return m.cfg.Model
}

func (m *Model) Send(ctx context.Context, turns []domain.Turn) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	m.logger.Debug("sending turns to model",
		zap.String("model", m.cfg.Model),
		zap.Int("turn_count", len(turns)),
		zap.Int("thinking_budget", m.cfg.ThinkingBudget),
	)

	reply, err := m.client.Complete(ctx, CompletionRequest{
		Model:             m.cfg.Model,
		SystemInstruction: m.cfg.SystemInstruction,
		ThinkingBudget:    m.cfg.ThinkingBudget,
		Turns:             turns,
	})
	if err != nil {
		m.logger.Error("model request failed",
			zap.String("model", m.cfg.Model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", &ModelInvocationError{Model: m.cfg.Model, Err: err}
	}

	if strings.TrimSpace(reply) == "" {
		m.logger.Warn("model returned no text, using fallback reply", zap.String("model", m.cfg.Model))
		return FallbackReply, nil
	}

	m.logger.Debug("received model reply",
		zap.Duration("duration", time.Since(start)),
		zap.String("content_preview", logger.Truncate(reply, 100)),
	)
	return reply, nil
}
