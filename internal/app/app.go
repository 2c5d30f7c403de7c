// Package app wires configuration, logging and the model client shared by
// the tutor commands.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"socratic-tutor/internal/adapter/provider"
	"socratic-tutor/internal/config"
	"socratic-tutor/internal/logger"
	"socratic-tutor/internal/usecase/chat"
)

// Options holds the root command's persistent flags.
type Options struct {
	EnvFile    string
	ConfigFile string
	Debug      bool
}

type App struct {
	Config config.Config
	Logger *zap.Logger
	Model  *chat.Model
}

func Setup(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.EnvFile, opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	cfg.Debug = cfg.Debug || opts.Debug

	log := logger.New(cfg.Debug)

	client, err := provider.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create %s client: %w", cfg.Provider, err)
	}

	log.Info("tutor model ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("thinking_budget", cfg.ThinkingBudget),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)

	return &App{
		Config: cfg,
		Logger: log,
		Model:  chat.NewModel(client, chat.ModelConfigFrom(cfg), log),
	}, nil
}

// Close flushes the logger.
func (a *App) Close() {
	_ = a.Logger.Sync()
}
