// Package provider builds the model client selected by the configuration.
package provider

import (
	"context"
	"fmt"

	"socratic-tutor/internal/adapter/ark"
	"socratic-tutor/internal/adapter/gemini"
	"socratic-tutor/internal/adapter/openai"
	"socratic-tutor/internal/config"
	"socratic-tutor/internal/usecase/chat"
)

func New(ctx context.Context, cfg config.Config) (chat.Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.APIKey, cfg.BaseURL), nil
	case config.ProviderArk:
		client, err := ark.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
