// Package gemini talks to the Gemini API through the genai SDK.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/usecase/chat"
)

type Client struct {
	api *genai.Client
}

func NewClient(ctx context.Context, apiKey, baseURL string) (*Client, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{api: api}, nil
}

func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	contents, err := toContents(req.Turns)
	if err != nil {
		return "", err
	}

	resp, err := c.api.Models.GenerateContent(ctx, req.Model, contents, generateConfig(req))
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// generateConfig sets no MaxOutputTokens so long derivations are never cut.
func generateConfig(req chat.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(req.ThinkingBudget)),
		}
	}
	return cfg
}

func toContents(turns []domain.Turn) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for i, t := range turns {
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			switch p := p.(type) {
			case domain.TextPart:
				parts = append(parts, genai.NewPartFromText(p.Text))
			case domain.InlineMediaPart:
				data, err := base64.StdEncoding.DecodeString(p.Data)
				if err != nil {
					return nil, fmt.Errorf("turn %d: decode inline media: %w", i, err)
				}
				parts = append(parts, genai.NewPartFromBytes(data, p.MediaType))
			}
		}
		contents = append(contents, genai.NewContentFromParts(parts, role(t.Role)))
	}
	return contents, nil
}

func role(r domain.Role) genai.Role {
	if r == domain.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
