package openai

import (
	"context"
	"errors"

	openaiapi "github.com/sashabaranov/go-openai"

	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/usecase/chat"
)

type Client struct {
	api *openaiapi.Client
}

// NewClient targets api.openai.com unless baseURL points at another
// OpenAI-compatible endpoint.
func NewClient(token, baseURL string) *Client {
	cfg := openaiapi.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api: openaiapi.NewClientWithConfig(cfg),
	}
}

func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	apiReq := openaiapi.ChatCompletionRequest{
		Model:           req.Model,
		Stream:          false,
		Messages:        toAPIMessages(req.SystemInstruction, req.Turns),
		ReasoningEffort: reasoningEffort(req.ThinkingBudget),
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

func toAPIMessages(system string, turns []domain.Turn) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(turns)+1)
	if system != "" {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    openaiapi.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, t := range turns {
		role := openaiapi.ChatMessageRoleUser
		if t.Role == domain.RoleModel {
			role = openaiapi.ChatMessageRoleAssistant
		}

		if text, ok := textOnly(t.Parts); ok {
			res = append(res, openaiapi.ChatCompletionMessage{
				Role:    role,
				Content: text,
			})
			continue
		}

		parts := make([]openaiapi.ChatMessagePart, 0, len(t.Parts))
		for _, p := range t.Parts {
			switch p := p.(type) {
			case domain.TextPart:
				parts = append(parts, openaiapi.ChatMessagePart{
					Type: openaiapi.ChatMessagePartTypeText,
					Text: p.Text,
				})
			case domain.InlineMediaPart:
				parts = append(parts, openaiapi.ChatMessagePart{
					Type: openaiapi.ChatMessagePartTypeImageURL,
					ImageURL: &openaiapi.ChatMessageImageURL{
						URL:    domain.BuildDataURL(p.MediaType, p.Data),
						Detail: openaiapi.ImageURLDetailAuto,
					},
				})
			}
		}

		res = append(res, openaiapi.ChatCompletionMessage{
			Role:         role,
			MultiContent: parts,
		})
	}
	return res
}

func textOnly(parts []domain.Part) (string, bool) {
	if len(parts) != 1 {
		return "", false
	}
	p, ok := parts[0].(domain.TextPart)
	return p.Text, ok
}

// reasoningEffort maps a thinking-token budget onto the coarse effort levels
// of the chat completions API. Zero leaves the server default.
func reasoningEffort(budget int) string {
	switch {
	case budget <= 0:
		return ""
	case budget <= 1024:
		return "low"
	case budget <= 8192:
		return "medium"
	default:
		return "high"
	}
}
