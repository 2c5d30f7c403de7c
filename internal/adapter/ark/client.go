// Package ark talks to Volcengine Ark models through eino.
package ark

import (
	"context"
	"errors"
	"fmt"

	arkmodel "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/usecase/chat"
)

const DefaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"

// Client ignores CompletionRequest.Model and ThinkingBudget: the endpoint id
// is fixed when the chat model is built and Ark has no budget knob.
type Client struct {
	model model.BaseChatModel
}

func NewClient(ctx context.Context, apiKey, modelID, baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cm, err := arkmodel.NewChatModel(ctx, &arkmodel.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}
	return &Client{model: cm}, nil
}

func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	resp, err := c.model.Generate(ctx, toMessages(req.SystemInstruction, req.Turns))
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("ark returned empty response")
	}
	return resp.Content, nil
}

func toMessages(system string, turns []domain.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, schema.SystemMessage(system))
	}

	for _, t := range turns {
		role := schema.User
		if t.Role == domain.RoleModel {
			role = schema.Assistant
		}

		if len(t.Parts) == 1 {
			if p, ok := t.Parts[0].(domain.TextPart); ok {
				msgs = append(msgs, &schema.Message{Role: role, Content: p.Text})
				continue
			}
		}

		parts := make([]schema.ChatMessagePart, 0, len(t.Parts))
		for _, p := range t.Parts {
			switch p := p.(type) {
			case domain.TextPart:
				parts = append(parts, schema.ChatMessagePart{
					Type: schema.ChatMessagePartTypeText,
					Text: p.Text,
				})
			case domain.InlineMediaPart:
				parts = append(parts, schema.ChatMessagePart{
					Type: schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{
						URL:      domain.BuildDataURL(p.MediaType, p.Data),
						MIMEType: p.MediaType,
					},
				})
			}
		}
		msgs = append(msgs, &schema.Message{Role: role, MultiContent: parts})
	}
	return msgs
}
