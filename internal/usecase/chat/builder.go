package chat

import (
	"errors"
	"fmt"

	"socratic-tutor/internal/domain"
)

var ErrEmptyTurn = errors.New("pending turn has neither text nor image")

// BuildTurns projects the history plus the pending user turn into the
// request sent to the model. Every turn carries its image part before its
// text part. It performs no I/O and returns equal output for equal input.
func BuildTurns(history []domain.Message, pendingText string, pendingImage *domain.Attachment) ([]domain.Turn, error) {
	if pendingText == "" && pendingImage == nil {
		return nil, ErrEmptyTurn
	}

	turns := make([]domain.Turn, 0, len(history)+1)
	for _, msg := range history {
		turn, err := historyTurn(msg)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", msg.ID, err)
		}
		turns = append(turns, turn)
	}

	parts := make([]domain.Part, 0, 2)
	if pendingImage != nil {
		parts = append(parts, domain.InlineMediaPart{
			MediaType: pendingImage.MediaType,
			Data:      pendingImage.Data,
		})
	}
	if pendingText != "" {
		parts = append(parts, domain.TextPart{Text: pendingText})
	}

	return append(turns, domain.Turn{Role: domain.RoleUser, Parts: parts}), nil
}

func historyTurn(msg domain.Message) (domain.Turn, error) {
	parts := make([]domain.Part, 0, 2)
	if msg.HasImage() {
		mediaType, data, err := domain.SplitDataURL(msg.Image)
		if err != nil {
			return domain.Turn{}, err
		}
		parts = append(parts, domain.InlineMediaPart{MediaType: mediaType, Data: data})
	}
	if msg.Text != "" {
		parts = append(parts, domain.TextPart{Text: msg.Text})
	}
	if len(parts) == 0 {
		return domain.Turn{}, domain.ErrInvalidMessage
	}

	return domain.Turn{Role: msg.Role, Parts: parts}, nil
}
