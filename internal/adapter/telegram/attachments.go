package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"socratic-tutor/internal/usecase/attachment"
)

// Telegram re-encodes every photo as JPEG.
const photoMediaType = "image/jpeg"

// fileURLResolver is satisfied by *tgbotapi.BotAPI.
type fileURLResolver interface {
	GetFileDirectURL(fileID string) (string, error)
}

// remoteFile is an attachment.Source downloaded from Telegram's file API.
type remoteFile struct {
	resolver  fileURLResolver
	http      *http.Client
	fileID    string
	name      string
	mediaType string
}

func (f remoteFile) Name() string {
	return f.name
}

func (f remoteFile) MediaType() string {
	return f.mediaType
}

func (f remoteFile) Read(ctx context.Context) ([]byte, error) {
	url, err := f.resolver.GetFileDirectURL(f.fileID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", f.name, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// attachmentSource picks the file a message carries. Photos use the largest
// size. ok is false when the message has no file at all.
func attachmentSource(resolver fileURLResolver, client *http.Client, msg *tgbotapi.Message) (attachment.Source, bool) {
	switch {
	case len(msg.Photo) > 0:
		best := msg.Photo[len(msg.Photo)-1]
		return remoteFile{
			resolver:  resolver,
			http:      client,
			fileID:    best.FileID,
			name:      fmt.Sprintf("photo %dx%d", best.Width, best.Height),
			mediaType: photoMediaType,
		}, true
	case msg.Document != nil:
		name := msg.Document.FileName
		if name == "" {
			name = filepath.Base(msg.Document.FileID)
		}
		return remoteFile{
			resolver:  resolver,
			http:      client,
			fileID:    msg.Document.FileID,
			name:      name,
			mediaType: msg.Document.MimeType,
		}, true
	default:
		return nil, false
	}
}

// hasUnsupportedMedia reports media the tutor cannot look at.
func hasUnsupportedMedia(msg *tgbotapi.Message) bool {
	return msg.Audio != nil || msg.Voice != nil || msg.Video != nil ||
		msg.VideoNote != nil || msg.Sticker != nil || msg.Animation != nil
}
