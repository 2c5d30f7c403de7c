package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"socratic-tutor/internal/domain"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	errEmptyFile            = errors.New("file is empty")
)

// ReadError reports that the bytes of an attachment could not be read.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Source is a user-selected file. MediaType may be empty when the host
// does not declare one; the type is then sniffed from the content.
type Source interface {
	Name() string
	MediaType() string
	Read(ctx context.Context) ([]byte, error)
}

// Encode reads src and returns it as a transport-ready attachment.
func Encode(ctx context.Context, src Source) (domain.Attachment, error) {
	declared := NormalizeMediaType(src.MediaType())
	if declared != "" && !IsImage(declared) {
		return domain.Attachment{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, declared)
	}

	data, err := src.Read(ctx)
	if err != nil {
		return domain.Attachment{}, &ReadError{Source: src.Name(), Err: err}
	}
	if len(data) == 0 {
		return domain.Attachment{}, &ReadError{Source: src.Name(), Err: errEmptyFile}
	}

	mediaType := declared
	if mediaType == "" {
		mediaType = NormalizeMediaType(mimetype.Detect(data).String())
		if !IsImage(mediaType) {
			return domain.Attachment{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
		}
	}

	payload := base64.StdEncoding.EncodeToString(data)
	return domain.Attachment{
		Data:      payload,
		Preview:   domain.BuildDataURL(mediaType, payload),
		MediaType: mediaType,
		Size:      len(data),
	}, nil
}

func IsImage(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), "image/")
}

// NormalizeMediaType lowercases a media type and drops its parameters.
func NormalizeMediaType(raw string) string {
	mediaType, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}
