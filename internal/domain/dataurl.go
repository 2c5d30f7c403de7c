package domain

import (
	"errors"
	"strings"
)

const (
	dataURLScheme     = "data:"
	dataURLSeparator  = ";base64,"
	fallbackMediaType = "image/jpeg"
)

var ErrMalformedAttachment = errors.New("malformed attachment reference")

func BuildDataURL(mediaType, payload string) string {
	return dataURLScheme + mediaType + dataURLSeparator + payload
}

// SplitDataURL returns the media type and base64 payload of a data URL.
// Media type parameters are dropped. An empty media type falls back to
// image/jpeg.
func SplitDataURL(ref string) (string, string, error) {
	prefix, payload, ok := strings.Cut(ref, dataURLSeparator)
	if !ok || !strings.HasPrefix(prefix, dataURLScheme) {
		return "", "", ErrMalformedAttachment
	}

	mediaType, _, _ := strings.Cut(strings.TrimPrefix(prefix, dataURLScheme), ";")
	if mediaType == "" {
		mediaType = fallbackMediaType
	}
	return mediaType, payload, nil
}
