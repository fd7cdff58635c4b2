package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
)

// MaxUploadBytes caps receipt uploads at 8 MiB.
const MaxUploadBytes = 8 << 20

var (
	ErrUnsupportedType = errors.New("unsupported_file_type")
	ErrTooLarge        = errors.New("file_too_large")
)

// Upload is a receipt payload handed to the store.
type Upload struct {
	Data         []byte
	ContentType  string
	OriginalName string
}

// Object describes a stored receipt.
type Object struct {
	Key  string
	URL  string
	Kind string
}

// Store persists receipt uploads and returns their public location.
type Store interface {
	Put(ctx context.Context, upload Upload) (Object, error)
}

var allowedTypes = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"image/heif":      ".heif",
	"application/pdf": ".pdf",
}

// KindFor maps a content type onto the receipt kind stored with the invoice.
func KindFor(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return domain.ReceiptKindImage
	}
	return domain.ReceiptKindDocument
}

func validate(upload Upload) (string, error) {
	if len(upload.Data) == 0 || len(upload.Data) > MaxUploadBytes {
		return "", ErrTooLarge
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// safeName strips directories and anything shell-hostile from an uploaded
// filename before it becomes part of an object key.
func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "receipt"
	}
	return cleaned
}
