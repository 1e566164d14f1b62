package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Folders under which images are stored.
const (
	FolderRecipes = "recipes/images"
	FolderAvatars = "users/avatars"
)

var (
	ErrInvalidImage     = errors.New("invalid image payload")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image is too large")
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a decoded upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// StoredObject locates a stored image. Key is what Delete takes; URL is what
// clients see.
type StoredObject struct {
	Key string
	URL string
}

// ImageStorage is the blob store for recipe images and avatars.
type ImageStorage interface {
	Save(ctx context.Context, folder string, img *Image) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// DecodeDataURI parses a base64 data URI such as
// "data:image/png;base64,iVBOR...". The content type is sniffed from the
// bytes, not trusted from the header.
func DecodeDataURI(value string, maxBytes int64) (*Image, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "data:") {
		return nil, fmt.Errorf("%w: expected a data URI", ErrInvalidImage)
	}

	meta, payload, ok := strings.Cut(value[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: expected base64 encoding", ErrInvalidImage)
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

func newObjectKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), ext)
}
