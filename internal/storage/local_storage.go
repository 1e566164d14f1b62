package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/foodgram-backend/pkg/logger"
)

// LocalStorage keeps images on disk under dir, served at urlPrefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(dir, urlPrefix string) *LocalStorage {
	return &LocalStorage{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// Dir is the root directory, exposed so the router can serve it.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// URLPrefix is the public path the directory is served under.
func (s *LocalStorage) URLPrefix() string {
	return s.urlPrefix
}

func (s *LocalStorage) Save(ctx context.Context, folder string, img *Image) (*StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := newObjectKey(folder, img.Ext)
	path := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("Failed to create media directory", err, map[string]interface{}{
			"path": filepath.Dir(path),
		})
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		logger.Error("Failed to write image", err, map[string]interface{}{
			"path": path,
		})
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	logger.Debug("Image stored on disk", map[string]interface{}{
		"key":  key,
		"size": len(img.Data),
	})
	return &StoredObject{Key: key, URL: s.urlPrefix + "/" + key}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid object key %q", key)
	}

	err := os.Remove(filepath.Join(s.dir, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("Failed to delete image", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
