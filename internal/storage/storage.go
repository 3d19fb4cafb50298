// Package storage reads gallery media from local disk or S3.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned by Open for a key with no object.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidKey is returned for keys that are empty or escape the root.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Object describes one stored media file.
type Object struct {
	Key string
	// URL is the path the site serves the object from.
	URL string
}

// Storage lists and opens media objects.
type Storage interface {
	// List returns the objects whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Open returns the object body and its content type. The caller closes the body.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// cleanKey normalises a slash-separated key and rejects traversal.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func objectURL(prefix, key string) string {
	return strings.TrimRight(prefix, "/") + "/" + key
}
