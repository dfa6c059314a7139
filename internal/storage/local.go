package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage keeps photos on disk, one directory per collection
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root, urlPrefix string) *LocalStorage {
	return &LocalStorage{
		root:      root,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

// Root returns the directory the collections live in
func (s *LocalStorage) Root() string {
	return s.root
}

// Save creates the collection directory (with parents) if needed and writes
// data in a single call.
func (s *LocalStorage) Save(ctx context.Context, collection, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validSegment(collection) || !validSegment(name) {
		return "", fmt.Errorf("invalid storage path %q/%q", collection, name)
	}

	dir := filepath.Join(s.root, collection)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create collection directory: %w", err)
	}

	target := filepath.Join(dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	_, err = f.Write(data)
	closeErr := f.Close()
	if err = errors.Join(err, closeErr); err != nil {
		// Don't leave a truncated file behind
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(collection, name), nil
}

func (s *LocalStorage) URL(p string) string {
	return s.urlPrefix + "/" + p
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
