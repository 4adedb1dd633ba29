// Package storage persists photos and avatars in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	BucketPhotos  = "round-photos"
	BucketAvatars = "avatars"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// Store uploads and removes objects and resolves their public URL.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ObjectKey builds "<folder>/<owner>/<slug>-<uuid><ext>".
// The slug keeps keys readable; the uuid keeps them unique.
func ObjectKey(folder, ownerID, name, ext string) string {
	base := slug.Make(strings.TrimSuffix(name, path.Ext(name)))
	if base == "" {
		base = "upload"
	}
	if len(base) > 40 {
		base = strings.Trim(base[:40], "-")
	}
	return fmt.Sprintf("%s/%s/%s-%s%s", folder, ownerID, base, uuid.NewString(), ext)
}

// KeyFromURL recovers the object key of a URL the store handed out.
func KeyFromURL(s Store, url string) (string, bool) {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func publicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// MemoryStore keeps objects in memory. Local development and tests use it.
type MemoryStore struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

type Object struct {
	Data        []byte
	ContentType string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{BaseURL: baseURL, objects: make(map[string]Object)}
}

func (m *MemoryStore) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return m.PublicURL(key), nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) PublicURL(key string) string { return publicURL(m.BaseURL, key) }

// Get returns a stored object.
func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
