// Package blobstore stores education PDFs. The production backend is S3 (or
// any S3-compatible endpoint); the in-memory backend serves development and
// tests. Clients never stream PDFs through the API: uploads and downloads go
// through presigned URLs.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

var ErrNotFound = errors.New("object not found")

// DefaultPresignTTL applies when the configured TTL is zero.
const DefaultPresignTTL = 15 * time.Minute

// PresignedURL is a time-limited URL for a direct client upload or download.
type PresignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the object storage contract used by the education domain.
type Store interface {
	// Put writes an object. Used by server-side writers (inbound fax PDFs).
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	// Exists reports whether an object is present under the key.
	Exists(ctx context.Context, key string) (bool, error)
	// PresignPut returns a URL a client may PUT the object to.
	PresignPut(ctx context.Context, key, contentType string) (*PresignedURL, error)
	// PresignGet returns a URL a client may GET the object from.
	// ErrNotFound when no object exists under the key.
	PresignGet(ctx context.Context, key string) (*PresignedURL, error)
}

// Memory is a thread-safe in-memory Store for development and tests. Its
// presigned URLs are well-formed but point at a placeholder host.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	ttl     time.Duration
}

func NewMemory(presignTTL time.Duration) *Memory {
	if presignTTL <= 0 {
		presignTTL = DefaultPresignTTL
	}
	return &Memory{
		objects: make(map[string][]byte),
		ttl:     presignTTL,
	}
}

func (m *Memory) Put(_ context.Context, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading object body: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

func (m *Memory) PresignPut(_ context.Context, key, _ string) (*PresignedURL, error) {
	// Presigning a PUT also reserves the key so a follow-up PresignGet works
	// in development without a real upload.
	m.mu.Lock()
	if _, ok := m.objects[key]; !ok {
		m.objects[key] = nil
	}
	m.mu.Unlock()
	return m.presign("PUT", key), nil
}

func (m *Memory) PresignGet(_ context.Context, key string) (*PresignedURL, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.presign("GET", key), nil
}

// Get returns the stored object bytes. Test helper, not part of Store.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

func (m *Memory) presign(method, key string) *PresignedURL {
	expires := time.Now().Add(m.ttl)
	return &PresignedURL{
		URL: fmt.Sprintf("https://blobstore.local/%s?method=%s&expires=%d",
			url.PathEscape(key), method, expires.Unix()),
		ExpiresAt: expires,
	}
}
