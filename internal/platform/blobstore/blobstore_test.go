package blobstore

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemory_PutAndGet(t *testing.T) {
	store := NewMemory(time.Minute)

	err := store.Put(context.Background(), "education/doc-1.pdf",
		bytes.NewReader([]byte("%PDF-1.4 fake")), "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok := store.Get("education/doc-1.pdf")
	if !ok {
		t.Fatal("expected object to exist")
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("unexpected content: %q", data)
	}

	exists, err := store.Exists(context.Background(), "education/doc-1.pdf")
	if err != nil || !exists {
		t.Errorf("expected Exists true, got %v, %v", exists, err)
	}
}

func TestMemory_PresignGet_Missing(t *testing.T) {
	store := NewMemory(time.Minute)

	_, err := store.PresignGet(context.Background(), "education/ghost.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_PresignPutThenGet(t *testing.T) {
	store := NewMemory(time.Minute)

	put, err := store.PresignPut(context.Background(), "education/doc-2.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if put.URL == "" || put.ExpiresAt.Before(time.Now()) {
		t.Errorf("bad presigned put: %+v", put)
	}

	get, err := store.PresignGet(context.Background(), "education/doc-2.pdf")
	if err != nil {
		t.Fatalf("expected key reserved after presigned put, got %v", err)
	}
	if !strings.Contains(get.URL, "doc-2.pdf") {
		t.Errorf("presigned URL missing key: %s", get.URL)
	}
}

func TestMemory_DefaultTTL(t *testing.T) {
	store := NewMemory(0)

	url, err := store.PresignPut(context.Background(), "k", "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remaining := time.Until(url.ExpiresAt)
	if remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Errorf("expected ~15m default TTL, got %s", remaining)
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	if err == nil {
		t.Fatal("expected error without bucket")
	}
}
