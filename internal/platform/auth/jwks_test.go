package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func rsaJWK(t *testing.T, kid string, pub *rsa.PublicKey) JWKSKey {
	t.Helper()
	return JWKSKey{
		Kty: "RSA",
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func TestJWKSCache_SingleFlightRefresh(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var fetches int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		// Hold the response open so concurrent callers pile up behind it.
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(JWKSResponse{Keys: []JWKSKey{rsaJWK(t, "key-1", &priv.PublicKey)}})
	}))
	defer srv.Close()

	cache := NewJWKSCache(srv.URL, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetKey("key-1"); err != nil {
				t.Errorf("GetKey: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("concurrent cold reads caused %d fetches, want 1", got)
	}

	// A fresh cache serves without touching the endpoint again.
	if _, err := cache.GetKey("key-1"); err != nil {
		t.Fatalf("GetKey after warmup: %v", err)
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("fresh read refetched: %d fetches, want 1", got)
	}
}

func TestJWKSCache_UnknownKidRateLimited(t *testing.T) {
	var fetches int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		json.NewEncoder(w).Encode(JWKSResponse{Keys: []JWKSKey{}})
	}))
	defer srv.Close()

	cache := NewJWKSCache(srv.URL, time.Hour)

	for i := 0; i < 5; i++ {
		if _, err := cache.GetKey("no-such-kid"); err == nil {
			t.Fatal("expected error for unpublished kid")
		}
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("unknown-kid flood caused %d fetches, want 1", got)
	}
}
