package hris

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServer is a minimal backend for token lifecycle tests: /data wants
// the current token, /api/v1/auth/refresh rotates it.
type authServer struct {
	mu           sync.Mutex
	validToken   string
	refreshCalls int32
	refreshFails bool
	refreshDelay time.Duration
}

func (s *authServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.refreshCalls, 1)
		if s.refreshDelay > 0 {
			time.Sleep(s.refreshDelay)
		}
		if s.refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"refresh token expired"}`))
			return
		}
		s.mu.Lock()
		s.validToken = "rotated-" + time.Now().Format("150405.000000000")
		token := s.validToken
		s.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"access_token": token})
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		valid := "Bearer " + s.validToken
		s.mu.Unlock()
		if r.Header.Get("Authorization") != valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})
	return mux
}

func (s *authServer) refreshCount() int32 {
	return atomic.LoadInt32(&s.refreshCalls)
}

func TestRefresh_TransparentReplay(t *testing.T) {
	backend := &authServer{validToken: "fresh"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	require.NoError(t, client.sess.set("stale"))

	var out map[string]bool
	err := client.do(context.Background(), http.MethodGet, "/data", nil, &out, callOptions{})

	// The caller observes success, never the intermediate 401.
	require.NoError(t, err)
	assert.True(t, out["ok"])
	assert.EqualValues(t, 1, backend.refreshCount())
	// The rotated token is now the session token.
	assert.Equal(t, backend.validToken, client.sess.current())
}

func TestRefresh_SingleFlightUnderConcurrency(t *testing.T) {
	backend := &authServer{validToken: "fresh", refreshDelay: 300 * time.Millisecond}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	require.NoError(t, client.sess.set("stale"))

	const concurrency = 8
	var wg sync.WaitGroup
	errs := make([]error, concurrency)
	for i := 0; i < concurrency; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out map[string]bool
			errs[i] = client.do(context.Background(), http.MethodGet, "/data", nil, &out, callOptions{})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	// One expiry window, one refresh call, no matter how many 401s.
	assert.EqualValues(t, 1, backend.refreshCount())
}

func TestRefresh_FailureTearsDownSession(t *testing.T) {
	backend := &authServer{validToken: "fresh", refreshFails: true}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	store := NewMemoryTokenStore()
	notifier := &recordingNotifier{}
	client, err := New(Config{BaseURL: server.URL, TokenStore: store, Notifier: notifier})
	require.NoError(t, err)
	require.NoError(t, client.sess.set("stale"))

	callErr := client.do(context.Background(), http.MethodGet, "/data", nil, nil, callOptions{})

	require.Error(t, callErr)
	assert.ErrorIs(t, callErr, ErrSessionExpired)
	assert.True(t, IsAuth(callErr))

	// Memory and durable store are both empty.
	assert.Empty(t, client.sess.current())
	stored, _ := store.Load()
	assert.Empty(t, stored)

	// The app got exactly one session-expired signal.
	assert.Equal(t, 1, notifier.expiredCount())
}

func TestRefresh_NeverRecursive(t *testing.T) {
	// The backend keeps rejecting the rotated token. The client must
	// refresh once, replay once, and then give up.
	var dataCalls int32
	mux := http.NewServeMux()
	backend := &authServer{validToken: "unreachable"}
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&backend.refreshCalls, 1)
		json.NewEncoder(w).Encode(map[string]any{"access_token": "still-wrong"})
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dataCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	require.NoError(t, client.sess.set("stale"))

	err := client.do(context.Background(), http.MethodGet, "/data", nil, nil, callOptions{})

	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.EqualValues(t, 1, backend.refreshCount())
	assert.EqualValues(t, 2, atomic.LoadInt32(&dataCalls)) // original + one replay
}

func TestNoTokenMeansNoRefresh(t *testing.T) {
	backend := &authServer{validToken: "fresh"}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	// No session at all: a 401 is just "not signed in".
	err := client.do(context.Background(), http.MethodGet, "/data", nil, nil, callOptions{})

	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Zero(t, backend.refreshCount())
}

func TestRefresh_SkipsWhenTokenAlreadyRotated(t *testing.T) {
	// A 401 can arrive after a peer already rotated the token. The
	// session must hand back the rotated token for a replay instead of
	// burning a second refresh.
	sess := newSession(NewMemoryTokenStore())
	require.NoError(t, sess.set("rotated-by-peer"))

	var refreshCalls int
	token, err := sess.refresh(context.Background(), "stale", func(ctx context.Context) (string, error) {
		refreshCalls++
		return "should-not-happen", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "rotated-by-peer", token)
	assert.Zero(t, refreshCalls)

	// When the failing request carried the current token, the refresh
	// does run.
	token, err = sess.refresh(context.Background(), "rotated-by-peer", func(ctx context.Context) (string, error) {
		refreshCalls++
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, 1, refreshCalls)
}

func TestSession_ExpiryPeek(t *testing.T) {
	client := newTestClient(t, "http://unused", nil)

	// Not a JWT: no panic, zero time.
	require.NoError(t, client.sess.set("opaque-token"))
	assert.True(t, client.TokenExpiresAt().IsZero())

	assert.Empty(t, newTestClient(t, "http://unused", nil).Token())
}
