package hris

import (
	"context"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// session owns the access token. It is the only mutable state shared
// across concurrent calls, and only the login, refresh, and logout paths
// write to it. The refresh token itself never passes through here: it
// lives in an HTTP-only cookie held by the client's cookie jar.
type session struct {
	mu    sync.Mutex
	token string
	store TokenStore

	// inflight is the refresh currently being executed, if any.
	// Concurrent 401s wait on it instead of issuing their own refresh,
	// so one expiry window produces exactly one refresh call.
	inflight *refreshCall
}

type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

func newSession(store TokenStore) *session {
	s := &session{store: store}
	if token, err := store.Load(); err == nil {
		s.token = token
	}
	return s
}

// current returns the access token, or "" when no session exists.
func (s *session) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// set records a fresh token in memory and in the durable store.
func (s *session) set(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.store.Save(token)
}

// clear tears the session down completely: memory and durable store.
// After clear, no stale token can leak into later unauthenticated calls.
func (s *session) clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	_ = s.store.Clear()
}

// refresh runs fn at most once per expiry window. The first caller
// executes it; everyone else arriving while it is in flight waits for the
// shared result. stale is the token the failing request carried: when the
// session already holds a different token, a peer finished rotating while
// the 401 was in transit, so the caller just replays with the new token
// instead of forcing a second refresh. fn must return the new access
// token.
func (s *session) refresh(ctx context.Context, stale string, fn func(ctx context.Context) (string, error)) (string, error) {
	s.mu.Lock()
	if s.token != "" && s.token != stale {
		token := s.token
		s.mu.Unlock()
		return token, nil
	}
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	s.inflight = call
	s.mu.Unlock()

	token, err := fn(ctx)

	s.mu.Lock()
	if err == nil {
		s.token = token
	}
	s.inflight = nil
	s.mu.Unlock()

	if err == nil {
		_ = s.store.Save(token)
	}

	call.token, call.err = token, err
	close(call.done)
	return token, err
}

// expiresAt peeks at the access token's exp claim without verifying the
// signature (the backend is the verifier; the client only needs the
// timestamp for display and logging). Zero time when there is no token or
// it does not parse.
func (s *session) expiresAt() time.Time {
	token := s.current()
	if token == "" {
		return time.Time{}
	}
	parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return time.Time{}
	}
	return parsed.Expiration()
}
