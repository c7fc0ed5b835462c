package hris

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures everything the client reports.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
	expired       int
}

func (n *recordingNotifier) Notify(notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) SessionExpired() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired++
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notifications)
}

func (n *recordingNotifier) expiredCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expired
}

func newTestClient(t *testing.T, serverURL string, notifier Notifier) *Client {
	t.Helper()
	if notifier == nil {
		notifier = NopNotifier{}
	}
	client, err := New(Config{
		BaseURL:  serverURL,
		Notifier: notifier,
	})
	require.NoError(t, err)
	return client
}

func TestDo_BackendMessageWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"start date is after end date"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	err := client.do(context.Background(), http.MethodGet, "/api/v1/leaves", nil, nil, callOptions{fallback: "could not load leaves"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "start date is after end date", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestDo_FallbackThenGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway exploded</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	// Endpoint-specific canned text beats the generic fallback.
	err := client.do(context.Background(), http.MethodGet, "/a", nil, nil, callOptions{fallback: "could not load attendance"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "could not load attendance", apiErr.Message)
	assert.Equal(t, KindUnknown, apiErr.Kind)

	// With no canned text, the generic message applies.
	err = client.do(context.Background(), http.MethodGet, "/b", nil, nil, callOptions{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, genericMessage, apiErr.Message)
}

func TestDo_NetworkErrorDistinctFromServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := newTestClient(t, server.URL, nil)
	err := client.do(context.Background(), http.MethodGet, "/x", nil, nil, callOptions{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, networkMessage, apiErr.Message)
	assert.True(t, IsNetwork(err))
}

func TestDo_RetryExhaustsExactly(t *testing.T) {
	var attempts int32
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	err := client.do(context.Background(), http.MethodGet, "/flaky", nil, nil, callOptions{
		retry: RetryPolicy{MaxRetries: 3, Delay: time.Millisecond},
	})

	require.Error(t, err)
	mu.Lock()
	defer mu.Unlock()
	// 3 retries on top of the initial attempt.
	assert.EqualValues(t, 4, attempts)
}

func TestDo_NoRetryOn4xx(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"nope"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	err := client.do(context.Background(), http.MethodGet, "/strict", nil, nil, callOptions{
		retry: RetryPolicy{MaxRetries: 5, Delay: time.Millisecond},
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetrySucceedsMidway(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	var out map[string]bool
	err := client.do(context.Background(), http.MethodGet, "/eventually", nil, &out, callOptions{
		retry: RetryPolicy{MaxRetries: 3, Delay: time.Millisecond},
	})

	require.NoError(t, err)
	assert.True(t, out["ok"])
	assert.Equal(t, 3, attempts)
}

func TestReport_DedupsRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := newTestClient(t, server.URL, notifier)

	// The same polling endpoint failing repeatedly toasts once.
	for i := 0; i < 5; i++ {
		_ = client.do(context.Background(), http.MethodGet, "/api/v1/notifications", nil, nil, callOptions{})
	}
	assert.Equal(t, 1, notifier.count())

	// A different endpoint failing is a distinct report.
	_ = client.do(context.Background(), http.MethodGet, "/api/v1/leaves", nil, nil, callOptions{})
	assert.Equal(t, 2, notifier.count())
}

func TestDo_SilentNeverNotifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := newTestClient(t, server.URL, notifier)
	_ = client.do(context.Background(), http.MethodGet, "/probe", nil, nil, callOptions{silent: true})

	assert.Zero(t, notifier.count())
	assert.Zero(t, notifier.expiredCount())
}

func TestDo_UnparsableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	var out map[string]any
	err := client.do(context.Background(), http.MethodGet, "/garbled", nil, &out, callOptions{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindUnknown, apiErr.Kind)
}

func TestNew_MissingBaseURLIsNotFatal(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, client)

	// Calls simply fail as network errors.
	callErr := client.do(context.Background(), http.MethodGet, "/x", nil, nil, callOptions{})
	assert.Error(t, callErr)
}
