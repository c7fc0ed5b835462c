package hris

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind buckets every wire failure into the four classes callers branch on.
type Kind string

const (
	// KindAuth covers 401/403 on credential or authorization operations.
	KindAuth Kind = "auth"
	// KindValidation covers other 4xx responses carrying a backend message.
	KindValidation Kind = "validation"
	// KindNetwork covers requests that never reached a server: timeout,
	// DNS failure, connection refused.
	KindNetwork Kind = "network"
	// KindUnknown covers everything else, including unparsable responses.
	KindUnknown Kind = "unknown"
)

// Sentinel errors for expected states callers branch on.
var (
	// ErrNotLoggedIn is returned by CurrentUser when no session exists.
	// It is a state, not a failure, and is never reported to the notifier.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired is returned when a silent token refresh fails and
	// the local session has been torn down.
	ErrSessionExpired = errors.New("session expired")
)

// Error is the uniform failure surfaced for any backend call.
type Error struct {
	Kind       Kind
	StatusCode int    // zero for network failures
	Message    string // most specific text available
	Endpoint   string // method and path, for logging and dedup keys
	Err        error  // underlying transport error, if any
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match session-expired errors against the sentinel.
func (e *Error) Is(target error) bool {
	return target == ErrSessionExpired && e.Err == ErrSessionExpired
}

// dedupKey is the stable identity used to collapse repeated notifications
// for the same failing endpoint (background polling in particular).
func (e *Error) dedupKey() string {
	return string(e.Kind) + ":" + e.Endpoint
}

// IsAuth reports whether err is an authentication or authorization failure.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsNetwork reports whether err means the request never reached a server.
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}

// IsValidation reports whether err is a backend-rejected request.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}

const (
	genericMessage = "something went wrong, please try again"
	networkMessage = "could not reach the server, check your connection"
)

// classify builds the uniform error for a non-2xx response. Message
// precedence: backend-provided message, then the endpoint's canned
// fallback, then a generic text.
func classify(endpoint string, status int, body []byte, fallback string) *Error {
	message := backendMessage(body)
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = genericMessage
	}

	kind := KindUnknown
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status >= 400 && status < 500 && backendMessage(body) != "":
		kind = KindValidation
	}

	return &Error{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Endpoint:   endpoint,
	}
}

// networkError wraps a transport-level failure (no response received).
func networkError(endpoint string, err error) *Error {
	return &Error{
		Kind:     KindNetwork,
		Message:  networkMessage,
		Endpoint: endpoint,
		Err:      err,
	}
}

// backendMessage extracts the message field from the backend's error
// envelope, if the body carries one.
func backendMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		return envelope.Message
	}
	return ""
}
