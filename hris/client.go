// Package hris is the single point of contact with the HRIS backend. It
// owns the session access token, refreshes it transparently on 401,
// supports opt-in per-call retry, and classifies every failure into one
// uniform error surface so callers never deal with raw transport
// concerns.
package hris

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 15 * time.Second

	// maxResponseBytes caps how much of a JSON response is read. Blob
	// downloads use their own path without this cap.
	maxResponseBytes = 8 << 20
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "https://hris.example.com".
	// Leaving it empty logs a warning at startup rather than failing;
	// calls will simply not reach anything.
	BaseURL string

	// HTTPClient is used for all requests. When nil, a client with the
	// default timeout is created. A cookie jar is attached either way so
	// the HTTP-only refresh-token cookie set by login travels back on
	// refresh calls.
	HTTPClient *http.Client

	// Timeout applies to the internally created HTTP client only.
	Timeout time.Duration

	// TokenStore persists the access token across restarts. Defaults to
	// an in-memory store.
	TokenStore TokenStore

	// Notifier receives the single user-visible report per surfaced
	// failure. Defaults to NopNotifier.
	Notifier Notifier

	Logger zerolog.Logger
}

// Client is the API gateway client. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sess       *session
	notifier   Notifier
	dedup      *deduper
	logger     zerolog.Logger
}

// New creates a Client. The only hard failure is an unusable cookie jar;
// a missing base URL is deliberately just a warning.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		config.Logger.Warn().Msg("no base URL configured, API calls will fail")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	store := config.TokenStore
	if store == nil {
		store = NewMemoryTokenStore()
	}

	notifier := config.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		sess:       newSession(store),
		notifier:   notifier,
		dedup:      newDeduper(),
		logger:     config.Logger,
	}, nil
}

// Token exposes the current access token, primarily for diagnostics.
// Empty when no session exists.
func (c *Client) Token() string {
	return c.sess.current()
}

// SetToken installs an access token directly, for restoring a session
// obtained elsewhere.
func (c *Client) SetToken(token string) error {
	return c.sess.set(token)
}

// TokenExpiresAt reports the current access token's expiry claim, or the
// zero time when there is no usable token.
func (c *Client) TokenExpiresAt() time.Time {
	return c.sess.expiresAt()
}

// callOptions tune one request. The zero value is a plain authenticated
// call with no retry.
type callOptions struct {
	retry    RetryPolicy
	noAuth   bool   // skip the bearer header (login, register, refresh)
	silent   bool   // never notify (boot-time session probe)
	fallback string // endpoint-specific canned error message
}

// do runs one logical call through the retry policy and reports the
// final failure, if any, to the notifier.
func (c *Client) do(ctx context.Context, method, path string, in, out any, opt callOptions) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = c.once(ctx, method, path, in, out, opt, false)
		if err == nil || attempt >= opt.retry.MaxRetries || !retryable(err) {
			break
		}
		c.logger.Debug().
			Str("endpoint", method+" "+path).
			Int("attempt", attempt+1).
			Msg("retrying after transient failure")
		if sleepErr := opt.retry.sleep(ctx); sleepErr != nil {
			break
		}
	}
	if err != nil {
		c.report(err, opt.silent)
	}
	return err
}

// once performs a single attempt, including at most one 401-triggered
// refresh-and-replay. The replayed flag breaks the recursion: a replayed
// request that still gets 401 surfaces the error as-is.
func (c *Client) once(ctx context.Context, method, path string, in, out any, opt callOptions, replayed bool) error {
	endpoint := method + " " + path

	var bodyReader io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: genericMessage, Endpoint: endpoint, Err: err}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: genericMessage, Endpoint: endpoint, Err: err}
	}
	request.Header.Set("Accept", "application/json")
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	var token string
	if !opt.noAuth {
		if token = c.sess.current(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return networkError(endpoint, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return networkError(endpoint, err)
	}

	// A 401 with no token attached means "not signed in", not "token
	// expired"; there is nothing to refresh.
	if response.StatusCode == http.StatusUnauthorized && !opt.noAuth && !replayed && token != "" {
		if _, refreshErr := c.sess.refresh(ctx, token, c.refreshAccessToken); refreshErr != nil {
			c.teardown()
			return &Error{
				Kind:       KindAuth,
				StatusCode: http.StatusUnauthorized,
				Message:    "your session has expired, please sign in again",
				Endpoint:   endpoint,
				Err:        ErrSessionExpired,
			}
		}
		c.logger.Debug().Str("endpoint", endpoint).Msg("token refreshed, replaying request")
		return c.once(ctx, method, path, in, out, opt, true)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return classify(endpoint, response.StatusCode, body, opt.fallback)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: KindUnknown, Message: "unexpected response from server", Endpoint: endpoint, Err: err}
		}
	}
	return nil
}

// refreshAccessToken calls the refresh endpoint. The refresh credential
// is the HTTP-only cookie riding in the jar; this code never sees it. A
// failure here is terminal for the session; the refresh call itself is
// never retried or refreshed.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	var tokens tokenResponse
	err := c.once(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, &tokens, callOptions{noAuth: true, silent: true}, true)
	if err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

// teardown clears every trace of the session and signals the app once.
func (c *Client) teardown() {
	c.sess.clear()
	if c.dedup.allow("session:expired") {
		c.notifier.SessionExpired()
	}
}

// report dispatches the single user-visible notification for a failure,
// collapsing repeats by stable key.
func (c *Client) report(err error, silent bool) {
	if silent {
		return
	}
	apiErr, ok := err.(*Error)
	if !ok {
		return
	}
	if apiErr.Err == ErrSessionExpired {
		// teardown already signaled the notifier
		return
	}
	if c.dedup.allow(apiErr.dedupKey()) {
		c.notifier.Notify(Notification{
			Key:     apiErr.dedupKey(),
			Kind:    apiErr.Kind,
			Message: apiErr.Message,
		})
	}
}

func (c *Client) get(ctx context.Context, path string, out any, opt callOptions) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opt)
}

func (c *Client) post(ctx context.Context, path string, in, out any, opt callOptions) error {
	return c.do(ctx, http.MethodPost, path, in, out, opt)
}

func (c *Client) put(ctx context.Context, path string, in, out any, opt callOptions) error {
	return c.do(ctx, http.MethodPut, path, in, out, opt)
}

func (c *Client) del(ctx context.Context, path string, opt callOptions) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opt)
}
