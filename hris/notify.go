package hris

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notification is the single user-visible report emitted for a surfaced
// failure (the toast analog). Key is stable per failing endpoint and
// error class so repeated background failures collapse into one report.
type Notification struct {
	Key     string
	Kind    Kind
	Message string
}

// Notifier receives failure reports and the session-expired signal. The
// client reports each failure exactly once; callers generally do not need
// their own generic error UI on top.
type Notifier interface {
	Notify(n Notification)
	// SessionExpired fires after an unrecoverable refresh failure, once
	// the local session has already been torn down. The app should route
	// the user back to its login entry point.
	SessionExpired()
}

// NopNotifier discards everything. Useful in tests and batch tools.
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}
func (NopNotifier) SessionExpired()     {}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(notification Notification) {
	n.Logger.Warn().
		Str("key", notification.Key).
		Str("kind", string(notification.Kind)).
		Msg(notification.Message)
}

func (n LogNotifier) SessionExpired() {
	n.Logger.Warn().Msg("session expired, sign in again")
}

// dedupWindow is how long an identical failure key stays muted after
// being reported once.
const dedupWindow = 30 * time.Second

// deduper drops repeat notifications for the same key inside the window.
type deduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func newDeduper() *deduper {
	return &deduper{seen: make(map[string]time.Time), now: time.Now}
}

// allow reports whether a notification with this key should go out, and
// records it if so.
func (d *deduper) allow(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if last, ok := d.seen[key]; ok && now.Sub(last) < dedupWindow {
		return false
	}
	d.seen[key] = now
	return true
}
