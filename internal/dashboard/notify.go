package dashboard

import (
	"time"
)

// DefaultNotificationTTL is how long a notification stays visible unless configured otherwise.
const DefaultNotificationTTL = 5 * time.Second

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one transient message.
type Notification struct {
	ID        int
	Level     Level
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier is a stack of transient messages, each with its own expiry.
//
// Messages are never merged or queued; every call to Notify adds a new entry.
type Notifier struct {
	TTL time.Duration
	Now func() time.Time

	nextID int
	items  []Notification
}

// NewNotifier creates a Notifier. A non-positive ttl uses [DefaultNotificationTTL].
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{TTL: ttl, Now: time.Now}
}

// Notify appends a message and returns it. The caller schedules [Notifier.Expire] after TTL.
func (n *Notifier) Notify(level Level, message string) Notification {
	now := n.now()
	n.nextID++
	item := Notification{
		ID:        n.nextID,
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl()),
	}
	n.items = append(n.items, item)
	return item
}

func (n *Notifier) Info(message string) Notification    { return n.Notify(LevelInfo, message) }
func (n *Notifier) Success(message string) Notification { return n.Notify(LevelSuccess, message) }
func (n *Notifier) Error(message string) Notification   { return n.Notify(LevelError, message) }

// Expire removes the notification with id. Other notifications are unaffected.
func (n *Notifier) Expire(id int) bool {
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// Dismiss removes a notification before its expiry.
func (n *Notifier) Dismiss(id int) bool {
	return n.Expire(id)
}

// Prune removes every notification whose expiry is not after now and returns how many were removed.
func (n *Notifier) Prune(now time.Time) int {
	kept := n.items[:0]
	for _, item := range n.items {
		if item.ExpiresAt.After(now) {
			kept = append(kept, item)
		}
	}
	removed := len(n.items) - len(kept)
	n.items = kept
	return removed
}

// Active returns the current notifications, oldest first.
func (n *Notifier) Active() []Notification {
	return append([]Notification(nil), n.items...)
}

// Latest returns the most recent notification.
func (n *Notifier) Latest() (Notification, bool) {
	if len(n.items) == 0 {
		return Notification{}, false
	}
	return n.items[len(n.items)-1], true
}

func (n *Notifier) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Notifier) ttl() time.Duration {
	if n.TTL <= 0 {
		return DefaultNotificationTTL
	}
	return n.TTL
}
