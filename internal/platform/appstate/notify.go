package appstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is a short-lived notice shown to the signed-in nurse.
type Notification struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NotificationCenter holds transient notices and expires them after a fixed
// interval. It satisfies the directory's Notifier.
type NotificationCenter struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

func NewNotificationCenter(ttl time.Duration) *NotificationCenter {
	return &NotificationCenter{ttl: ttl, now: time.Now}
}

func (n *NotificationCenter) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{
		ID:      uuid.New(),
		Message: message,
		At:      n.now(),
	})
}

// Active returns the notices that have not yet expired, pruning the rest.
func (n *NotificationCenter) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	cutoff := n.now().Add(-n.ttl)
	kept := n.items[:0]
	for _, item := range n.items {
		if item.At.After(cutoff) {
			kept = append(kept, item)
		}
	}
	n.items = kept
	return append([]Notification(nil), kept...)
}

// Clear drops everything; called when the session ends.
func (n *NotificationCenter) Clear() {
	n.mu.Lock()
	n.items = nil
	n.mu.Unlock()
}
