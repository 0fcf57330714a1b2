// Package notifier broadcasts table change events to SSE subscribers.
package notifier

import (
	"sync"
	"time"
)

// Event kinds.
const (
	// KindReload means the rows of every table changed.
	KindReload = "reload"
	// KindColumns means the column layout of a table changed for a viewer.
	KindColumns = "columns"
)

// Event describes a change listeners should re-render for.
type Event struct {
	Kind string `json:"kind"`
	// Table is empty when the event concerns every table.
	Table string `json:"table,omitempty"`
	// Viewer limits the event to one viewer; empty means everyone.
	Viewer string    `json:"-"`
	At     time.Time `json:"at"`
}

// Concerns reports whether a listener showing table to viewer must react.
func (e Event) Concerns(viewer, table string) bool {
	if e.Viewer != "" && e.Viewer != viewer {
		return false
	}
	return e.Table == "" || table == "" || e.Table == table
}

// Notifier fans events out to subscribed listeners. Each listener holds at
// most one pending event; a newer event replaces an unread one, since a
// re-render always reflects the latest state.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
	now       func() time.Time
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
		now:       time.Now,
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	if _, ok := n.listeners[ch]; ok {
		delete(n.listeners, ch)
		close(ch)
	}
	n.mu.Unlock()
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends ev to every listener without blocking. ev.At is set when
// zero.
func (n *Notifier) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = n.now()
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
			continue
		default:
		}
		// Drop the stale pending event and deliver the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}
