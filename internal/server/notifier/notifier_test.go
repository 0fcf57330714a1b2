package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	// The channel is closed
	_, ok := <-ch
	assert.False(t, ok)

	// Unsubscribing twice is a no-op
	n.Unsubscribe(ch)
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return at }

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast(Event{Kind: KindReload})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, Event{Kind: KindReload, At: at}, ev)
		case <-time.After(100 * time.Millisecond):
			t.Errorf("listener %d did not receive broadcast", i)
		}
	}
}

func TestNotifier_Broadcast_KeepsLatest(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	done := make(chan bool)
	go func() {
		n.Broadcast(Event{Kind: KindColumns, Table: "trips"})
		n.Broadcast(Event{Kind: KindReload})
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on full channel")
	}

	ev := <-ch
	assert.Equal(t, KindReload, ev.Kind)

	select {
	case ev := <-ch:
		t.Errorf("unexpected extra event %+v", ev)
	default:
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()
	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast(Event{Kind: KindReload})
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Len())
}

func TestEvent_Concerns(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		viewer string
		table  string
		want   bool
	}{
		{name: "reload reaches everyone", event: Event{Kind: KindReload}, viewer: "a", table: "trips", want: true},
		{name: "same viewer and table", event: Event{Kind: KindColumns, Table: "trips", Viewer: "a"}, viewer: "a", table: "trips", want: true},
		{name: "other table", event: Event{Kind: KindColumns, Table: "trips", Viewer: "a"}, viewer: "a", table: "tyres", want: false},
		{name: "other viewer", event: Event{Kind: KindColumns, Table: "trips", Viewer: "a"}, viewer: "b", table: "trips", want: false},
		{name: "listener without table", event: Event{Kind: KindColumns, Table: "trips", Viewer: "a"}, viewer: "a", table: "", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Concerns(tt.viewer, tt.table))
		})
	}
}
