package memory

import (
	"context"
	"sync"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/realtime"
)

// EventLog is a realtime.Publisher that records what was published.
type EventLog struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (l *EventLog) Publish(_ context.Context, ev realtime.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *EventLog) Events() []realtime.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]realtime.Event(nil), l.events...)
}

// Named returns the published events called name.
func (l *EventLog) Named(name string) []realtime.Event {
	var out []realtime.Event
	for _, ev := range l.Events() {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}
