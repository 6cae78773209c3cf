package gridastar

import (
	"context"
	"fmt"
	"sync"
)

// EventKind tags an observation.
type EventKind int

const (
	// Visited: the cell was closed. Never emitted for the start.
	Visited EventKind = iota + 1
	// FrontierAdded: the cell entered the open set. Never emitted for start or end.
	FrontierAdded
	// PathMember: the cell lies on the final path. Never emitted for start or end.
	PathMember
)

func (k EventKind) String() string {
	switch k {
	case Visited:
		return "visited"
	case FrontierAdded:
		return "frontier-added"
	case PathMember:
		return "path-member"
	default:
		return fmt.Sprintf("n/a:%d", int(k))
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	switch k {
	case Visited, FrontierAdded, PathMember:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown event kind %d", int(k))
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for _, candidate := range []EventKind{Visited, FrontierAdded, PathMember} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is one observation. Seq is the emission index within its run.
type Event struct {
	Kind  EventKind `json:"kind"`
	Coord Coord     `json:"coord"`
	Seq   int       `json:"seq"`
}

// Observer receives events synchronously, in the order the algorithm produces them.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// Recorder keeps every event it receives. It is safe to read from another
// goroutine while a search writes to it.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Coords returns the coordinates of the recorded events of the given kind.
func (r *Recorder) Coords(kind EventKind) []Coord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Coord
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e.Coord)
		}
	}
	return out
}

// ChannelObserver forwards events to ch. A send blocks until the consumer
// takes it or ctx is done; after that events are dropped.
func ChannelObserver(ctx context.Context, ch chan<- Event) Observer {
	return ObserverFunc(func(e Event) {
		select {
		case ch <- e:
		case <-ctx.Done():
		}
	})
}

// MultiObserver delivers each event to every observer, in argument order.
func MultiObserver(observers ...Observer) Observer {
	return ObserverFunc(func(e Event) {
		for _, o := range observers {
			o.Observe(e)
		}
	})
}
