package gridastar

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	data, err := json.Marshal(Event{Kind: FrontierAdded, Coord: Coord{2, 3}, Seq: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"frontier-added","coord":{"row":2,"col":3},"seq":4}`, string(data))

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, FrontierAdded, back.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"teleported"}`), &back))
	_, err = json.Marshal(Event{})
	assert.Error(t, err, "zero kind is not a valid event")
}

func TestChannelObserver(t *testing.T) {
	t.Run("delivers in order", func(t *testing.T) {
		events := make(chan Event, 16)
		g := mustParse(t, "S..E\n")
		_, err := SearchGrid(testContext(t), g, WithObserver(ChannelObserver(testContext(t), events)))
		require.NoError(t, err)
		close(events)

		seq := 0
		for e := range events {
			assert.Equal(t, seq, e.Seq)
			seq++
		}
		assert.Equal(t, 6, seq)
	})

	t.Run("stream from a worker goroutine", func(t *testing.T) {
		g, _ := NewGrid(8, 8)
		events := make(chan Event)
		done := make(chan Result, 1)
		go func() {
			defer close(events)
			res, _ := Search(testContext(t), g, Coord{0, 0}, Coord{7, 7},
				WithObserver(ChannelObserver(testContext(t), events)))
			done <- res
		}()

		var paths []Coord
		for e := range events {
			if e.Kind == PathMember {
				paths = append(paths, e.Coord)
			}
		}
		res := <-done
		assert.Equal(t, res.Path[1:len(res.Path)-1], paths)
	})

	t.Run("does not block once ctx is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(testContext(t))
		cancel()
		observer := ChannelObserver(ctx, make(chan Event))
		finished := make(chan struct{})
		go func() {
			observer.Observe(Event{Kind: Visited})
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("observer blocked on an abandoned channel")
		}
	})
}

func TestMultiObserver(t *testing.T) {
	var order []string
	first := ObserverFunc(func(Event) { order = append(order, "first") })
	second := ObserverFunc(func(Event) { order = append(order, "second") })

	MultiObserver(first, second).Observe(Event{Kind: PathMember})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "visited", Visited.String())
	assert.Equal(t, "path-member", PathMember.String())
	assert.Equal(t, "n/a:9", EventKind(9).String())
}
