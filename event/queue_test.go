package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < 5; i++ {
		q.Push(Event{Type: EventContactBegin, Step: uint64(i)})
	}
	assert.Equal(t, 5, q.Len())

	got := q.Consume()
	require.Len(t, got, 5)
	for i, ev := range got {
		assert.Equal(t, uint64(i), ev.Step)
	}
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Consume())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewEventQueue()
	extra := 10
	for i := 0; i < parameter.EventQueueSize+extra; i++ {
		q.Push(Event{Step: uint64(i)})
	}

	assert.Equal(t, uint64(extra), q.Dropped())
	assert.Equal(t, parameter.EventQueueSize, q.Len())

	got := q.Consume()
	require.Len(t, got, parameter.EventQueueSize)
	assert.Equal(t, uint64(extra), got[0].Step)
	assert.Equal(t, uint64(parameter.EventQueueSize+extra-1), got[len(got)-1].Step)
}

func TestQueueDrainCount(t *testing.T) {
	q := NewEventQueue()
	q.Push(Event{Type: EventSensorBegin})
	q.Push(Event{Type: EventSensorEnd})

	var types []EventType
	n := q.Drain(func(ev Event) { types = append(types, ev.Type) })
	assert.Equal(t, 2, n)
	assert.Equal(t, []EventType{EventSensorBegin, EventSensorEnd}, types)
	assert.Equal(t, 0, q.Drain(func(Event) {}))
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers, each = 4, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(Event{A: core.Entity(p + 1), Step: uint64(i)})
			}
		}(p)
	}
	wg.Wait()

	got := q.Consume()
	assert.Len(t, got, producers*each)
	assert.Zero(t, q.Dropped())
}

func TestEventPair(t *testing.T) {
	ev := Event{A: 7, B: 3}
	assert.Equal(t, core.NewPairKey(3, 7), ev.Pair())
}
