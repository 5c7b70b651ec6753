package engine

import (
	"container/heap"
	"sync"
	"time"
)

// Clock is the engine's source of wall time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock frozen at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current virtual time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ScheduledKind identifies a deferred engine action
type ScheduledKind string

const (
	ScheduledRespawn ScheduledKind = "respawn"
)

// ScheduledEvent is a deferred action due at At
type ScheduledEvent struct {
	Kind ScheduledKind
	At   time.Time
	seq  uint64
}

type scheduledHeap []ScheduledEvent

func (h scheduledHeap) Len() int { return len(h) }
func (h scheduledHeap) Less(i, j int) bool {
	if h[i].At.Equal(h[j].At) {
		return h[i].seq < h[j].seq
	}
	return h[i].At.Before(h[j].At)
}
func (h scheduledHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduledHeap) Push(x any)   { *h = append(*h, x.(ScheduledEvent)) }
func (h *scheduledHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// EventQueue orders scheduled events by deadline. It is polled by the tick, never by a timer.
type EventQueue struct {
	items scheduledHeap
	seq   uint64
}

// NewEventQueue returns an empty queue
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.items)
	return q
}

// Schedule queues kind to fire at at
func (q *EventQueue) Schedule(kind ScheduledKind, at time.Time) {
	q.seq++
	heap.Push(&q.items, ScheduledEvent{Kind: kind, At: at, seq: q.seq})
}

// PopDue removes and returns every event due at or before now, earliest first
func (q *EventQueue) PopDue(now time.Time) []ScheduledEvent {
	var due []ScheduledEvent
	for q.items.Len() > 0 && !q.items[0].At.After(now) {
		due = append(due, heap.Pop(&q.items).(ScheduledEvent))
	}
	return due
}

// Pending reports whether an event of kind is still waiting
func (q *EventQueue) Pending(kind ScheduledKind) bool {
	for _, ev := range q.items {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	return q.items.Len()
}

// Clear drops every queued event
func (q *EventQueue) Clear() {
	q.items = q.items[:0]
}
