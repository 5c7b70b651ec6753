package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventQueue_PopDueInDeadlineOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := NewEventQueue()

	q.Schedule("c", base.Add(3*time.Second))
	q.Schedule("a", base.Add(1*time.Second))
	q.Schedule("b", base.Add(2*time.Second))
	q.Schedule("a2", base.Add(1*time.Second))
	assert.Equal(t, 4, q.Len())

	assert.Empty(t, q.PopDue(base))

	due := q.PopDue(base.Add(2 * time.Second))
	var kinds []ScheduledKind
	for _, ev := range due {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []ScheduledKind{"a", "a2", "b"}, kinds)
	assert.Equal(t, 1, q.Len())
	assert.True(t, q.Pending("c"))
	assert.False(t, q.Pending("a"))

	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Pending("c"))
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Now())
}
