// Package feedback keeps the short-lived reaction markers shown over a post.
//
// Events sit in a delay queue ordered by expiry. Owners either sweep it on
// every frame or arm a single timer for NextDeadline; nothing here starts
// goroutines or timers of its own.
package feedback

import (
	"container/heap"
	"math/rand/v2"
	"sort"
	"time"

	"vibefeed/internal/models"
)

// Lifetime is how long a feedback event stays visible.
const Lifetime = 2000 * time.Millisecond

// Queue is not safe for concurrent use.
type Queue struct {
	items    eventHeap
	lifetime time.Duration
	lastID   uint64
	rng      *rand.Rand
}

// NewQueue creates an empty queue. A non-positive lifetime falls back to
// Lifetime and a nil rng to a time-seeded source.
func NewQueue(lifetime time.Duration, rng *rand.Rand) *Queue {
	if lifetime <= 0 {
		lifetime = Lifetime
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Queue{lifetime: lifetime, rng: rng}
}

// Emit creates an event for kind at a random position and schedules its expiry.
func (q *Queue) Emit(kind models.ReactionKind, now time.Time) models.FeedbackEvent {
	q.lastID++
	ev := models.FeedbackEvent{
		ID:        q.lastID,
		Kind:      kind,
		Glyph:     kind.Glyph(),
		X:         q.rng.Float64() * 100,
		Y:         q.rng.Float64() * 100,
		ExpiresAt: now.Add(q.lifetime),
	}
	heap.Push(&q.items, ev)
	return ev
}

// Expire removes and returns every event whose expiry is at or before now.
func (q *Queue) Expire(now time.Time) []models.FeedbackEvent {
	var out []models.FeedbackEvent
	for q.items.Len() > 0 && !q.items[0].ExpiresAt.After(now) {
		out = append(out, heap.Pop(&q.items).(models.FeedbackEvent))
	}
	return out
}

// Live returns the events still visible at now, oldest first. Entries past
// their expiry are hidden even if Expire has not run yet.
func (q *Queue) Live(now time.Time) []models.FeedbackEvent {
	out := make([]models.FeedbackEvent, 0, len(q.items))
	for _, ev := range q.items {
		if ev.ExpiresAt.After(now) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NextDeadline returns the earliest pending expiry.
func (q *Queue) NextDeadline() (time.Time, bool) {
	if q.items.Len() == 0 {
		return time.Time{}, false
	}
	return q.items[0].ExpiresAt, true
}

// Len returns the number of pending events, expired or not.
func (q *Queue) Len() int {
	return q.items.Len()
}

// eventHeap orders by expiry, then by ID.
type eventHeap []models.FeedbackEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].ExpiresAt.Equal(h[j].ExpiresAt) {
		return h[i].ID < h[j].ID
	}
	return h[i].ExpiresAt.Before(h[j].ExpiresAt)
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(models.FeedbackEvent)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}
