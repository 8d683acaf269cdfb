package memory

import (
	"container/heap"
	"sync"
	"time"
)

// deadline records that key was given an expiry of at.
type deadline struct {
	key string
	at  time.Time
}

// deadlineHeap is a min-heap of deadlines ordered by time.
type deadlineHeap []deadline

func (h deadlineHeap) Len() int           { return len(h) }
func (h deadlineHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h deadlineHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *deadlineHeap) Push(x any) { *h = append(*h, x.(deadline)) }

func (h *deadlineHeap) Pop() any {
	old := *h
	n := len(old)
	d := old[n-1]
	old[n-1] = deadline{}
	*h = old[:n-1]
	return d
}

// deadlineIndex tracks the deadlines of one shard so the sweeper can find
// due keys without scanning live ones.
//
// Entries are never updated in place. Overwriting or removing a key leaves
// its old deadline behind; removeIfExpired re-checks the stored entry, so a
// stale deadline costs one lookup when it comes due and is then dropped.
type deadlineIndex struct {
	mu sync.Mutex
	h  deadlineHeap
}

func (x *deadlineIndex) add(key string, at time.Time) {
	x.mu.Lock()
	heap.Push(&x.h, deadline{key: key, at: at})
	x.mu.Unlock()
}

// popDue removes and returns up to limit keys whose deadline is at or
// before now, earliest first.
func (x *deadlineIndex) popDue(now time.Time, limit int) []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	var keys []string
	for len(keys) < limit && x.h.Len() > 0 && !now.Before(x.h[0].at) {
		keys = append(keys, heap.Pop(&x.h).(deadline).key)
	}
	return keys
}

func (x *deadlineIndex) len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.h.Len()
}
