package graph

import (
	"container/heap"
	"sync"
)

// NodeScheduler lets a node schedule itself a future wakeup tagged by an
// arbitrary key, re-schedule (replacing any existing entry for the same
// tag) or cancel it, independent of any input activity (spec.md §4.2's
// "scheduled independent of modification" property). Backed by a
// container/heap min-heap ordered by (time, insertion sequence), mirroring
// the teacher's workHeap/Frontier priority-queue idiom.
type NodeScheduler struct {
	mu    sync.Mutex
	heap  schedHeap
	byTag map[any]*schedEntry
	seq   int64
}

type schedEntry struct {
	when      Time
	tag       any
	seq       int64
	cancelled bool
	index     int
}

type schedHeap []*schedEntry

func (h schedHeap) Len() int { return len(h) }
func (h schedHeap) Less(i, j int) bool {
	if !h[i].when.Equal(h[j].when) {
		return timeLess(h[i].when, h[j].when)
	}
	return h[i].seq < h[j].seq
}
func (h schedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *schedHeap) Push(x any) {
	e := x.(*schedEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *schedHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

func newNodeScheduler() *NodeScheduler {
	s := &NodeScheduler{byTag: map[any]*schedEntry{}}
	heap.Init(&s.heap)
	return s
}

// Schedule requests a wakeup at when for tag, replacing any wakeup
// previously scheduled under the same tag.
func (s *NodeScheduler) Schedule(when Time, tag any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byTag[tag]; ok {
		old.cancelled = true
	}
	s.seq++
	e := &schedEntry{when: when, tag: tag, seq: s.seq}
	s.byTag[tag] = e
	heap.Push(&s.heap, e)
}

// Unschedule cancels the wakeup registered under tag, if any.
func (s *NodeScheduler) Unschedule(tag any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.byTag[tag]; ok {
		e.cancelled = true
		delete(s.byTag, tag)
	}
}

func (s *NodeScheduler) dropCancelled() {
	for len(s.heap) > 0 && s.heap[0].cancelled {
		heap.Pop(&s.heap)
	}
}

// NextTime returns the earliest outstanding wakeup time, if any.
func (s *NodeScheduler) NextTime() (Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropCancelled()
	if len(s.heap) == 0 {
		return Time{}, false
	}
	return s.heap[0].when, true
}

// IsScheduledAt reports whether this node has a live wakeup at exactly now.
func (s *NodeScheduler) IsScheduledAt(now Time) bool {
	t, ok := s.NextTime()
	return ok && t.Equal(now)
}

// PopDue removes and returns every tag with a live wakeup at exactly now.
func (s *NodeScheduler) PopDue(now Time) []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tags []any
	s.dropCancelled()
	for len(s.heap) > 0 && s.heap[0].when.Equal(now) {
		e := heap.Pop(&s.heap).(*schedEntry)
		if e.cancelled {
			continue
		}
		delete(s.byTag, e.tag)
		tags = append(tags, e.tag)
		s.dropCancelled()
	}
	return tags
}
