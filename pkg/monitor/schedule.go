package monitor

import (
	"container/heap"
	"sync"
	"time"
)

// schedule is a priority queue of per-endpoint next-fire timestamps driven
// by a single scheduler goroutine, instead of one timer per endpoint.
type schedule struct {
	mu    sync.Mutex
	queue fireQueue
	index map[string]*fireEntry

	// wake nudges the scheduler loop after the queue head changes
	wake chan struct{}
}

type fireEntry struct {
	url  string
	at   time.Time
	pos  int
}

func newSchedule() *schedule {
	return &schedule{
		index: make(map[string]*fireEntry),
		wake:  make(chan struct{}, 1),
	}
}

// upsert sets the next fire time for a URL, adding it if absent.
func (s *schedule) upsert(url string, at time.Time) {
	s.mu.Lock()
	if entry, ok := s.index[url]; ok {
		entry.at = at
		heap.Fix(&s.queue, entry.pos)
	} else {
		entry := &fireEntry{url: url, at: at}
		s.index[url] = entry
		heap.Push(&s.queue, entry)
	}
	s.mu.Unlock()
	s.nudge()
}

// remove drops a URL from the queue. Idempotent.
func (s *schedule) remove(url string) {
	s.mu.Lock()
	if entry, ok := s.index[url]; ok {
		heap.Remove(&s.queue, entry.pos)
		delete(s.index, url)
	}
	s.mu.Unlock()
	s.nudge()
}

// clear drops every queued entry.
func (s *schedule) clear() {
	s.mu.Lock()
	s.queue = s.queue[:0]
	s.index = make(map[string]*fireEntry)
	s.mu.Unlock()
	s.nudge()
}

// nextAt returns the earliest fire time, if any.
func (s *schedule) nextAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].at, true
}

// popDue removes and returns every URL whose fire time is at or before now.
func (s *schedule) popDue(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []string
	for len(s.queue) > 0 && !s.queue[0].at.After(now) {
		entry := heap.Pop(&s.queue).(*fireEntry)
		delete(s.index, entry.url)
		due = append(due, entry.url)
	}
	return due
}

func (s *schedule) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *schedule) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// fireQueue implements heap.Interface ordered by fire time.
type fireQueue []*fireEntry

func (q fireQueue) Len() int           { return len(q) }
func (q fireQueue) Less(i, j int) bool { return q[i].at.Before(q[j].at) }

func (q fireQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].pos = i
	q[j].pos = j
}

func (q *fireQueue) Push(x interface{}) {
	entry := x.(*fireEntry)
	entry.pos = len(*q)
	*q = append(*q, entry)
}

func (q *fireQueue) Pop() interface{} {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return entry
}
