// Package queue implements the play queue: an editable FIFO of TrackInfo
// references that takes priority over the library/playlist's automatic
// next-track advance (§3, §4.8).
package queue

import "github.com/waveterm/core/internal/trackinfo"

// Queue is an ordered sequence of TrackInfo references, appended or
// prepended on demand, with its head removed on track advance.
type Queue struct {
	items []*trackinfo.TrackInfo
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Append adds ti to the tail of the queue.
func (q *Queue) Append(ti *trackinfo.TrackInfo) {
	q.items = append(q.items, ti.Ref())
}

// Prepend adds ti to the head of the queue.
func (q *Queue) Prepend(ti *trackinfo.TrackInfo) {
	q.items = append([]*trackinfo.TrackInfo{ti.Ref()}, q.items...)
}

// Pop removes and returns the head of the queue. Returns (nil, false) when
// the queue is empty.
func (q *Queue) Pop() (*trackinfo.TrackInfo, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Remove drops the first occurrence of ti from the queue, dropping the
// reference it held. Reports whether an item was removed.
func (q *Queue) Remove(ti *trackinfo.TrackInfo) bool {
	for i, item := range q.items {
		if item == ti {
			q.items = append(q.items[:i], q.items[i+1:]...)
			item.Unref()
			return true
		}
	}
	return false
}

// Clear empties the queue, dropping every held reference.
func (q *Queue) Clear() {
	for _, item := range q.items {
		item.Unref()
	}
	q.items = nil
}

// Len returns the number of queued items.
func (q *Queue) Len() int { return len(q.items) }

// Items returns the queue contents head-first. The returned slice is a
// copy; mutating it does not affect the queue.
func (q *Queue) Items() []*trackinfo.TrackInfo {
	return append([]*trackinfo.TrackInfo(nil), q.items...)
}
