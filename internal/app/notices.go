package app

import (
	"sync"

	"github.com/abhisek/immowert/internal/wizard"
)

// NoticeQueue collects notices from any goroutine until the update loop
// drains them into the toast.
type NoticeQueue struct {
	mu      sync.Mutex
	pending []wizard.Notice
}

var _ wizard.Notifier = (*NoticeQueue)(nil)

// NewNoticeQueue returns an empty queue.
func NewNoticeQueue() *NoticeQueue {
	return &NoticeQueue{}
}

// Notify queues n.
func (q *NoticeQueue) Notify(n wizard.Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

// Drain returns and forgets the queued notices, oldest first.
func (q *NoticeQueue) Drain() []wizard.Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
