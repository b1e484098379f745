// Package notify carries user-facing messages: transient notices shown on the
// page and reminder e-mails.
package notify

import "sync"

// Level maps to the alert style of a notice.
type Level string

const (
	Info    Level = "info"
	Warning Level = "warning"
	Danger  Level = "danger"
)

// Notice is a transient message shown once.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

const maxNotices = 20

// Queue buffers notices until the next page render drains them. The oldest
// notices are dropped beyond a small bound.
type Queue struct {
	mu    sync.Mutex
	items []Notice
}

func (q *Queue) Push(level Level, text string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Notice{Level: level, Text: text})
	if over := len(q.items) - maxNotices; over > 0 {
		q.items = q.items[over:]
	}
}

// Drain returns all queued notices and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
