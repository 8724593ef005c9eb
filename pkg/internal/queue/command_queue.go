package queue

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"avaneesh/ddc-go/pkg/internal/logger"
)

// Item represents a scheduled command
type Item struct {
	ID       ulid.ULID     // Trace identifier
	Action   func()        // Work to run on the worker
	Interval time.Duration // Delay after Action before the next item runs
}

// CommandQueue runs actions one at a time in FIFO order, waiting each
// item's interval before the next one starts. Items inserted at the
// front run before anything already queued.
type CommandQueue struct {
	items  []*Item
	active bool
	mu     sync.Mutex
	logger logger.Logger
}

// NewCommandQueue creates a new command queue
func NewCommandQueue(log logger.Logger) *CommandQueue {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CommandQueue{
		items:  make([]*Item, 0),
		logger: log,
	}
}

// Enqueue schedules action and starts the worker if it is idle
func (q *CommandQueue) Enqueue(interval time.Duration, first bool, action func()) ulid.ULID {
	item := &Item{
		ID:       ulid.Make(),
		Action:   action,
		Interval: interval,
	}

	q.mu.Lock()
	if first {
		q.items = append([]*Item{item}, q.items...)
	} else {
		q.items = append(q.items, item)
	}
	start := !q.active
	q.active = true
	q.mu.Unlock()

	if start {
		go q.process()
	}
	return item.ID
}

// process runs the head item, then re-arms itself after the item's
// interval. The lock is never held while an action runs or while waiting.
func (q *CommandQueue) process() {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.active = false
		q.mu.Unlock()
		return
	}
	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	q.mu.Unlock()

	q.logger.Debug("Queue: running %s", item.ID)
	item.Action()

	time.AfterFunc(item.Interval, q.process)
}

// Len returns the number of items waiting to run
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Active returns true while the worker is running or waiting out an interval
func (q *CommandQueue) Active() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}
