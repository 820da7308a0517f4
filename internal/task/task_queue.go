package task

import "sync"

// taskQueue is an unbounded FIFO shared by the workers. push never blocks;
// pop blocks until an item is available or the queue is closed and empty.
type taskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []runnable
	closed bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends r. It reports false if the queue is closed.
func (q *taskQueue) push(r runnable) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, r)
	q.cond.Signal()
	return true
}

// pop removes the oldest item. ok is false once the queue is closed and
// drained.
func (q *taskQueue) pop() (r runnable, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}

	r = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return r, true
}

// close stops accepting items. Unless drain is set, queued items are removed
// and returned so the caller can fail them.
func (q *taskQueue) close(drain bool) []runnable {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	var discarded []runnable
	if !drain {
		discarded = q.items
		q.items = nil
	}
	q.cond.Broadcast()
	return discarded
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
