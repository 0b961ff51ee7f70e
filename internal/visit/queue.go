package trek

import "sync"

// workQueue is a mutex-protected LIFO of pending paths shared by the workers
// of one walk. The terminated flag lives under the same mutex so that a
// worker checks it under the lock it waits on; a termination broadcast can
// therefore never be lost between the check and the wait.
type workQueue struct {
	mu         sync.Mutex
	available  *sync.Cond
	items      []string
	terminated bool
}

func newWorkQueue(seed []string) *workQueue {
	q := &workQueue{items: append([]string(nil), seed...)}
	q.available = sync.NewCond(&q.mu)
	return q
}

// push appends p and wakes the parked workers. Broadcast rather than Signal:
// worker counts are small and termination reuses the same condition variable.
func (q *workQueue) push(p string) {
	q.mu.Lock()
	q.items = append(q.items, p)
	q.mu.Unlock()
	q.available.Broadcast()
}

// pop removes and returns the most recently pushed item.
func (q *workQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	if n == 0 {
		return "", false
	}
	p := q.items[n-1]
	q.items = q.items[:n-1]
	return p, true
}

// park blocks until work is pushed or the walk is terminated, and reports
// whether the caller should exit. Termination wins over pending work so that
// no item is dequeued after the walk has been declared finished.
func (q *workQueue) park() (exit bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.terminated && len(q.items) == 0 {
		q.available.Wait()
	}
	return q.terminated
}

// terminate marks the walk finished and wakes every parked worker so they
// exit. It returns the number of items left behind, which is zero unless the
// coordination protocol has been violated.
func (q *workQueue) terminate() int {
	q.mu.Lock()
	pending := len(q.items)
	q.terminated = true
	q.mu.Unlock()
	q.available.Broadcast()
	return pending
}

func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
