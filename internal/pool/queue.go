package pool

// queue is an unbounded FIFO queue. It does not provide thread-safety, concurrent access
// must be guarded by the caller.
type queue[T any] struct {
	items []T
	head  int
}

func newQueue[T any](prealloc int) queue[T] {
	return queue[T]{
		items: make([]T, 0, prealloc),
	}
}

func (q *queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Pop returns the oldest item. The queue must not be empty.
func (q *queue[T]) Pop() (item T) {
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head > cap(q.items)/2:
		// reclaim the space taken by already popped items
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return item
}

func (q *queue[T]) Len() int {
	return len(q.items) - q.head
}

func (q *queue[T]) Empty() bool {
	return q.Len() == 0
}
