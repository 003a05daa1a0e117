// Implements the FIFO that both the dispatcher backlog and the consumer's
// in-service sequence are built on.

package sim

// requestFIFO is a growing ring buffer of Request values. Holding requests
// by value keeps ownership positional: a request lives in exactly one FIFO
// at a time and hand-off between stages copies the record.
type requestFIFO struct {
	buf  []Request
	head int
	size int
}

// Len returns the number of queued requests.
func (q *requestFIFO) Len() int {
	return q.size
}

// Push appends a request at the tail, growing the buffer when full.
func (q *requestFIFO) Push(r Request) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = r
	q.size++
}

// Pop removes and returns the head request. The second return value is
// false when the FIFO is empty.
func (q *requestFIFO) Pop() (Request, bool) {
	if q.size == 0 {
		return Request{}, false
	}
	r := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return r, true
}

// Peek returns the head request without removing it.
func (q *requestFIFO) Peek() (Request, bool) {
	if q.size == 0 {
		return Request{}, false
	}
	return q.buf[q.head], true
}

func (q *requestFIFO) grow() {
	next := make([]Request, max(len(q.buf)*2, 16))
	for i := 0; i < q.size; i++ {
		next[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = next
	q.head = 0
}
