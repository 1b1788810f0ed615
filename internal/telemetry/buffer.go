package telemetry

import (
	"log"

	"github.com/eapache/queue"
)

// pendingBuffer holds serialized payloads while the broker is unreachable.
// Capped FIFO: when full, the oldest payload is dropped — a reading from an
// hour ago is worth less than the current one. Not safe for concurrent
// use; the event loop owns it.
type pendingBuffer struct {
	q        *queue.Queue
	capacity int
	overflow bool // true if anything was dropped since the last drain
}

func newPendingBuffer(capacity int) *pendingBuffer {
	return &pendingBuffer{q: queue.New(), capacity: capacity}
}

func (b *pendingBuffer) push(payload []byte) {
	if b.q.Length() == b.capacity {
		if !b.overflow {
			log.Printf("telemetry: buffer full (%d payloads), dropping oldest", b.capacity)
			b.overflow = true
		}
		b.q.Remove()
	}
	b.q.Add(payload)
}

// pop removes and returns the oldest payload, or nil when empty.
func (b *pendingBuffer) pop() []byte {
	if b.q.Length() == 0 {
		b.overflow = false
		return nil
	}
	return b.q.Remove().([]byte)
}

// requeue puts a payload back at the head after a failed send. The FIFO
// has no push-front, so rebuild; drains are small and rare.
func (b *pendingBuffer) requeue(payload []byte) {
	old := b.q
	b.q = queue.New()
	b.q.Add(payload)
	for old.Length() > 0 {
		b.q.Add(old.Remove())
	}
}

func (b *pendingBuffer) len() int {
	return b.q.Length()
}
