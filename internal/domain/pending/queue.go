// Package pending parks in-progress carts so the cashier can serve
// another customer. The queue is in-memory and bounded.
package pending

import (
	"sync"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/cart"
)

// DefaultCapacity bounds the queue when no explicit capacity is
// configured.
const DefaultCapacity = 5

// Snapshot is a parked cart. Lines are deep-copied on park and on
// resume, so a snapshot never aliases the live cart.
type Snapshot struct {
	ID       int64       `json:"id"`
	Lines    []cart.Line `json:"lines"`
	Total    types.Money `json:"total"`
	Kasir    string      `json:"kasir"`
	Note     string      `json:"note"`
	ParkedAt time.Time   `json:"parked_at"`
}

// Queue holds parked carts in park order up to a fixed capacity.
type Queue struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	items    []*Snapshot
	now      func() time.Time
}

// NewQueue creates a queue with the given capacity; capacity <= 0
// selects DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity, nextID: 1, now: time.Now}
}

// Capacity returns the configured maximum.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Len returns the number of parked carts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Park stores a copy of the cart content. A full queue refuses the
// park and the live cart is left untouched.
func (q *Queue) Park(c *cart.Cart, note string) (*Snapshot, error) {
	if c.State() == cart.StateEmpty {
		return nil, apperror.NewValidation("keranjang kosong tidak bisa ditunda")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		return nil, apperror.NewPendingFull(q.capacity)
	}

	snap := &Snapshot{
		ID:       q.nextID,
		Lines:    c.Lines(),
		Total:    c.Total(),
		Kasir:    c.Kasir,
		Note:     note,
		ParkedAt: q.now(),
	}
	q.nextID++
	q.items = append(q.items, snap)
	return snap, nil
}

// List returns the parked carts in park order. The returned snapshots
// share no line storage with the queue.
func (q *Queue) List() []Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Snapshot, 0, len(q.items))
	for _, it := range q.items {
		s := *it
		s.Lines = append([]cart.Line(nil), it.Lines...)
		out = append(out, s)
	}
	return out
}

// Resume removes a parked cart from the queue and returns it. The
// caller restores it into the live cart.
func (q *Queue) Resume(id int64) (*Snapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("transaksi tertunda", id)
}

// Discard drops a parked cart without resuming it.
func (q *Queue) Discard(id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("transaksi tertunda", id)
}
