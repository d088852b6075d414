// Package handoff implements the one-shot transfer of a generated
// implementor index to its consumer. A Slot holds at most one index and at
// most one consumer: delivery before registration parks the index in a
// pending cell, registration drains the cell, and both sides happen at most
// once per slot. See docs/ARCHITECTURE.md § Hand-off.
package handoff

import (
	"errors"
	"sync"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// Consumer receives the delivered index exactly once.
type Consumer func(types.Index)

// Hand-off errors.
var (
	ErrNilConsumer        = errors.New("consumer must not be nil")
	ErrConsumerRegistered = errors.New("consumer already registered")
	ErrAlreadyDelivered   = errors.New("index already delivered")
)

// Slot is a process-wide hand-off cell with set-once, read-once discipline:
// one Deliver, one Register, in either order.
type Slot struct {
	mu        sync.Mutex
	consumer  Consumer
	pending   types.Index
	delivered bool
}

// NewSlot returns an empty slot: no consumer, nothing pending.
func NewSlot() *Slot {
	return &Slot{}
}

// Register installs the consumer. If an index is already pending it is
// drained to the consumer synchronously and the pending cell cleared.
// Returns ErrConsumerRegistered on a second call.
func (s *Slot) Register(fn Consumer) error {
	if fn == nil {
		return ErrNilConsumer
	}

	s.mu.Lock()
	if s.consumer != nil {
		s.mu.Unlock()
		return ErrConsumerRegistered
	}
	s.consumer = fn
	parked := s.pending
	s.pending = nil
	s.mu.Unlock()

	// Invoke outside the lock so the consumer may call back into the slot.
	if parked != nil {
		fn(parked)
	}
	return nil
}

// Deliver hands the index to the registered consumer, or parks it in the
// pending cell when no consumer is registered yet. The index is passed
// through unchanged: no copy, no reordering, no record loss.
// Returns ErrAlreadyDelivered on a second call.
func (s *Slot) Deliver(ix types.Index) error {
	s.mu.Lock()
	if s.delivered {
		s.mu.Unlock()
		return ErrAlreadyDelivered
	}
	s.delivered = true
	fn := s.consumer
	if fn == nil {
		s.pending = ix
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	fn(ix)
	return nil
}

// Pending returns a deep copy of the parked index, or false when nothing is
// parked. The cell itself stays intact until a consumer registers.
func (s *Slot) Pending() (types.Index, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, false
	}
	return s.pending.Clone(), true
}

// Delivered reports whether Deliver has been called on this slot.
func (s *Slot) Delivered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}

// Default is the process-wide slot, mirroring the global cell the generated
// data files target.
var Default = NewSlot()

// Register installs a consumer on the Default slot.
func Register(fn Consumer) error {
	return Default.Register(fn)
}

// Deliver hands an index to the Default slot.
func Deliver(ix types.Index) error {
	return Default.Deliver(ix)
}

// Pending returns the index parked in the Default slot, if any.
func Pending() (types.Index, bool) {
	return Default.Pending()
}
