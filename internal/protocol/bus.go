// Package protocol implements the typed asynchronous message bus between
// agents: emission, per-type processing rules, goal negotiation, and
// trust-score updates.
package protocol

import (
	"github.com/emergentmind/hive/internal/models"
)

// DefaultHistoryCap bounds the retained message history. A ring buffer
// keeps memory flat over long runs.
const DefaultHistoryCap = 256

// Bus queues messages for delivery and retains a bounded history.
// Messages are published during the agent phase of a tick and drained
// exactly once during the aggregation phase, so the bus needs no locking.
type Bus struct {
	pending []*models.Message
	history []*models.Message
	cap     int
}

// NewBus creates a bus retaining up to historyCap delivered messages.
// A non-positive cap uses DefaultHistoryCap.
func NewBus(historyCap int) *Bus {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Bus{cap: historyCap}
}

// Publish queues a message for the next processing phase.
func (b *Bus) Publish(msg *models.Message) {
	if msg == nil {
		return
	}
	b.pending = append(b.pending, msg)
}

// PendingCount returns the number of messages awaiting processing.
func (b *Bus) PendingCount() int {
	return len(b.pending)
}

// Drain removes and returns all pending messages in arrival order,
// recording them in the history ring.
func (b *Bus) Drain() []*models.Message {
	drained := b.pending
	b.pending = nil

	b.history = append(b.history, drained...)
	if overflow := len(b.history) - b.cap; overflow > 0 {
		b.history = append(b.history[:0], b.history[overflow:]...)
	}
	return drained
}

// History returns the retained delivered messages, oldest first.
func (b *Bus) History() []*models.Message {
	return b.history
}

// Restore seeds the history ring from a loaded snapshot.
func (b *Bus) Restore(history []*models.Message) {
	if len(history) > b.cap {
		history = history[len(history)-b.cap:]
	}
	b.history = append([]*models.Message(nil), history...)
}
