package scanner

import (
	"sync"

	"github.com/dshills/findex-mcp/pkg/types"
)

// busCapacity bounds the progress channel; producers never block.
const busCapacity = 100

// Bus carries progress events from the pipeline to consumers. Sends
// are non-blocking: when the buffer is full the sample is dropped,
// since consumers only need periodic snapshots. The most recent event
// is always retrievable via Latest.
type Bus struct {
	ch chan types.ProgressEvent

	mu     sync.Mutex
	latest types.ProgressEvent
	seen   bool
}

// NewBus creates a progress bus with the default capacity.
func NewBus() *Bus {
	return &Bus{ch: make(chan types.ProgressEvent, busCapacity)}
}

// Publish offers an event to the bus without blocking.
func (b *Bus) Publish(ev types.ProgressEvent) {
	b.mu.Lock()
	b.latest = ev
	b.seen = true
	b.mu.Unlock()

	select {
	case b.ch <- ev:
	default:
		// Consumer is behind; drop the sample.
	}
}

// Events returns the receive side of the bus.
func (b *Bus) Events() <-chan types.ProgressEvent {
	return b.ch
}

// Latest returns the most recently published event, if any.
func (b *Bus) Latest() (types.ProgressEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.seen
}
