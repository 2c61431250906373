package arena

import (
	"sync"

	"github.com/wippyai/protoobj/errors"
)

// Block identifies a stored payload. The zero Block is the empty payload.
type Block struct {
	data []byte
	Ptr  uint32
	Size uint32
}

// IsZero reports whether b refers to no storage.
func (b Block) IsZero() bool {
	return b.Ptr == 0 && b.Size == 0 && b.data == nil
}

// Arena owns payload bytes on behalf of property stores.
type Arena interface {
	// Alloc copies data into the arena.
	Alloc(data []byte) (Block, error)

	// Bytes returns the stored payload for b.
	Bytes(b Block) []byte

	// Free returns b's storage to the arena. Freeing the zero Block is a no-op.
	Free(b Block)

	// Stats reports live allocation counters.
	Stats() Stats

	// Close releases the arena's backing memory.
	Close() error
}

// Stats counts arena activity.
type Stats struct {
	Allocs    uint64
	Frees     uint64
	Live      int
	LiveBytes uint64
}

func (s *Stats) onAlloc(size uint32) {
	s.Allocs++
	s.Live++
	s.LiveBytes += uint64(size)
}

func (s *Stats) onFree(size uint32) {
	s.Frees++
	s.Live--
	s.LiveBytes -= uint64(size)
}

// Heap is an Arena backed by ordinary Go slices.
type Heap struct {
	stats  Stats
	next   uint32
	mu     sync.Mutex
	closed bool
}

// NewHeap creates a Go heap arena.
func NewHeap() *Heap {
	return &Heap{}
}

// Alloc copies data into a fresh slice.
func (h *Heap) Alloc(data []byte) (Block, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return Block{}, errors.Closed(errors.PhaseArena, "heap arena")
	}
	if len(data) == 0 {
		return Block{}, nil
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	h.next++
	b := Block{data: buf, Ptr: h.next, Size: uint32(len(data))}
	h.stats.onAlloc(b.Size)
	return b, nil
}

// Bytes returns the slice held by b.
func (h *Heap) Bytes(b Block) []byte {
	return b.data
}

// Free drops the arena's accounting for b. The slice itself is left to the
// Go garbage collector.
func (h *Heap) Free(b Block) {
	if b.IsZero() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.onFree(b.Size)
}

// Stats reports live allocation counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Close stops the arena from accepting allocations.
func (h *Heap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
