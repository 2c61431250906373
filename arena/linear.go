package arena

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj"
	"github.com/wippyai/protoobj/errors"
)

// Linear is an Arena that places payloads in a single linear memory.
type Linear struct {
	mem    protoobj.Memory
	alloc  *FreeList
	stats  Stats
	mu     sync.Mutex
	closed bool
}

// NewLinear creates an arena over mem.
func NewLinear(mem protoobj.Memory) *Linear {
	return &Linear{
		mem:   mem,
		alloc: NewFreeList(mem),
	}
}

// NewFixed creates an arena over a fixed buffer of size bytes.
func NewFixed(size uint32) *Linear {
	return NewLinear(NewSliceMemory(make([]byte, size)))
}

// Memory returns the memory payloads are stored in.
func (l *Linear) Memory() protoobj.Memory {
	return l.mem
}

// Alloc copies data into the linear memory.
func (l *Linear) Alloc(data []byte) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Block{}, errors.Closed(errors.PhaseArena, "linear arena")
	}
	if len(data) == 0 {
		return Block{}, nil
	}

	size := uint32(len(data))
	ptr, err := l.alloc.Alloc(size, granule)
	if err != nil {
		return Block{}, err
	}
	if err := l.mem.Write(ptr, data); err != nil {
		l.alloc.Free(ptr, size, granule)
		return Block{}, errors.Wrap(errors.PhaseArena, errors.KindOutOfBounds, err, "write payload")
	}

	l.stats.onAlloc(size)
	return Block{Ptr: ptr, Size: size}, nil
}

// Bytes returns a view of b's payload.
func (l *Linear) Bytes(b Block) []byte {
	if b.Size == 0 {
		return nil
	}
	data, err := l.mem.Read(b.Ptr, b.Size)
	if err != nil {
		Logger().Warn("payload read failed", zap.Uint32("ptr", b.Ptr), zap.Error(err))
		return nil
	}
	return data
}

// Free returns b's range to the allocator.
func (l *Linear) Free(b Block) {
	if b.Size == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.alloc.Free(b.Ptr, b.Size, granule)
	l.stats.onFree(b.Size)
}

// Stats reports live allocation counters.
func (l *Linear) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close stops the arena from accepting allocations.
func (l *Linear) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// SliceMemory is a fixed-size Memory over a Go byte slice.
type SliceMemory struct {
	buf []byte
}

var _ protoobj.Memory = (*SliceMemory)(nil)

// NewSliceMemory wraps buf. The memory never grows.
func NewSliceMemory(buf []byte) *SliceMemory {
	return &SliceMemory{buf: buf}
}

func (m *SliceMemory) Read(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.buf)) {
		return nil, errors.OutOfBounds(errors.PhaseArena, offset, length, m.Size())
	}
	return m.buf[offset:end:end], nil
}

func (m *SliceMemory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(m.buf)) {
		return errors.OutOfBounds(errors.PhaseArena, offset, uint32(len(data)), m.Size())
	}
	copy(m.buf[offset:end], data)
	return nil
}

func (m *SliceMemory) Size() uint32 {
	return uint32(len(m.buf))
}
