package arena

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj"
	"github.com/wippyai/protoobj/errors"
)

const (
	// granule is the allocation unit; every range is a multiple of it.
	granule = 8
	// reserved bytes at offset 0 so that Ptr 0 never names a payload.
	reserved = granule
)

type span struct {
	off  uint32
	size uint32
}

// FreeList is a first-fit allocator over a linear memory.
// It is not safe for concurrent use; Linear serializes access to it.
type FreeList struct {
	mem  protoobj.Memory
	free []span // sorted by offset, never adjacent
	top  uint32
}

var _ protoobj.Allocator = (*FreeList)(nil)

// NewFreeList creates an allocator managing mem from offset 8 upward.
func NewFreeList(mem protoobj.Memory) *FreeList {
	return &FreeList{mem: mem, top: reserved}
}

// Top returns the first offset that has never been handed out.
func (f *FreeList) Top() uint32 {
	return f.top
}

// Alloc returns the offset of size bytes aligned to align.
func (f *FreeList) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		return 0, errors.InvalidArgument(errors.PhaseArena, "zero-size allocation")
	}
	if align < granule {
		align = granule
	}
	need, ok := roundUp(size, granule)
	if !ok {
		return 0, errors.AllocationFailed(errors.PhaseArena, size, align)
	}

	for i, s := range f.free {
		start, ok := roundUp(s.off, align)
		if !ok {
			continue
		}
		pad := start - s.off
		if uint64(pad)+uint64(need) > uint64(s.size) {
			continue
		}
		tail := s.size - pad - need

		var repl []span
		if pad > 0 {
			repl = append(repl, span{off: s.off, size: pad})
		}
		if tail > 0 {
			repl = append(repl, span{off: start + need, size: tail})
		}
		f.free = append(f.free[:i], append(repl, f.free[i+1:]...)...)
		return start, nil
	}

	start, ok := roundUp(f.top, align)
	if !ok {
		return 0, errors.AllocationFailed(errors.PhaseArena, size, align)
	}
	end := uint64(start) + uint64(need)
	if end > math.MaxUint32 {
		return 0, errors.AllocationFailed(errors.PhaseArena, size, align)
	}
	if end > uint64(f.mem.Size()) {
		g, ok := f.mem.(protoobj.Grower)
		if !ok || !g.Grow(uint32(end-uint64(f.mem.Size()))) {
			Logger().Debug("arena exhausted",
				zap.Uint32("size", size),
				zap.Uint32("top", f.top),
				zap.Uint32("capacity", f.mem.Size()))
			return 0, errors.AllocationFailed(errors.PhaseArena, size, align)
		}
		Logger().Debug("arena grown", zap.Uint32("capacity", f.mem.Size()))
	}

	if start > f.top {
		f.insert(span{off: f.top, size: start - f.top})
	}
	f.top = uint32(end)
	return start, nil
}

// Free returns a range obtained from Alloc with the same size.
func (f *FreeList) Free(ptr, size, align uint32) {
	if ptr == 0 || size == 0 {
		return
	}
	need, ok := roundUp(size, granule)
	if !ok {
		return
	}
	f.insert(span{off: ptr, size: need})

	// Give the trailing range back to the bump pointer.
	if n := len(f.free); n > 0 {
		last := f.free[n-1]
		if last.off+last.size == f.top {
			f.top = last.off
			f.free = f.free[:n-1]
		}
	}
}

func (f *FreeList) insert(s span) {
	i := sort.Search(len(f.free), func(i int) bool { return f.free[i].off > s.off })

	// Merge with the following range.
	if i < len(f.free) && s.off+s.size == f.free[i].off {
		s.size += f.free[i].size
		f.free = append(f.free[:i], f.free[i+1:]...)
	}
	// Merge with the preceding range.
	if i > 0 && f.free[i-1].off+f.free[i-1].size == s.off {
		f.free[i-1].size += s.size
		return
	}

	f.free = append(f.free, span{})
	copy(f.free[i+1:], f.free[i:])
	f.free[i] = s
}

func roundUp(v, to uint32) (uint32, bool) {
	r := (uint64(v) + uint64(to) - 1) / uint64(to) * uint64(to)
	if r > math.MaxUint32 {
		return 0, false
	}
	return uint32(r), true
}
