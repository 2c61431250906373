package protoobj

// ReleaseFunc is invoked exactly once with a stored payload when that payload
// is discarded: on overwrite, on delete, or when the owning object is destroyed.
// It must not mutate the object that owned the payload.
type ReleaseFunc func(payload []byte)

// Memory represents a linear byte-addressed memory that payloads can live in.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}

// Grower is optionally implemented by memories that can be enlarged.
// Grow returns false when the memory cannot grow by delta bytes.
type Grower interface {
	Grow(delta uint32) bool
}

// Allocator allocates regions of a linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
