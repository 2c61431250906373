// Package arena stores property payload bytes.
//
// Every Set copies the caller's payload into an arena and keeps the returned
// Block. The arena decides where those bytes live:
//
//	arena.NewHeap()                 // Go heap, one slice per payload (default)
//	arena.NewFixed(64 << 10)        // one fixed buffer, for memory-capped hosts
//	arena.NewWazeroArena(ctx, cfg)  // linear memory of a wazero instance
//
// Linear arenas place payloads with a first-fit free-list allocator. Offset 0
// is reserved so a zero Block never aliases a live payload. Freed ranges are
// coalesced with their neighbours and the allocation top shrinks when the last
// range is freed.
//
// Slices returned by Bytes on a linear arena are views into the memory. They
// are valid until the next allocation on the same arena, which may grow and
// move the memory.
package arena
