// Package store implements per-object property storage.
//
// A Store starts in ModeLinear: an append-ordered slice searched by symbol
// identity. When an insertion takes the entry count above the store's
// threshold, the entries are rehashed into a map keyed by symbol pointer and
// the store switches to ModeHashed for the rest of its life. Deleting entries
// never switches it back.
//
// Payload bytes live in an arena.Arena. The store frees a payload's block
// right after calling its release callback, which happens exactly once per
// discarded payload: on overwrite, on Delete, or on Clear.
//
// A Store is not safe for concurrent mutation.
package store
