// Package protoobj provides a compact prototype-based object model for
// embedding in interpreters, virtual machines and memory-constrained hosts.
//
// Objects are reference counted key/value containers. Values are opaque byte
// payloads with an optional release hook, so each embedding keeps its own value
// representation. Lookups that miss on an object continue along its prototype
// chain, JavaScript style.
//
// # Architecture Overview
//
//	protoobj/            Root package with ReleaseFunc, Memory and Allocator contracts
//	├── object/          Objects, reference counting, prototype chain, introspection
//	├── store/           Per-object property storage (linear, promoted to hashed)
//	├── intern/          Key interning; keys compare by pointer identity
//	├── arena/           Payload byte storage: Go heap, fixed buffer, wazero memory
//	├── resource/        Integer handle table for FFI and VM embeddings
//	├── errors/          Structured error types
//	└── cmd/protoshell/  Command shell and TUI for exploring object graphs
//
// # Quick Start
//
//	proto := object.Create(nil)
//	proto.Set("species", []byte("Human"), nil)
//
//	child := object.CreateWithPrototype(proto, nil)
//	v, _ := child.Get("species") // "Human", inherited
//	child.HasOwn("species")      // false
//
//	object.Release(&child) // proto count 2 -> 1
//	object.Release(&proto) // proto destroyed
//
// # Storage
//
// Each object starts with a linear property list. Once an insertion takes the
// property count above the configured threshold (8 by default) the list is
// rehashed into a map keyed by interned symbol. The switch is one way.
//
// # Thread Safety
//
// Only Retain and Release may be made safe for concurrent use, by enabling
// Config.AtomicRefCount. Property mutation and prototype reassignment on one
// object must be serialized by the caller. The intern table is internally
// locked.
//
// # Memory Model
//
// Payload bytes are copied into an arena on Set. The default arena uses the Go
// heap. Linear arenas place payloads in a single byte-addressed memory, either a
// fixed Go buffer or the linear memory of a wazero instance, which is how a VM
// embedding shares object payloads with guest code.
package protoobj
