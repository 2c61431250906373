// Package resource maps integer handles to objects.
//
// Interpreters, FFI layers and WebAssembly hosts often cannot hold Go
// pointers and refer to objects by number instead. A Table hands out such
// numbers and owns one object reference per handle:
//
//	table := resource.NewTable()
//
//	// Insert transfers the caller's reference to the table
//	h := table.Insert(object.Create(nil))
//
//	// Borrow the object; the table keeps its reference
//	obj, ok := table.Get(h)
//
//	// Take an extra reference the caller must release
//	obj, ok = table.Acquire(h)
//	defer object.Release(&obj)
//
//	// Drop the table's reference; the object dies if it was the last one
//	table.Remove(h)
//
// Handle 0 is reserved and always invalid. Freed handles are reused.
//
// # Observers
//
// Register observers to track handle lifecycle events:
//
//	table.Subscribe(observer) // receives EventCreated, EventAcquired, EventDropped
//
// # Memory Management
//
// Objects are not collected automatically. Every Insert must be paired with
// a Remove, or with Close, which drops all remaining handles.
package resource
