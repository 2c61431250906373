// Package intern deduplicates property key strings into canonical symbols.
//
// Interning equal text twice yields the same *Symbol, so property stores can
// compare keys by pointer instead of by content:
//
//	a := intern.Intern("name")
//	b := intern.Intern("name")
//	a == b // true
//
// # Lifecycle
//
// The process-wide table is explicit state. Init creates it, Cleanup tears it
// down. Intern on an uninitialized table initializes it on demand. After
// Cleanup, Intern behaves as on a fresh table and returns new symbols; symbols
// obtained earlier no longer compare equal to them, so Cleanup must only run
// when no live object still holds keys from the old table.
//
// Independent tables can be created with NewTable, which is how a runtime
// keeps its keys out of the process-wide table.
//
// # Thread Safety
//
// Table methods and the package-level functions are safe for concurrent use.
package intern
