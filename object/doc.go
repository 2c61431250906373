// Package object implements reference-counted prototype objects.
//
// An Object owns a property store and holds a counted reference to its
// prototype. Reads that miss on an object continue along the prototype chain;
// writes always land on the object itself and shadow inherited values.
//
// # Lifecycle
//
// Create returns an object with a count of one. Retain adds a reference and
// Release drops one, clearing the caller's variable:
//
//	obj := object.Create(nil)
//	alias := obj.Retain()   // count 2
//	object.Release(&alias)  // count 1, alias == nil
//	object.Release(&obj)    // destroyed, obj == nil
//
// When the count reaches zero every remaining property's release callback
// runs, then the prototype reference is dropped, which may destroy the
// prototype in turn. Releasing a nil handle, or a stale copy of a handle to a
// destroyed object, does nothing.
//
// # Prototypes
//
// SetPrototype refuses any link that would make the prototype graph cyclic,
// including an object being its own prototype, and leaves the existing link
// untouched when it does:
//
//	if err := c.SetPrototype(a); errors.Is(err, errors.ErrCycle) { ... }
//
// # Runtimes
//
// A Runtime carries the settings shared by a family of objects: the
// promotion threshold, atomic counting, the intern table and the payload
// arena. The package-level Create functions use DefaultRuntime. Objects from
// different runtimes cannot be linked as prototypes.
package object
