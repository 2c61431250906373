package resource

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj/errors"
	"github.com/wippyai/protoobj/object"
)

// Table is a handle table over objects. It is safe for concurrent use;
// the objects themselves keep their own threading rules.
type Table struct {
	entries   []*object.Object
	freeList  []Handle
	observers []Observer
	logger    *zap.Logger
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]*object.Object, 0, 64),
		freeList: make([]Handle, 0, 16),
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the table's logger and returns the table.
func (t *Table) WithLogger(l *zap.Logger) *Table {
	if l != nil {
		t.logger = l
	}
	return t
}

// Insert stores obj and returns its handle. The table takes over the
// caller's reference. Inserting nil or a released object, or inserting into
// a closed table, returns 0; in the closed case obj is released.
func (t *Table) Insert(obj *object.Object) Handle {
	if !obj.Alive() {
		return 0
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		object.Release(&obj)
		return 0
	}

	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = obj
	} else {
		t.entries = append(t.entries, obj)
		h = Handle(len(t.entries))
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, Object: obj})
	return h
}

// Get returns the object for h without retaining it.
func (t *Table) Get(h Handle) (*object.Object, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	obj := t.lookup(h)
	return obj, obj != nil
}

// Acquire returns the object for h with an extra reference the caller must
// release.
func (t *Table) Acquire(h Handle) (*object.Object, bool) {
	t.mu.RLock()
	obj := t.lookup(h).Retain()
	t.mu.RUnlock()

	if obj == nil {
		return nil, false
	}
	t.notify(Event{Type: EventAcquired, Handle: h, Object: obj})
	return obj, true
}

// Remove frees h and drops the table's reference to its object.
func (t *Table) Remove(h Handle) bool {
	t.mu.Lock()
	obj := t.lookup(h)
	if obj == nil {
		t.mu.Unlock()
		return false
	}
	t.entries[h-1] = nil
	t.freeList = append(t.freeList, h)
	t.mu.Unlock()

	// Observers see the object before the table's reference goes.
	t.notify(Event{Type: EventDropped, Handle: h, Object: obj})
	object.Release(&obj)
	return true
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - len(t.freeList)
}

// Each calls fn for every live handle until fn returns false. fn must not
// call back into the table.
func (t *Table) Each(fn func(Handle, *object.Object) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, obj := range t.entries {
		if obj != nil {
			if !fn(Handle(i+1), obj) {
				return
			}
		}
	}
}

// Clear removes every handle.
func (t *Table) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ *object.Object) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close removes every handle and stops accepting inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.Closed(errors.PhaseResource, "handle table")
	}
	t.closed = true
	t.mu.Unlock()

	n := t.Len()
	t.Clear()
	if n > 0 {
		t.logger.Debug("handle table closed", zap.Int("dropped", n))
	}
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// lookup must be called with t.mu held.
func (t *Table) lookup(h Handle) *object.Object {
	if h == 0 || int(h) > len(t.entries) {
		return nil
	}
	return t.entries[h-1]
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
