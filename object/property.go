package object

import (
	"github.com/wippyai/protoobj"
	"github.com/wippyai/protoobj/errors"
	"github.com/wippyai/protoobj/intern"
	"github.com/wippyai/protoobj/store"
)

// Set stores a copy of payload under key on o itself. release runs once when
// this payload is later discarded; nil means the object's default release
// callback. Overwriting a key runs the old payload's callback, never the new
// one's.
func (o *Object) Set(key string, payload []byte, release protoobj.ReleaseFunc) error {
	if o == nil {
		return errors.InvalidArgument(errors.PhaseObject, "nil object")
	}
	if !o.Alive() {
		return errors.Released(key)
	}
	if key == "" {
		return errors.InvalidKey(errors.PhaseObject, key)
	}
	if release == nil {
		release = o.release
	}
	return o.props.Set(o.rt.Symbols().Intern(key), payload, release)
}

// GetOwn returns the payload stored under key on o itself.
func (o *Object) GetOwn(key string) ([]byte, bool) {
	sym, ok := o.lookupKey(key)
	if !ok {
		return nil, false
	}
	return o.props.Get(sym)
}

// HasOwn reports whether key is stored on o itself.
func (o *Object) HasOwn(key string) bool {
	sym, ok := o.lookupKey(key)
	return ok && o.props.Has(sym)
}

// Delete removes key from o itself, running its release callback. It reports
// whether anything was removed. Inherited values are never affected.
func (o *Object) Delete(key string) bool {
	sym, ok := o.lookupKey(key)
	return ok && o.props.Delete(sym)
}

// PropertyCount returns the number of own properties.
func (o *Object) PropertyCount() int {
	if !o.Alive() {
		return 0
	}
	return o.props.Len()
}

// StorageMode returns the shape of o's property store.
func (o *Object) StorageMode() store.Mode {
	if o == nil {
		return store.ModeLinear
	}
	return o.props.Mode()
}

// lookupKey resolves key to its symbol without interning it. A key that was
// never interned cannot be stored anywhere.
func (o *Object) lookupKey(key string) (*intern.Symbol, bool) {
	if !o.Alive() || key == "" {
		return nil, false
	}
	return o.rt.Symbols().Find(key)
}
