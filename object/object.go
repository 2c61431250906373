package object

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj"
	"github.com/wippyai/protoobj/store"
)

// Object is a reference-counted property container with an optional
// prototype.
type Object struct {
	rt      *Runtime
	proto   *Object
	props   *store.Store
	release protoobj.ReleaseFunc
	id      uint64
	refs    int32
	dead    atomic.Bool
}

// Create creates an object in the default runtime.
func Create(release protoobj.ReleaseFunc) *Object {
	return DefaultRuntime().Create(release)
}

// CreateWithPrototype creates an object in the default runtime whose
// prototype is proto.
func CreateWithPrototype(proto *Object, release protoobj.ReleaseFunc) *Object {
	return DefaultRuntime().CreateWithPrototype(proto, release)
}

// Create creates an object with a reference count of one, no prototype and
// no properties. release, if non-nil, is used for properties set without
// their own release callback.
func (r *Runtime) Create(release protoobj.ReleaseFunc) *Object {
	o := &Object{
		rt:      r,
		props:   store.New(r.threshold, r.arena),
		release: release,
		id:      r.nextID.Add(1),
		refs:    1,
	}
	o.props.OnPromote(func(n int) {
		r.log().Debug("property store promoted",
			zap.Uint64("object", o.id),
			zap.Int("entries", n))
	})
	r.live.Add(1)
	return o
}

// CreateWithPrototype creates an object whose prototype is proto, retaining
// proto. A new object cannot be reachable from proto, so no cycle check is
// needed. A nil, released or foreign proto yields an object without a
// prototype.
func (r *Runtime) CreateWithPrototype(proto *Object, release protoobj.ReleaseFunc) *Object {
	o := r.Create(release)
	if proto == nil {
		return o
	}
	if !proto.Alive() || proto.rt != r {
		r.log().Warn("prototype not linked",
			zap.Uint64("object", o.id),
			zap.Uint64("prototype", proto.id),
			zap.Bool("alive", proto.Alive()),
			zap.Bool("foreign", proto.rt != r))
		return o
	}
	o.proto = proto.Retain()
	return o
}

// ID returns a runtime-unique identifier, for diagnostics.
func (o *Object) ID() uint64 {
	if o == nil {
		return 0
	}
	return o.id
}

// Runtime returns the runtime o was created in.
func (o *Object) Runtime() *Runtime {
	if o == nil {
		return nil
	}
	return o.rt
}

// Alive reports whether o has not been destroyed.
func (o *Object) Alive() bool {
	return o != nil && !o.dead.Load()
}

// RefCount returns the current reference count; 0 once destroyed.
func (o *Object) RefCount() int {
	if o == nil {
		return 0
	}
	if o.rt.atomic {
		return int(atomic.LoadInt32(&o.refs))
	}
	return int(o.refs)
}

// Retain adds a reference to o and returns o. Retaining a nil or destroyed
// object returns nil.
func (o *Object) Retain() *Object {
	if o == nil {
		return nil
	}
	if o.rt.atomic {
		for {
			c := atomic.LoadInt32(&o.refs)
			if c <= 0 {
				o.rt.log().Warn("retain of released object", zap.Uint64("object", o.id))
				return nil
			}
			if atomic.CompareAndSwapInt32(&o.refs, c, c+1) {
				return o
			}
		}
	}
	if o.refs <= 0 {
		o.rt.log().Warn("retain of released object", zap.Uint64("object", o.id))
		return nil
	}
	o.refs++
	return o
}

// Release drops the reference held in *ref and sets *ref to nil. When the
// last reference goes, the object is destroyed: property release callbacks
// run first, then the prototype reference is dropped. A nil ref, a nil
// handle, or a handle to an already destroyed object is a no-op.
func Release(ref **Object) {
	if ref == nil {
		return
	}
	o := *ref
	*ref = nil

	// Destroying an object may drop the last reference to its prototype;
	// walk the chain instead of recursing.
	for o != nil && o.unref() {
		o = o.destroy()
	}
}

// unref drops one reference and reports whether it was the last one.
func (o *Object) unref() bool {
	if o.rt.atomic {
		for {
			c := atomic.LoadInt32(&o.refs)
			if c <= 0 {
				o.rt.log().Debug("release of destroyed object ignored", zap.Uint64("object", o.id))
				return false
			}
			if atomic.CompareAndSwapInt32(&o.refs, c, c-1) {
				return c == 1
			}
		}
	}
	if o.refs <= 0 {
		o.rt.log().Debug("release of destroyed object ignored", zap.Uint64("object", o.id))
		return false
	}
	o.refs--
	return o.refs == 0
}

// destroy tears o down and returns its prototype, whose reference the caller
// must drop.
func (o *Object) destroy() *Object {
	o.dead.Store(true)

	n := o.props.Len()
	o.props.Clear()

	proto := o.proto
	o.proto = nil
	o.release = nil
	o.rt.live.Add(-1)

	o.rt.log().Debug("object destroyed",
		zap.Uint64("object", o.id),
		zap.Int("properties", n),
		zap.Uint64("prototype", proto.ID()))
	return proto
}
