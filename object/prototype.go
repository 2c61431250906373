package object

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj/errors"
)

// Prototype returns o's prototype without retaining it.
func (o *Object) Prototype() *Object {
	if !o.Alive() {
		return nil
	}
	return o.proto
}

// Get returns the payload for key from o or, failing that, from the nearest
// ancestor on o's prototype chain that has it.
func (o *Object) Get(key string) ([]byte, bool) {
	sym, ok := o.lookupKey(key)
	if !ok {
		return nil, false
	}
	for cur := o; cur != nil; cur = cur.proto {
		if v, ok := cur.props.Get(sym); ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether Get would find key.
func (o *Object) Has(key string) bool {
	sym, ok := o.lookupKey(key)
	if !ok {
		return false
	}
	for cur := o; cur != nil; cur = cur.proto {
		if cur.props.Has(sym) {
			return true
		}
	}
	return false
}

// SetPrototype links o to proto, retaining proto and releasing the previous
// prototype. A link that would make o reachable from itself fails with an
// error matching errors.ErrCycle and changes nothing. A nil proto unlinks o.
func (o *Object) SetPrototype(proto *Object) error {
	if o == nil {
		return errors.InvalidArgument(errors.PhasePrototype, "nil object")
	}
	if !o.Alive() {
		return errors.Released("")
	}
	if proto != nil {
		if !proto.Alive() {
			return errors.InvalidArgument(errors.PhasePrototype, "prototype has been released")
		}
		if proto.rt != o.rt {
			return errors.Foreign(errors.PhasePrototype, "prototype belongs to a different runtime")
		}
	}
	if proto == o.proto {
		return nil
	}

	// The graph is a forest, so following single parent links from proto
	// either reaches o or ends.
	for cur := proto; cur != nil; cur = cur.proto {
		if cur == o {
			o.rt.log().Debug("prototype cycle rejected",
				zap.Uint64("object", o.id),
				zap.Uint64("prototype", proto.id))
			return errors.Cycle(objectName(o), objectName(proto))
		}
	}

	// Retain first: the old prototype may hold the only other reference.
	old := o.proto
	o.proto = proto.Retain()
	Release(&old)
	return nil
}

// Depth returns the number of ancestors on o's prototype chain.
func (o *Object) Depth() int {
	if !o.Alive() {
		return 0
	}
	n := 0
	for cur := o.proto; cur != nil; cur = cur.proto {
		n++
	}
	return n
}

func objectName(o *Object) string {
	return fmt.Sprintf("object#%d", o.id)
}
