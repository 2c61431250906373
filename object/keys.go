package object

import "github.com/wippyai/protoobj/intern"

// OwnSymbols returns o's own keys in unspecified order.
func (o *Object) OwnSymbols() []*intern.Symbol {
	if !o.Alive() {
		return nil
	}
	return o.props.Keys()
}

// OwnKeys returns o's own keys in unspecified order.
func (o *Object) OwnKeys() []string {
	return symbolNames(o.OwnSymbols())
}

// AllSymbols returns o's own keys followed by the keys of each ancestor that
// are not already present nearer to o.
func (o *Object) AllSymbols() []*intern.Symbol {
	if !o.Alive() {
		return nil
	}
	seen := make(map[*intern.Symbol]struct{})
	var out []*intern.Symbol
	for cur := o; cur != nil; cur = cur.proto {
		for _, k := range cur.props.Keys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// AllKeys is AllSymbols as strings.
func (o *Object) AllKeys() []string {
	return symbolNames(o.AllSymbols())
}

// ForEach calls fn for each own property until fn returns false. fn must
// not mutate o.
func (o *Object) ForEach(fn func(key string, payload []byte) bool) {
	if !o.Alive() {
		return
	}
	o.props.ForEach(func(k *intern.Symbol, payload []byte) bool {
		return fn(k.String(), payload)
	})
}

func symbolNames(syms []*intern.Symbol) []string {
	if syms == nil {
		return nil
	}
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.String()
	}
	return names
}
