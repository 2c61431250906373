package store

import "github.com/wippyai/protoobj/intern"

// backend is one concrete shape of property storage.
type backend interface {
	lookup(key *intern.Symbol) (*Entry, bool)
	insert(e Entry)
	remove(key *intern.Symbol) (Entry, bool)
	len() int
	each(fn func(e *Entry) bool)
}

// linear keeps entries in insertion order.
type linear struct {
	entries []Entry
}

func newLinear() *linear {
	return &linear{entries: make([]Entry, 0, 4)}
}

func (l *linear) lookup(key *intern.Symbol) (*Entry, bool) {
	for i := range l.entries {
		if l.entries[i].Key == key {
			return &l.entries[i], true
		}
	}
	return nil, false
}

func (l *linear) insert(e Entry) {
	l.entries = append(l.entries, e)
}

func (l *linear) remove(key *intern.Symbol) (Entry, bool) {
	for i := range l.entries {
		if l.entries[i].Key == key {
			e := l.entries[i]
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = Entry{}
			l.entries = l.entries[:len(l.entries)-1]
			return e, true
		}
	}
	return Entry{}, false
}

func (l *linear) len() int {
	return len(l.entries)
}

func (l *linear) each(fn func(e *Entry) bool) {
	for i := range l.entries {
		if !fn(&l.entries[i]) {
			return
		}
	}
}

// hashed indexes entries by symbol address.
type hashed struct {
	index map[*intern.Symbol]*Entry
}

func newHashed(capacity int) *hashed {
	return &hashed{index: make(map[*intern.Symbol]*Entry, capacity)}
}

func (h *hashed) lookup(key *intern.Symbol) (*Entry, bool) {
	e, ok := h.index[key]
	return e, ok
}

func (h *hashed) insert(e Entry) {
	h.index[e.Key] = &e
}

func (h *hashed) remove(key *intern.Symbol) (Entry, bool) {
	e, ok := h.index[key]
	if !ok {
		return Entry{}, false
	}
	delete(h.index, key)
	return *e, true
}

func (h *hashed) len() int {
	return len(h.index)
}

func (h *hashed) each(fn func(e *Entry) bool) {
	for _, e := range h.index {
		if !fn(e) {
			return
		}
	}
}
