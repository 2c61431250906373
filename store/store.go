package store

import (
	"github.com/wippyai/protoobj"
	"github.com/wippyai/protoobj/arena"
	"github.com/wippyai/protoobj/errors"
	"github.com/wippyai/protoobj/intern"
)

// DefaultThreshold is the entry count a linear store may hold before it is
// promoted to hashed storage.
const DefaultThreshold = 8

// Mode identifies the storage shape.
type Mode uint8

const (
	ModeLinear Mode = iota
	ModeHashed
)

func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHashed:
		return "hashed"
	default:
		return "unknown"
	}
}

// Entry is one stored property.
type Entry struct {
	Key     *intern.Symbol
	Release protoobj.ReleaseFunc
	Block   arena.Block
}

// Store maps interned keys to payloads for a single object.
type Store struct {
	backend   backend
	arena     arena.Arena
	onPromote func(n int)
	threshold int
	mode      Mode
}

// New creates an empty linear store. A negative threshold is treated as
// DefaultThreshold; a nil arena means a private heap arena.
func New(threshold int, a arena.Arena) *Store {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	if a == nil {
		a = arena.NewHeap()
	}
	return &Store{
		backend:   newLinear(),
		arena:     a,
		threshold: threshold,
		mode:      ModeLinear,
	}
}

// OnPromote registers fn to run after the store switches to hashed storage.
// fn receives the entry count at the time of promotion.
func (s *Store) OnPromote(fn func(n int)) {
	s.onPromote = fn
}

// Mode returns the current storage shape.
func (s *Store) Mode() Mode {
	return s.mode
}

// Threshold returns the promotion threshold.
func (s *Store) Threshold() int {
	return s.threshold
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return s.backend.len()
}

// Set stores a copy of data under key. If key is already present the entry is
// overwritten first and the old payload's release callback runs afterwards.
func (s *Store) Set(key *intern.Symbol, data []byte, release protoobj.ReleaseFunc) error {
	if key == nil {
		return errors.InvalidKey(errors.PhaseStore, "")
	}

	block, err := s.arena.Alloc(data)
	if err != nil {
		return errors.New(errors.PhaseStore, errors.KindAllocation).
			Key(key.String()).
			Detail("store %d byte payload", len(data)).
			Cause(err).
			Build()
	}

	if e, ok := s.backend.lookup(key); ok {
		old := *e
		e.Block = block
		e.Release = release
		s.discard(old)
		return nil
	}

	s.backend.insert(Entry{Key: key, Block: block, Release: release})
	if s.mode == ModeLinear && s.backend.len() > s.threshold {
		s.promote()
	}
	return nil
}

// Get returns the payload stored under key.
func (s *Store) Get(key *intern.Symbol) ([]byte, bool) {
	if key == nil {
		return nil, false
	}
	e, ok := s.backend.lookup(key)
	if !ok {
		return nil, false
	}
	return s.arena.Bytes(e.Block), true
}

// Has reports whether key is present.
func (s *Store) Has(key *intern.Symbol) bool {
	if key == nil {
		return false
	}
	_, ok := s.backend.lookup(key)
	return ok
}

// Delete removes key and releases its payload. It reports whether anything
// was removed.
func (s *Store) Delete(key *intern.Symbol) bool {
	if key == nil {
		return false
	}
	e, ok := s.backend.remove(key)
	if !ok {
		return false
	}
	s.discard(e)
	return true
}

// Keys returns the stored keys in unspecified order.
func (s *Store) Keys() []*intern.Symbol {
	keys := make([]*intern.Symbol, 0, s.backend.len())
	s.backend.each(func(e *Entry) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

// ForEach calls fn for every entry until fn returns false. fn must not
// mutate the store.
func (s *Store) ForEach(fn func(key *intern.Symbol, payload []byte) bool) {
	s.backend.each(func(e *Entry) bool {
		return fn(e.Key, s.arena.Bytes(e.Block))
	})
}

// Clear releases every entry. The storage shape is kept.
func (s *Store) Clear() {
	entries := make([]Entry, 0, s.backend.len())
	s.backend.each(func(e *Entry) bool {
		entries = append(entries, *e)
		return true
	})
	if s.mode == ModeHashed {
		s.backend = newHashed(0)
	} else {
		s.backend = newLinear()
	}
	for _, e := range entries {
		s.discard(e)
	}
}

func (s *Store) promote() {
	h := newHashed(s.backend.len() * 2)
	s.backend.each(func(e *Entry) bool {
		h.insert(*e)
		return true
	})
	s.backend = h
	s.mode = ModeHashed
	if s.onPromote != nil {
		s.onPromote(h.len())
	}
}

func (s *Store) discard(e Entry) {
	if e.Release != nil {
		e.Release(s.arena.Bytes(e.Block))
	}
	s.arena.Free(e.Block)
}
