package intern

import (
	"strings"
	"sync"
)

// Symbol is a canonical, immutable key. Two symbols from the same table are
// equal exactly when they are the same pointer.
type Symbol struct {
	name string
}

// String returns the symbol's text. A nil symbol yields "".
func (s *Symbol) String() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Table maps key text to its canonical symbol.
type Table struct {
	symbols map[string]*Symbol
	mu      sync.RWMutex
}

// NewTable creates an empty intern table.
func NewTable() *Table {
	return &Table{
		symbols: make(map[string]*Symbol, 64),
	}
}

// Intern returns the canonical symbol for text, creating it on first use.
// Empty text has no symbol and yields nil.
func (t *Table) Intern(text string) *Symbol {
	if text == "" {
		return nil
	}

	t.mu.RLock()
	sym, ok := t.symbols[text]
	t.mu.RUnlock()
	if ok {
		return sym
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another goroutine may have won the race between the locks.
	if sym, ok := t.symbols[text]; ok {
		return sym
	}
	if t.symbols == nil {
		t.symbols = make(map[string]*Symbol, 64)
	}
	sym = &Symbol{name: strings.Clone(text)}
	t.symbols[text] = sym
	return sym
}

// Find returns the canonical symbol for text without creating one.
func (t *Table) Find(text string) (*Symbol, bool) {
	if text == "" {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	sym, ok := t.symbols[text]
	return sym, ok
}

// Len returns the number of interned symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols)
}

// Cleanup drops every symbol. Later calls to Intern start a fresh table.
func (t *Table) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.symbols = make(map[string]*Symbol, 64)
}
