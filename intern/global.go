package intern

import "sync"

var (
	globalMu sync.Mutex
	global   *Table
)

// Init creates the process-wide table if it does not exist yet.
func Init() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = NewTable()
	}
}

// Default returns the process-wide table, initializing it if needed.
func Default() *Table {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = NewTable()
	}
	return global
}

// Intern interns text in the process-wide table.
func Intern(text string) *Symbol {
	return Default().Intern(text)
}

// Find looks text up in the process-wide table without interning it.
// Before Init, or after Cleanup, nothing is found.
func Find(text string) (*Symbol, bool) {
	globalMu.Lock()
	t := global
	globalMu.Unlock()
	if t == nil {
		return nil, false
	}
	return t.Find(text)
}

// Cleanup releases the process-wide table. Interned symbols held by live
// objects stop being canonical.
func Cleanup() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		global.Cleanup()
		global = nil
	}
}
