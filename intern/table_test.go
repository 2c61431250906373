package intern

import (
	"fmt"
	"sync"
	"testing"
)

func TestTable_InternIdentity(t *testing.T) {
	table := NewTable()

	a := table.Intern("species")
	b := table.Intern(string([]byte("species")))
	if a == nil {
		t.Fatal("Intern returned nil for non-empty text")
	}
	if a != b {
		t.Fatal("interning equal text twice must return the same symbol")
	}
	if a.String() != "species" {
		t.Fatalf("String() = %q, want species", a.String())
	}
	if c := table.Intern("name"); c == a {
		t.Fatal("different text must not share a symbol")
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
}

func TestTable_FindDoesNotAllocate(t *testing.T) {
	table := NewTable()

	if _, ok := table.Find("missing"); ok {
		t.Fatal("Find before Intern should not find anything")
	}
	if table.Len() != 0 {
		t.Fatal("Find must not intern")
	}

	sym := table.Intern("missing")
	found, ok := table.Find("missing")
	if !ok || found != sym {
		t.Fatal("Find should return the interned symbol")
	}
}

func TestTable_EmptyText(t *testing.T) {
	table := NewTable()

	if sym := table.Intern(""); sym != nil {
		t.Fatal("empty text should not be interned")
	}
	if _, ok := table.Find(""); ok {
		t.Fatal("empty text should never be found")
	}
	var nilSym *Symbol
	if nilSym.String() != "" {
		t.Fatal("nil symbol should print as empty")
	}
}

func TestTable_Cleanup(t *testing.T) {
	table := NewTable()
	before := table.Intern("k")

	table.Cleanup()

	if table.Len() != 0 {
		t.Fatalf("Len() after Cleanup = %d, want 0", table.Len())
	}
	if _, ok := table.Find("k"); ok {
		t.Fatal("Find after Cleanup should miss")
	}
	after := table.Intern("k")
	if after == nil || after.String() != "k" {
		t.Fatal("Intern after Cleanup should work as a fresh table")
	}
	if after == before {
		t.Fatal("symbols must not survive Cleanup")
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()

	const workers = 8
	results := make([][]*Symbol, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			syms := make([]*Symbol, 100)
			for i := range syms {
				syms[i] = table.Intern(fmt.Sprintf("key-%d", i))
			}
			results[w] = syms
		}(w)
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for i := range results[w] {
			if results[w][i] != results[0][i] {
				t.Fatalf("worker %d got a different symbol for key-%d", w, i)
			}
		}
	}
	if table.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", table.Len())
	}
}

func TestGlobal_Lifecycle(t *testing.T) {
	Cleanup()
	t.Cleanup(Cleanup)

	if _, ok := Find("global-key"); ok {
		t.Fatal("Find before Init should miss")
	}

	Init()
	a := Intern("global-key")
	b := Intern("global-key")
	if a != b {
		t.Fatal("process-wide Intern must be idempotent")
	}
	if found, ok := Find("global-key"); !ok || found != a {
		t.Fatal("Find should see process-wide symbols")
	}
	if Default().Len() != 1 {
		t.Fatalf("Default().Len() = %d, want 1", Default().Len())
	}

	Cleanup()
	if _, ok := Find("global-key"); ok {
		t.Fatal("Find after Cleanup should miss")
	}
	if c := Intern("global-key"); c == a {
		t.Fatal("Intern after Cleanup should return a fresh symbol")
	}
}

func BenchmarkTable_InternHit(b *testing.B) {
	table := NewTable()
	table.Intern("species")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Intern("species")
	}
}
