package arena

import (
	"bytes"
	"errors"
	"testing"

	perrors "github.com/wippyai/protoobj/errors"
)

func TestHeap_AllocFree(t *testing.T) {
	h := NewHeap()

	src := []byte("Human")
	b, err := h.Alloc(src)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	src[0] = 'X'
	if got := h.Bytes(b); string(got) != "Human" {
		t.Fatalf("Bytes = %q, want copy of the original payload", got)
	}

	st := h.Stats()
	if st.Live != 1 || st.LiveBytes != 5 || st.Allocs != 1 {
		t.Fatalf("unexpected stats after alloc: %+v", st)
	}

	h.Free(b)
	st = h.Stats()
	if st.Live != 0 || st.LiveBytes != 0 || st.Frees != 1 {
		t.Fatalf("unexpected stats after free: %+v", st)
	}
}

func TestHeap_EmptyPayload(t *testing.T) {
	h := NewHeap()
	b, err := h.Alloc(nil)
	if err != nil {
		t.Fatalf("Alloc(nil) failed: %v", err)
	}
	if !b.IsZero() {
		t.Fatal("empty payload should produce the zero Block")
	}
	h.Free(b)
	if h.Stats().Frees != 0 {
		t.Fatal("freeing the zero Block must not be counted")
	}
}

func TestHeap_Closed(t *testing.T) {
	h := NewHeap()
	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	_, err := h.Alloc([]byte("x"))
	var e *perrors.Error
	if !errors.As(err, &e) || e.Kind != perrors.KindClosed {
		t.Fatalf("expected closed error, got %v", err)
	}
}

func TestFixed_AllocReadBack(t *testing.T) {
	a := NewFixed(256)

	payloads := [][]byte{
		[]byte("alpha"),
		[]byte("a longer payload that spans granules"),
		{0, 1, 2, 3, 4, 5, 6, 7},
	}
	blocks := make([]Block, len(payloads))
	for i, p := range payloads {
		b, err := a.Alloc(p)
		if err != nil {
			t.Fatalf("Alloc(%d) failed: %v", i, err)
		}
		if b.Ptr == 0 {
			t.Fatal("linear arena must never hand out offset 0")
		}
		if b.Ptr%granule != 0 {
			t.Fatalf("Ptr %d is not aligned", b.Ptr)
		}
		blocks[i] = b
	}
	for i, b := range blocks {
		if got := a.Bytes(b); !bytes.Equal(got, payloads[i]) {
			t.Fatalf("payload %d = %q, want %q", i, got, payloads[i])
		}
	}
}

func TestFixed_Exhaustion(t *testing.T) {
	a := NewFixed(64)

	if _, err := a.Alloc(make([]byte, 48)); err != nil {
		t.Fatalf("first alloc should fit: %v", err)
	}
	_, err := a.Alloc(make([]byte, 16))
	if !errors.Is(err, &perrors.Error{Phase: perrors.PhaseArena, Kind: perrors.KindAllocation}) {
		t.Fatalf("expected allocation error, got %v", err)
	}
	if a.Stats().Live != 1 {
		t.Fatal("failed allocation must not change stats")
	}
}

func TestFixed_ReuseAfterFree(t *testing.T) {
	a := NewFixed(64)

	b1, _ := a.Alloc(make([]byte, 24))
	b2, _ := a.Alloc(make([]byte, 24))
	a.Free(b1)

	b3, err := a.Alloc(make([]byte, 16))
	if err != nil {
		t.Fatalf("alloc after free failed: %v", err)
	}
	if b3.Ptr != b1.Ptr {
		t.Fatalf("first fit should reuse freed range at %d, got %d", b1.Ptr, b3.Ptr)
	}

	a.Free(b3)
	a.Free(b2)
	if a.alloc.Top() != reserved {
		t.Fatalf("freeing everything should reset top, got %d", a.alloc.Top())
	}
	if len(a.alloc.free) != 0 {
		t.Fatalf("free list should be empty, got %v", a.alloc.free)
	}
}

func TestFreeList_Coalesce(t *testing.T) {
	f := NewFreeList(NewSliceMemory(make([]byte, 1024)))

	var ptrs []uint32
	for i := 0; i < 4; i++ {
		p, err := f.Alloc(16, 8)
		if err != nil {
			t.Fatalf("Alloc failed: %v", err)
		}
		ptrs = append(ptrs, p)
	}

	f.Free(ptrs[0], 16, 8)
	f.Free(ptrs[2], 16, 8)
	f.Free(ptrs[1], 16, 8)

	if len(f.free) != 1 {
		t.Fatalf("adjacent ranges should merge into one, got %v", f.free)
	}
	if f.free[0].off != ptrs[0] || f.free[0].size != 48 {
		t.Fatalf("merged range = %+v, want {%d 48}", f.free[0], ptrs[0])
	}

	p, err := f.Alloc(40, 8)
	if err != nil || p != ptrs[0] {
		t.Fatalf("40-byte alloc should fit merged range, got %d, %v", p, err)
	}
}

func TestFreeList_ZeroSize(t *testing.T) {
	f := NewFreeList(NewSliceMemory(make([]byte, 64)))
	if _, err := f.Alloc(0, 8); err == nil {
		t.Fatal("zero-size allocation should fail")
	}
}

func TestSliceMemory_Bounds(t *testing.T) {
	m := NewSliceMemory(make([]byte, 8))
	if err := m.Write(4, []byte{1, 2, 3, 4, 5}); err == nil {
		t.Fatal("write past the end should fail")
	}
	if _, err := m.Read(6, 4); err == nil {
		t.Fatal("read past the end should fail")
	}
	if err := m.Write(0, []byte{9}); err != nil {
		t.Fatalf("in-bounds write failed: %v", err)
	}
	got, err := m.Read(0, 1)
	if err != nil || got[0] != 9 {
		t.Fatalf("Read = %v, %v", got, err)
	}
}
