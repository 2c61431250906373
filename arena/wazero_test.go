package arena

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryModule_Encoding(t *testing.T) {
	got := memoryModule(1, 0)
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("memoryModule(1, 0) = % x\nwant % x", got, want)
	}

	withMax := memoryModule(1, 200)
	// limits flag 1, min 1, max 200 (two-byte LEB128)
	if !bytes.Contains(withMax, []byte{0x05, 0x05, 0x01, 0x01, 0x01, 0xc8, 0x01}) {
		t.Fatalf("max limits not encoded: % x", withMax)
	}
}

func TestWazeroArena_AllocReadBack(t *testing.T) {
	ctx := context.Background()
	a, err := NewWazeroArena(ctx, nil)
	if err != nil {
		t.Fatalf("NewWazeroArena failed: %v", err)
	}
	defer a.Close()

	if a.Memory().Size() != wasmPageSize {
		t.Fatalf("initial size = %d, want one page", a.Memory().Size())
	}

	b, err := a.Alloc([]byte("Alice"))
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if got := a.Bytes(b); string(got) != "Alice" {
		t.Fatalf("Bytes = %q, want Alice", got)
	}
	a.Free(b)
	if a.Stats().Live != 0 {
		t.Fatal("expected no live payloads after Free")
	}
}

func TestWazeroArena_Grows(t *testing.T) {
	ctx := context.Background()
	a, err := NewWazeroArena(ctx, &WazeroConfig{InitialPages: 1, MaxPages: 4})
	if err != nil {
		t.Fatalf("NewWazeroArena failed: %v", err)
	}
	defer a.Close()

	big := bytes.Repeat([]byte{0xab}, wasmPageSize+100)
	b, err := a.Alloc(big)
	if err != nil {
		t.Fatalf("Alloc past one page should grow memory: %v", err)
	}
	if a.Memory().Size() < 2*wasmPageSize {
		t.Fatalf("memory did not grow, size = %d", a.Memory().Size())
	}
	if !bytes.Equal(a.Bytes(b), big) {
		t.Fatal("payload corrupted after growth")
	}

	if _, err := a.Alloc(make([]byte, 4*wasmPageSize)); err == nil {
		t.Fatal("allocation beyond MaxPages should fail")
	}
}

func TestWazeroArena_InvalidConfig(t *testing.T) {
	_, err := NewWazeroArena(context.Background(), &WazeroConfig{InitialPages: 4, MaxPages: 2})
	if err == nil {
		t.Fatal("initial pages above max should be rejected")
	}
}
