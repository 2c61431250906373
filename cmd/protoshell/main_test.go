package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/protoobj/intern"
	"github.com/wippyai/protoobj/internal/shell"
	"github.com/wippyai/protoobj/object"
)

func TestNewArena(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		kind    string
		size    uint
		wantErr bool
	}{
		{"heap", 0, false},
		{"", 0, false},
		{"fixed", 4096, false},
		{"fixed", 0, true},
		{"wasm", 1 << 17, false},
		{"wasm", 0, true},
		{"disk", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			a, err := newArena(ctx, tt.kind, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("newArena failed: %v", err)
			}
			defer a.Close()

			b, err := a.Alloc([]byte("payload"))
			if err != nil {
				t.Fatalf("Alloc failed: %v", err)
			}
			if string(a.Bytes(b)) != "payload" {
				t.Fatalf("Bytes = %q", a.Bytes(b))
			}
		})
	}
}

func TestInteractiveModel(t *testing.T) {
	rt, err := object.NewRuntime(&object.Config{Interner: intern.NewTable()})
	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}
	sh := shell.New(rt, nil)
	defer sh.Close()

	m := newInteractiveModel(sh, "test")
	send := func(line string) {
		m.input.SetValue(line)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	send("new a")
	send("set a k v")
	send("bogus")

	if len(m.transcript) != 3 {
		t.Fatalf("transcript has %d entries, want 3", len(m.transcript))
	}
	if m.transcript[2].err == nil {
		t.Fatal("unknown command should record an error")
	}
	if len(m.history) != 3 || m.histIdx != 3 {
		t.Fatalf("history = %v idx %d", m.history, m.histIdx)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.input.Value() != "bogus" {
		t.Fatalf("history recall = %q", m.input.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" {
		t.Fatalf("input after down = %q", m.input.Value())
	}

	view := m.View()
	if !strings.Contains(view, "objects: a") {
		t.Fatalf("view missing bindings:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !m.quitting {
		t.Fatal("esc should quit")
	}
}
