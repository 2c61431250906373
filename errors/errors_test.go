package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseStore,
				Kind:   KindInvalidArgument,
				Key:    "species",
				Detail: "payload rejected",
			},
			contains: []string{"[store]", "invalid_argument", `"species"`, "payload rejected"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhasePrototype,
				Kind:  KindCycle,
			},
			contains: []string{"[prototype]", "cycle"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseArena,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[arena]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseArena,
		Kind:  KindAllocation,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Cycle("a", "b")

	if !errors.Is(err, ErrCycle) {
		t.Error("errors.Is should match ErrCycle")
	}

	if err.Is(&Error{Phase: PhaseObject, Kind: KindCycle}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhasePrototype, Kind: KindReleased}) {
		t.Error("Is should not match different kind")
	}

	if !errors.Is(Released("k"), ErrReleased) {
		t.Error("errors.Is should match ErrReleased")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseStore, KindInvalidArgument).
		Key("name").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "bytes", "nil").
		Build()

	if err.Phase != PhaseStore {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseStore)
	}
	if err.Kind != KindInvalidArgument {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidArgument)
	}
	if err.Key != "name" {
		t.Errorf("Key = %q, want 'name'", err.Key)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected bytes, got nil" {
		t.Errorf("Detail = %v, want 'expected bytes, got nil'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Cycle", func(t *testing.T) {
		err := Cycle("C", "A")
		if err.Kind != KindCycle || err.Phase != PhasePrototype {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Detail, "C") || !strings.Contains(err.Detail, "A") {
			t.Errorf("Detail = %q, should name both objects", err.Detail)
		}
		if Cycle("", "").Detail == "" {
			t.Error("anonymous cycle should still carry a detail")
		}
	})

	t.Run("InvalidKey", func(t *testing.T) {
		err := InvalidKey(PhaseStore, "")
		if err.Kind != KindInvalidArgument {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidArgument)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseArena, 1024, 8)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseArena, 10, 8, 12)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if !strings.Contains(err.Detail, "[10, 18)") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed(PhaseResource, "handle table")
		if err.Kind != KindClosed || !strings.Contains(err.Error(), "handle table closed") {
			t.Errorf("unexpected %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseShell, "object", "x")
		if err.Kind != KindNotFound || !strings.Contains(err.Detail, `"x"`) {
			t.Errorf("unexpected %v", err)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(PhaseArena, KindAllocation, cause, "grow")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep the cause chain")
		}
	})
}
