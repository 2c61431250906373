package object

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj/arena"
	"github.com/wippyai/protoobj/errors"
	"github.com/wippyai/protoobj/intern"
	"github.com/wippyai/protoobj/store"
)

// Config holds configuration for runtime creation
type Config struct {
	// HashThreshold is the property count an object may hold in linear
	// storage. The insertion that exceeds it promotes the object's store to
	// hashed storage. 0 means store.DefaultThreshold (8).
	HashThreshold int

	// AtomicRefCount makes Retain and Release safe for concurrent use.
	// Property and prototype mutation stay single-writer either way.
	AtomicRefCount bool

	// Interner is the table keys are interned in.
	// nil means the process-wide intern table.
	Interner *intern.Table

	// Arena stores payload bytes. nil means a Go heap arena owned by the
	// runtime. A caller-supplied arena is not closed by Runtime.Close.
	Arena arena.Arena

	// Logger receives debug events. nil means the package Logger().
	Logger *zap.Logger
}

// Runtime carries the settings shared by a family of objects.
type Runtime struct {
	interner  *intern.Table
	arena     arena.Arena
	logger    *zap.Logger
	threshold int
	atomic    bool
	ownsArena bool
	nextID    atomic.Uint64
	live      atomic.Int64
}

var (
	defaultRuntime     *Runtime
	defaultRuntimeOnce sync.Once
)

// DefaultRuntime returns the runtime used by the package-level constructors.
// It uses default settings and atomic reference counting.
func DefaultRuntime() *Runtime {
	defaultRuntimeOnce.Do(func() {
		defaultRuntime, _ = NewRuntime(&Config{AtomicRefCount: true})
	})
	return defaultRuntime
}

// NewRuntime creates a runtime. A nil cfg means defaults.
func NewRuntime(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.HashThreshold < 0 {
		return nil, errors.InvalidArgument(errors.PhaseConfig,
			fmt.Sprintf("hash threshold must not be negative, got %d", cfg.HashThreshold))
	}

	r := &Runtime{
		interner:  cfg.Interner,
		arena:     cfg.Arena,
		logger:    cfg.Logger,
		threshold: cfg.HashThreshold,
		atomic:    cfg.AtomicRefCount,
	}
	if r.threshold == 0 {
		r.threshold = store.DefaultThreshold
	}
	if r.arena == nil {
		r.arena = arena.NewHeap()
		r.ownsArena = true
	}
	return r, nil
}

// Threshold returns the linear-to-hashed promotion threshold.
func (r *Runtime) Threshold() int {
	return r.threshold
}

// AtomicRefCount reports whether reference counts use atomic operations.
func (r *Runtime) AtomicRefCount() bool {
	return r.atomic
}

// Arena returns the payload arena.
func (r *Runtime) Arena() arena.Arena {
	return r.arena
}

// Symbols returns the intern table keys are resolved against.
func (r *Runtime) Symbols() *intern.Table {
	if r.interner != nil {
		return r.interner
	}
	return intern.Default()
}

// Live returns the number of objects created by r that are not yet destroyed.
func (r *Runtime) Live() int {
	return int(r.live.Load())
}

// Close releases resources owned by the runtime: its heap arena, if it
// created one. Objects still alive keep working for reads but can no
// longer store payloads.
func (r *Runtime) Close() error {
	if n := r.live.Load(); n > 0 {
		r.log().Warn("runtime closed with live objects", zap.Int64("live", n))
	}
	if r.ownsArena {
		return r.arena.Close()
	}
	return nil
}

func (r *Runtime) log() *zap.Logger {
	if r.logger != nil {
		return r.logger
	}
	return Logger()
}
