package arena

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/protoobj"
	"github.com/wippyai/protoobj/errors"
)

const wasmPageSize = 65536

// WazeroConfig holds configuration for a wazero-backed arena
type WazeroConfig struct {
	// InitialPages is the starting memory size in 64KB pages.
	// 0 means 1 page.
	InitialPages uint32

	// MaxPages caps memory growth in pages.
	// 0 means the WebAssembly limit (65536 pages = 4GB).
	MaxPages uint32
}

// Wazero is a Linear arena whose memory is the exported memory of a
// wazero module instance.
type Wazero struct {
	*Linear
	runtime wazero.Runtime
	module  api.Module
}

// NewWazeroArena instantiates a memory-only module and returns an arena over
// its linear memory.
func NewWazeroArena(ctx context.Context, cfg *WazeroConfig) (*Wazero, error) {
	initial, limit := uint32(1), uint32(0)
	if cfg != nil {
		if cfg.InitialPages > 0 {
			initial = cfg.InitialPages
		}
		limit = cfg.MaxPages
	}
	if limit > 0 && initial > limit {
		return nil, errors.InvalidArgument(errors.PhaseConfig,
			fmt.Sprintf("initial pages %d exceed max pages %d", initial, limit))
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	mod, err := rt.Instantiate(ctx, memoryModule(initial, limit))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseArena, errors.KindAllocation, err, "instantiate memory module")
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.New(errors.PhaseArena, errors.KindNotFound).
			Detail("memory module exports no memory").
			Build()
	}

	Logger().Debug("wazero arena created",
		zap.Uint32("initial_pages", initial),
		zap.Uint32("max_pages", limit))

	return &Wazero{
		Linear:  NewLinear(&WazeroMemory{mem: mem}),
		runtime: rt,
		module:  mod,
	}, nil
}

// Close closes the module instance and its runtime.
func (w *Wazero) Close() error {
	ctx := context.Background()
	err := w.Linear.Close()
	err = multierr.Append(err, w.module.Close(ctx))
	err = multierr.Append(err, w.runtime.Close(ctx))
	return err
}

// WazeroMemory wraps wazero memory to implement protoobj.Memory
type WazeroMemory struct {
	mem api.Memory
}

var (
	_ protoobj.Memory = (*WazeroMemory)(nil)
	_ protoobj.Grower = (*WazeroMemory)(nil)
)

// NewWazeroMemory adapts an existing wazero memory, for example the memory of
// a guest module that should share payloads with the host.
func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseArena, offset, length, m.Size())
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseArena, offset, uint32(len(data)), m.Size())
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Grow enlarges the memory by at least delta bytes, in whole pages.
func (m *WazeroMemory) Grow(delta uint32) bool {
	pages := (uint64(delta) + wasmPageSize - 1) / wasmPageSize
	if pages == 0 {
		return true
	}
	_, ok := m.mem.Grow(uint32(pages))
	return ok
}

// memoryModule encodes a module that only declares and exports "memory".
func memoryModule(minPages, maxPages uint32) []byte {
	limits := []byte{0x00}
	limits = appendULEB(limits, minPages)
	if maxPages > 0 {
		limits[0] = 0x01
		limits = appendULEB(limits, maxPages)
	}
	memSec := append([]byte{0x01}, limits...)
	exportSec := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, 0x05)
	out = appendULEB(out, uint32(len(memSec)))
	out = append(out, memSec...)
	out = append(out, 0x07)
	out = appendULEB(out, uint32(len(exportSec)))
	out = append(out, exportSec...)
	return out
}

func appendULEB(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}
