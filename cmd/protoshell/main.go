package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/protoobj/arena"
	"github.com/wippyai/protoobj/internal/shell"
	"github.com/wippyai/protoobj/object"
)

type options struct {
	script      string
	arenaKind   string
	arenaSize   uint
	threshold   int
	atomic      bool
	interactive bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.script, "f", "", "Run commands from file")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.IntVar(&opts.threshold, "threshold", 0, "Property count before hashed storage (0 = default)")
	flag.BoolVar(&opts.atomic, "atomic", false, "Use atomic reference counting")
	flag.StringVar(&opts.arenaKind, "arena", "heap", "Payload arena: heap, fixed or wasm")
	flag.UintVar(&opts.arenaSize, "arena-size", 1<<20, "Fixed arena size in bytes, or wasm memory limit in bytes")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) (err error) {
	ctx := context.Background()

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}
	object.SetLogger(logger)
	arena.SetLogger(logger)

	a, err := newArena(ctx, opts.arenaKind, opts.arenaSize)
	if err != nil {
		return fmt.Errorf("create arena: %w", err)
	}
	defer func() { err = multierr.Append(err, a.Close()) }()

	rt, err := object.NewRuntime(&object.Config{
		HashThreshold:  opts.threshold,
		AtomicRefCount: opts.atomic,
		Arena:          a,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}

	sh := shell.New(rt, logger)
	defer func() { err = multierr.Append(err, sh.Close()) }()

	if opts.interactive {
		return runInteractive(sh, opts)
	}

	var in io.Reader = os.Stdin
	runOpts := shell.RunOptions{}
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
		runOpts.StopOnError = true
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		runOpts.Prompt = "proto> "
	}

	return sh.Run(in, os.Stdout, runOpts)
}

// newArena builds the payload arena named by kind. size is the buffer size
// for a fixed arena and the memory limit for a wasm arena.
func newArena(ctx context.Context, kind string, size uint) (arena.Arena, error) {
	switch kind {
	case "", "heap":
		return arena.NewHeap(), nil
	case "fixed":
		if size == 0 || size > 1<<32-1 {
			return nil, fmt.Errorf("fixed arena size %d out of range", size)
		}
		return arena.NewFixed(uint32(size)), nil
	case "wasm":
		pages := (size + pageSize - 1) / pageSize
		if pages == 0 || pages > maxPages {
			return nil, fmt.Errorf("wasm arena size %d out of range", size)
		}
		w, err := arena.NewWazeroArena(ctx, &arena.WazeroConfig{MaxPages: uint32(pages)})
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown arena %q (want heap, fixed or wasm)", kind)
	}
}

const (
	pageSize = 65536
	maxPages = 65536
)
