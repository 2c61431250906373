// Package shell implements a small command language over object runtimes,
// used by cmd/protoshell to explore prototype graphs interactively.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/protoobj/errors"
	"github.com/wippyai/protoobj/object"
	"github.com/wippyai/protoobj/resource"
)

// Help lists the supported commands.
const Help = `commands:
  new NAME [PROTO]        create an object, optionally with a prototype
  set NAME KEY VALUE...   store VALUE under KEY on NAME
  get NAME KEY            look KEY up along the prototype chain
  own NAME KEY            report whether KEY is an own property
  has NAME KEY            report whether KEY is visible on NAME
  del NAME KEY            delete an own property
  proto NAME [PROTO|-]    show, set or clear the prototype
  keys NAME               own keys
  all NAME                own and inherited keys
  count NAME              own property count
  info NAME               reference count, storage mode, chain depth
  retain NAME ALIAS       bind ALIAS to NAME with a new reference
  release NAME            drop NAME's binding and its reference
  intern TEXT             intern TEXT in the runtime's key table
  find TEXT               report whether TEXT is interned
  names                   list bindings
  help                    show this text`

// Shell binds names to objects held in a handle table.
type Shell struct {
	rt     *object.Runtime
	table  *resource.Table
	names  map[string]resource.Handle
	logger *zap.Logger
	notes  []string
}

// New creates a shell over rt. A nil logger means no logging.
func New(rt *object.Runtime, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		rt:     rt,
		table:  resource.NewTable().WithLogger(logger),
		names:  make(map[string]resource.Handle),
		logger: logger,
	}
}

// Close drops every binding.
func (s *Shell) Close() error {
	s.names = make(map[string]resource.Handle)
	return s.table.Close()
}

// Names returns the bound names in sorted order.
func (s *Shell) Names() []string {
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Exec runs one command line and returns its output. Release notifications
// raised while the command ran are appended to the output.
func (s *Shell) Exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	s.notes = s.notes[:0]

	out, err := s.dispatch(fields[0], fields[1:], line)
	if len(s.notes) > 0 {
		if out != "" {
			out += "\n"
		}
		out += strings.Join(s.notes, "\n")
	}
	return out, err
}

// RunOptions controls Run.
type RunOptions struct {
	// Prompt is written before each line is read. Empty means no prompt.
	Prompt string
	// StopOnError ends the run at the first failing command.
	StopOnError bool
}

// Run executes commands from r until EOF, writing results to w. Blank lines
// and lines starting with '#' are skipped.
func (s *Shell) Run(r io.Reader, w io.Writer, opts RunOptions) error {
	sc := bufio.NewScanner(r)
	for {
		if opts.Prompt != "" {
			fmt.Fprint(w, opts.Prompt)
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		out, err := s.Exec(line)
		if out != "" {
			fmt.Fprintln(w, out)
		}
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			if opts.StopOnError {
				return err
			}
		}
	}
	return sc.Err()
}

func (s *Shell) dispatch(cmd string, args []string, line string) (string, error) {
	switch cmd {
	case "help":
		return Help, nil
	case "new":
		return s.cmdNew(args)
	case "set":
		return s.cmdSet(args, line)
	case "get":
		return s.withKey(cmd, args, func(o *object.Object, key string) string {
			if v, ok := o.Get(key); ok {
				return string(v)
			}
			return "undefined"
		})
	case "own":
		return s.withKey(cmd, args, func(o *object.Object, key string) string {
			return strconv.FormatBool(o.HasOwn(key))
		})
	case "has":
		return s.withKey(cmd, args, func(o *object.Object, key string) string {
			return strconv.FormatBool(o.Has(key))
		})
	case "del":
		return s.withKey(cmd, args, func(o *object.Object, key string) string {
			return strconv.FormatBool(o.Delete(key))
		})
	case "proto":
		return s.cmdProto(args)
	case "keys":
		return s.withObject(cmd, args, func(o *object.Object) string {
			keys := o.OwnKeys()
			sort.Strings(keys)
			return strings.Join(keys, " ")
		})
	case "all":
		return s.withObject(cmd, args, func(o *object.Object) string {
			return strings.Join(o.AllKeys(), " ")
		})
	case "count":
		return s.withObject(cmd, args, func(o *object.Object) string {
			return strconv.Itoa(o.PropertyCount())
		})
	case "info":
		return s.withObject(cmd, args, func(o *object.Object) string {
			return fmt.Sprintf("%s refs=%d props=%d mode=%s depth=%d proto=%s",
				s.nameOf(o), o.RefCount(), o.PropertyCount(), o.StorageMode(), o.Depth(), s.nameOf(o.Prototype()))
		})
	case "retain":
		return s.cmdRetain(args)
	case "release":
		return s.cmdRelease(args)
	case "intern":
		if len(args) != 1 {
			return "", usage("intern TEXT")
		}
		s.rt.Symbols().Intern(args[0])
		return "ok", nil
	case "find":
		if len(args) != 1 {
			return "", usage("find TEXT")
		}
		_, ok := s.rt.Symbols().Find(args[0])
		return strconv.FormatBool(ok), nil
	case "names":
		return strings.Join(s.Names(), " "), nil
	default:
		return "", errors.New(errors.PhaseShell, errors.KindInvalidArgument).
			Detail("unknown command %q (try help)", cmd).
			Build()
	}
}

func (s *Shell) cmdNew(args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", usage("new NAME [PROTO]")
	}
	name := args[0]
	if _, exists := s.names[name]; exists {
		return "", errors.InvalidArgument(errors.PhaseShell, fmt.Sprintf("%q is already bound", name))
	}

	var obj *object.Object
	if len(args) == 2 {
		proto, err := s.resolve(args[1])
		if err != nil {
			return "", err
		}
		obj = s.rt.CreateWithPrototype(proto, nil)
	} else {
		obj = s.rt.Create(nil)
	}

	s.names[name] = s.table.Insert(obj)
	s.logger.Debug("object bound", zap.String("name", name), zap.Uint64("object", obj.ID()))
	return fmt.Sprintf("%s = object#%d", name, obj.ID()), nil
}

func (s *Shell) cmdSet(args []string, line string) (string, error) {
	if len(args) < 3 {
		return "", usage("set NAME KEY VALUE...")
	}
	obj, err := s.resolve(args[0])
	if err != nil {
		return "", err
	}
	key := args[1]
	value := restAfter(line, 3)

	owner := s.nameOf(obj)
	release := func(payload []byte) {
		s.notes = append(s.notes, fmt.Sprintf("released %s.%s=%q", owner, key, payload))
	}
	if err := obj.Set(key, []byte(value), release); err != nil {
		return "", err
	}
	return "ok", nil
}

func (s *Shell) cmdProto(args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", usage("proto NAME [PROTO|-]")
	}
	obj, err := s.resolve(args[0])
	if err != nil {
		return "", err
	}
	if len(args) == 1 {
		return s.nameOf(obj.Prototype()), nil
	}

	var proto *object.Object
	if args[1] != "-" {
		if proto, err = s.resolve(args[1]); err != nil {
			return "", err
		}
	}
	if err := obj.SetPrototype(proto); err != nil {
		return "", err
	}
	return "ok", nil
}

func (s *Shell) cmdRetain(args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("retain NAME ALIAS")
	}
	h, ok := s.names[args[0]]
	if !ok {
		return "", errors.NotFound(errors.PhaseShell, "object", args[0])
	}
	if _, exists := s.names[args[1]]; exists {
		return "", errors.InvalidArgument(errors.PhaseShell, fmt.Sprintf("%q is already bound", args[1]))
	}
	obj, ok := s.table.Acquire(h)
	if !ok {
		return "", errors.NotFound(errors.PhaseShell, "object", args[0])
	}
	s.names[args[1]] = s.table.Insert(obj)
	return fmt.Sprintf("%s refs=%d", args[1], obj.RefCount()), nil
}

func (s *Shell) cmdRelease(args []string) (string, error) {
	if len(args) != 1 {
		return "", usage("release NAME")
	}
	name := args[0]
	h, ok := s.names[name]
	if !ok {
		return "", errors.NotFound(errors.PhaseShell, "object", name)
	}
	obj, _ := s.table.Get(h)
	delete(s.names, name)
	s.table.Remove(h)

	if obj.Alive() {
		return fmt.Sprintf("%s released, object#%d refs=%d", name, obj.ID(), obj.RefCount()), nil
	}
	return fmt.Sprintf("%s released, object#%d destroyed", name, obj.ID()), nil
}

func (s *Shell) withObject(cmd string, args []string, fn func(*object.Object) string) (string, error) {
	if len(args) != 1 {
		return "", usage(cmd + " NAME")
	}
	obj, err := s.resolve(args[0])
	if err != nil {
		return "", err
	}
	return fn(obj), nil
}

func (s *Shell) withKey(cmd string, args []string, fn func(*object.Object, string) string) (string, error) {
	if len(args) != 2 {
		return "", usage(cmd + " NAME KEY")
	}
	obj, err := s.resolve(args[0])
	if err != nil {
		return "", err
	}
	return fn(obj, args[1]), nil
}

func (s *Shell) resolve(name string) (*object.Object, error) {
	h, ok := s.names[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseShell, "object", name)
	}
	obj, ok := s.table.Get(h)
	if !ok {
		return nil, errors.NotFound(errors.PhaseShell, "object", name)
	}
	return obj, nil
}

// nameOf returns a bound name for obj, or object#ID when it has none.
func (s *Shell) nameOf(obj *object.Object) string {
	if obj == nil {
		return "null"
	}
	var found []string
	for name, h := range s.names {
		if o, ok := s.table.Get(h); ok && o == obj {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return fmt.Sprintf("object#%d", obj.ID())
	}
	sort.Strings(found)
	return found[0]
}

// restAfter returns line with its first n fields and the following
// whitespace removed, preserving inner spacing of the remainder.
func restAfter(line string, n int) string {
	rest := strings.TrimLeft(line, " \t")
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			return ""
		}
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	return rest
}

func usage(form string) error {
	return errors.InvalidArgument(errors.PhaseShell, "usage: "+form)
}
