package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

var stateNodeType = reflect.TypeOf((*fsm.StateNode)(nil)).Elem()

// FsSource loads program definitions from <dir>/<name>.go, interpreted with
// yaegi. Every Resolve produces a fresh definition handle with a bumped
// version, so source edits are picked up without restarting the shell.
type FsSource struct {
	dir    string
	binder Binder
	logger *slog.Logger

	mu       sync.Mutex
	versions map[string]int
}

// NewFsSource creates a source rooted at dir. The binder seeds each fresh
// interpreter with the session handles and fsm vocabulary.
func NewFsSource(dir string, binder Binder, logger *slog.Logger) *FsSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FsSource{
		dir:      dir,
		binder:   binder,
		logger:   logger,
		versions: make(map[string]int),
	}
}

// Resolve stats the source file, gathers staleness warnings, and returns a
// definition whose Construct interprets the file and validates its shape.
func (s *FsSource) Resolve(ctx context.Context, name string) (*ports.Definition, error) {
	path := filepath.Join(s.dir, name+".go")
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ports.ErrProgramNotFound)
		}
		return nil, err
	}

	def := &ports.Definition{
		Name:    name,
		Version: s.bumpVersion(name),
	}

	// The .fsm file is the DSL source; the .go file is generated from it.
	// A newer .fsm means the artifact is stale. Advisory only.
	if fsmInfo, err := os.Stat(filepath.Join(s.dir, name+".fsm")); err == nil {
		if fsmInfo.ModTime().After(info.ModTime()) {
			def.Warnings = append(def.Warnings,
				fmt.Sprintf("%s.fsm is newer than %s.go; run genfsm to regenerate", name, name))
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	def.Construct = func() (fsm.StateNode, error) {
		return s.construct(name, string(src))
	}
	return def, nil
}

// construct interprets the source in a fresh namespace and validates that it
// declares a constructor named after the program before calling it.
func (s *FsSource) construct(name, src string) (fsm.StateNode, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading stdlib symbols: %w", err)
	}
	if s.binder != nil {
		if err := s.binder(i); err != nil {
			return nil, fmt.Errorf("binding session handles: %w", err)
		}
	}

	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("evaluating %s.go: %w", name, err)
	}

	v, err := i.Eval(name)
	if err != nil {
		return nil, &ShapeError{Name: name, Reason: fmt.Sprintf("does not define a top-level construct named %q", name)}
	}
	if v.Kind() != reflect.Func {
		return nil, &ShapeError{Name: name, Reason: fmt.Sprintf("%q is not a constructor function", name)}
	}
	typ := v.Type()
	if typ.NumIn() != 0 || typ.NumOut() != 1 || !typ.Out(0).Implements(stateNodeType) {
		return nil, &ShapeError{Name: name, Reason: fmt.Sprintf("%q must be declared as func %s() returning a StateNode (start/stop/running/name)", name, name)}
	}

	out := v.Call(nil)
	inst, ok := out[0].Interface().(fsm.StateNode)
	if !ok || inst == nil {
		return nil, &ShapeError{Name: name, Reason: "constructor returned a value without the state-machine capability"}
	}
	return inst, nil
}

func (s *FsSource) bumpVersion(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[name]++
	return s.versions[name]
}
