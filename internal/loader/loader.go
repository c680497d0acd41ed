// Package loader resolves program names to state-machine definitions,
// reloading them fresh on every call, validating their shape, and injecting
// session handles before instantiation.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/traefik/yaegi/interp"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// Binder prepares an interpreter namespace: stdlib symbols, the fsm
// vocabulary, and the session handles a program's setup phase may read.
type Binder = func(*interp.Interpreter) error

// recognized source suffixes a program name must not carry.
var sourceSuffixes = []string{".go", ".fsm", ".py"}

// Loader turns program names into constructed (not yet started) instances.
// Sources are tried in order; the first that resolves the name wins.
type Loader struct {
	sources []ports.ProgramSource
	logger  *slog.Logger
}

// New creates a loader over the given sources.
func New(logger *slog.Logger, sources ...ports.ProgramSource) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{sources: sources, logger: logger}
}

// LoadAndValidate resolves name, validates the definition's shape, and
// instantiates it. The returned instance is tagged with its name and not yet
// started. Warnings on the definition are advisory; the caller decides how
// to surface them.
func (l *Loader) LoadAndValidate(ctx context.Context, name string) (fsm.StateNode, *ports.Definition, error) {
	if err := checkName(name); err != nil {
		return nil, nil, err
	}

	var def *ports.Definition
	for _, src := range l.sources {
		d, err := src.Resolve(ctx, name)
		if err != nil {
			if errors.Is(err, ports.ErrProgramNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("resolving %q: %w", name, err)
		}
		def = d
		break
	}
	if def == nil {
		return nil, nil, fmt.Errorf("%q: %w", name, ports.ErrProgramNotFound)
	}

	l.logger.Debug("program resolved", "name", def.Name, "version", def.Version)

	inst, err := def.Construct()
	if err != nil {
		return nil, def, err
	}
	if r, ok := inst.(fsm.Renameable); ok {
		r.SetName(name)
	}
	return inst, def, nil
}

func checkName(name string) error {
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(name, suffix) {
			return &PathError{Name: name, Suggest: strings.TrimSuffix(name, suffix)}
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return &PathError{Name: name}
	}
	return nil
}
