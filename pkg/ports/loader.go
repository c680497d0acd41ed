package ports

import (
	"context"
	"errors"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

// ErrProgramNotFound is returned when no source can resolve a program name.
var ErrProgramNotFound = errors.New("program not found")

// Definition is a loadable program: a versioned handle produced by a source.
// Reloading yields a new Definition with a higher Version; instances are
// never mutated in place.
type Definition struct {
	Name    string
	Version int

	// Construct instantiates the program. By contract the constructor runs
	// the program's setup phase, which may read the injected session handles.
	Construct func() (fsm.StateNode, error)

	// Warnings are advisory messages gathered during resolution (e.g. a
	// stale generated artifact); they never block loading.
	Warnings []string
}

// ProgramSource resolves program names to definitions. Resolution is fresh
// on every call so edited sources are picked up.
type ProgramSource interface {
	Resolve(ctx context.Context, name string) (*Definition, error)
}

// Watchable is implemented by sources that can notify about backend changes.
type Watchable interface {
	// Watch emits the names of programs whose sources changed.
	Watch(ctx context.Context) (<-chan string, error)
}
