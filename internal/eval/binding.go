package eval

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// Bindings describes the shared namespace injected into every interpreter:
// the session handles, the fsm runtime, and shell functions like runfsm.
type Bindings struct {
	Session ports.Session
	Runtime *fsm.Runtime

	// Funcs are bound by exported name (e.g. "RunFSM") and aliased to their
	// lowercased form ("runfsm") in the namespace.
	Funcs map[string]any
}

// Binder returns a function that seeds an interpreter with the bindings
// under a synthetic "cozmo" package, plus lowercase aliases so lines like
// runfsm("patrol") and robot.StopAllMotors(ctx) read naturally.
func (b Bindings) Binder() func(*interp.Interpreter) error {
	return func(i *interp.Interpreter) error {
		symbols := map[string]reflect.Value{}

		if b.Session != nil {
			symbols["Robot"] = reflect.ValueOf(b.Session)
			symbols["World"] = reflect.ValueOf(b.Session.World())
			symbols["Charger"] = reflect.ValueOf(b.Session.Charger())
			for n := 1; n <= ports.NumCubes; n++ {
				if cube, ok := b.Session.Cube(n); ok {
					symbols[fmt.Sprintf("Cube%d", n)] = reflect.ValueOf(cube)
				}
			}
		}
		if b.Runtime != nil {
			symbols["Runtime"] = reflect.ValueOf(b.Runtime)
		}
		for name, fn := range b.Funcs {
			symbols[name] = reflect.ValueOf(fn)
		}

		if err := i.Use(interp.Exports{"cozmo/cozmo": symbols}); err != nil {
			return fmt.Errorf("exporting session handles: %w", err)
		}
		if err := i.Use(interp.Exports{"fsm/fsm": fsmSymbols()}); err != nil {
			return fmt.Errorf("exporting fsm vocabulary: %w", err)
		}

		names := make([]string, 0, len(symbols))
		for name := range symbols {
			names = append(names, name)
		}
		sort.Strings(names)

		// The import is aliased so program sources may themselves declare
		// import "cozmo" without colliding with the seeded namespace.
		if _, err := i.Eval("import __cozmo \"cozmo\"\n"); err != nil {
			return fmt.Errorf("seeding namespace: %w", err)
		}

		var preamble strings.Builder
		for _, name := range names {
			fmt.Fprintf(&preamble, "%s := __cozmo.%s\n", strings.ToLower(name), name)
		}
		if _, err := i.Eval(preamble.String()); err != nil {
			return fmt.Errorf("seeding namespace: %w", err)
		}
		return nil
	}
}
