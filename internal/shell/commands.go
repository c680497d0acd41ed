package shell

import (
	"fmt"

	"github.com/ariunbolor/cozmo-tools/internal/presentation/tui"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

// RunFSM loads or reloads name, validates it, and swaps it in as the active
// program. Load failures leave the current program untouched. Bound into the
// evaluator namespace as runfsm.
func (s *Shell) RunFSM(name string) {
	ctx := s.dispatchCtx()

	inst, def, err := s.loader.LoadAndValidate(ctx, name)
	if err != nil {
		s.metrics.ProgramLoadFailed()
		fmt.Fprintln(s.out, err)
		return
	}
	for _, warning := range def.Warnings {
		fmt.Fprintln(s.out, warning)
	}

	s.sup.Swap(ctx, inst)
	s.metrics.ProgramLoaded()
	s.metrics.SetActive(true)
	s.logger.Info("program started", "name", name, "version", def.Version)
}

// TraceFSM sets the engine trace level, clamped to 0-9. A negative level
// leaves it unchanged; either way the current level is returned. Bound as
// tracefsm.
func (s *Shell) TraceFSM(level int) int {
	if level < 0 {
		return fsm.TraceLevel()
	}
	return fsm.SetTraceLevel(level)
}

// Help prints the rendered command reference. Bound as help.
func (s *Shell) Help() {
	fmt.Fprint(s.out, tui.RenderHelp())
}
