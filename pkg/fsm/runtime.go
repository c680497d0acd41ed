package fsm

import "log/slog"

// Runtime bundles the loop and event router a program executes against.
// One runtime is shared by every program the shell runs; swapping programs
// does not replace it.
type Runtime struct {
	Loop   *Loop
	Router *EventRouter
	Logger *slog.Logger
}

// NewRuntime creates a runtime. The loop is not started; call Start.
func NewRuntime(logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	loop := NewLoop(logger)
	return &Runtime{
		Loop:   loop,
		Router: NewEventRouter(loop),
		Logger: logger,
	}
}

// Start launches the cooperative loop.
func (rt *Runtime) Start() {
	rt.Loop.Start()
}

// Stop shuts the loop down.
func (rt *Runtime) Stop() {
	rt.Loop.Stop()
}
