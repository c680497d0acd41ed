// Package supervisor owns the single active-program slot: swap, stop,
// status display, and text-message delivery into the running program.
package supervisor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// Supervisor holds at most one active program instance. Writes happen only
// from the shell's control goroutine; the lock exists because the viewer
// server and tests read the slot from other goroutines.
type Supervisor struct {
	rt      *fsm.Runtime
	session ports.Session
	logger  *slog.Logger

	mu     sync.RWMutex
	active fsm.StateNode
}

// New creates a supervisor with an empty slot.
func New(rt *fsm.Runtime, session ports.Session, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Supervisor{rt: rt, session: session, logger: logger}
}

// Active returns the current instance, if any.
func (s *Supervisor) Active() (fsm.StateNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != nil
}

// Swap installs inst as the active program. Any previous instance is fully
// stopped first (actuation halted, stop invoked, panics swallowed) before
// the new instance's start is scheduled on the loop. Start never blocks the
// caller.
func (s *Supervisor) Swap(ctx context.Context, inst fsm.StateNode) {
	s.mu.Lock()
	old := s.active
	s.active = inst
	s.mu.Unlock()

	if old != nil {
		s.teardown(ctx, old)
	}
	s.rt.Loop.CallSoon(inst.Start)
	s.logger.Info("program installed", "name", inst.Name())
}

// StopActive halts actuation and stops the active program, leaving the slot
// empty. It reports whether anything was stopped and the stopped name.
func (s *Supervisor) StopActive(ctx context.Context) (string, bool) {
	s.mu.Lock()
	old := s.active
	s.active = nil
	s.mu.Unlock()

	if old == nil {
		return "", false
	}
	s.teardown(ctx, old)
	return old.Name(), true
}

// teardown is best-effort: stop operations must never propagate past the
// supervisor, so the shell always regains control.
func (s *Supervisor) teardown(ctx context.Context, inst fsm.StateNode) {
	if err := s.session.StopAllMotors(ctx); err != nil {
		s.logger.Warn("stopping motors", "err", err)
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic stopping program", "name", inst.Name(), "panic", r)
			}
		}()
		inst.Stop()
	}()
	// A start scheduled by an earlier Swap may still be queued. The loop is
	// FIFO, so a trailing stop lands after it and wins.
	s.rt.Loop.CallSoon(inst.Stop)
}
