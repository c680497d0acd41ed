package shell

import (
	"context"
	"fmt"
	"time"
)

// guardTimeout bounds the per-cycle session probes so a dead link can never
// wedge the prompt.
const guardTimeout = 250 * time.Millisecond

// guardSession runs once per prompt cycle, before blocking on input. The
// pose query doubles as a liveness probe; any error is swallowed. The
// charger warning is latched: it fires once when the robot docks and re-arms
// only after it leaves the charger.
func (s *Shell) guardSession(ctx context.Context) {
	gctx, cancel := context.WithTimeout(ctx, guardTimeout)
	defer cancel()

	if _, err := s.session.Pose(gctx); err != nil {
		s.logger.Debug("pose query failed", "err", err)
		return
	}

	docked, err := s.session.OnCharger(gctx)
	if err != nil {
		s.logger.Debug("charger query failed", "err", err)
		return
	}
	if !docked {
		s.chargerWarned = false
		return
	}
	if !s.chargerWarned {
		s.chargerWarned = true
		fmt.Fprintln(s.out, "** Robot is on the charger; drive it off to enable motion.")
	}
}

// handleInterrupt services a Ctrl+C caught at the prompt: halt actuation,
// stop a running program by name, or hint at exit. The loop always resumes.
func (s *Shell) handleInterrupt(ctx context.Context) {
	if err := s.session.StopAllMotors(ctx); err != nil {
		s.logger.Warn("stopping motors", "err", err)
	}
	if inst, ok := s.sup.Active(); ok && inst.Running() {
		fmt.Fprintf(s.out, "\nKeyboard interrupt: stopping %s.\n", inst.Name())
		s.sup.StopActive(ctx)
		s.metrics.SetActive(false)
		return
	}
	fmt.Fprintln(s.out, "\nType \"exit\" to quit.")
}
