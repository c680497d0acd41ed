package shell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/ariunbolor/cozmo-tools/internal/supervisor"
)

// viewerPaths maps a show target to the route it opens. viewer and cam_viewer
// are accepted aliases for the same window.
var viewerPaths = map[string]string{
	"viewer":          "/viewer/cam",
	"cam_viewer":      "/viewer/cam",
	"particle_viewer": "/viewer/particles",
	"path_viewer":     "/viewer/path",
	"worldmap_viewer": "/viewer/worldmap",
}

const showUsage = `Usage:
  show active
  show viewer | cam_viewer
  show particle_viewer
  show path_viewer
  show worldmap_viewer
`

// Dispatch classifies one line and executes it. Nothing it does may
// terminate the loop except the exit command; evaluation errors and
// cancellations are reported and swallowed here.
func (s *Shell) Dispatch(ctx context.Context, line string) {
	s.curCtx = ctx
	defer func() { s.curCtx = nil }()

	kind, rest := Classify(line)
	if kind != KindEmpty {
		s.metrics.Dispatch(kind.String())
	}

	switch kind {
	case KindEmpty:
	case KindShellEscape:
		s.shellEscape(ctx, rest)
	case KindTextMsg:
		if err := s.sup.DeliverText(ctx, s.out, rest); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(s.out, "Keyboard interrupt!")
			} else if !errors.Is(err, supervisor.ErrNoProgram) {
				s.logger.Warn("delivering text message", "err", err)
			}
		}
	case KindShow:
		s.show(ctx, rest)
	case KindStatement:
		s.reportEvalError(s.ev.EvaluateStatement(ctx, rest))
	case KindAwait:
		s.ev.Reset()
		fmt.Fprintln(s.out, "Cannot await here; only a running state machine can suspend.")
	case KindExit:
		s.shutdown(ctx)
	case KindExpr:
		res, err := s.ev.Evaluate(ctx, rest)
		if err != nil {
			s.reportEvalError(err)
			return
		}
		if res.HasValue {
			fmt.Fprintf(s.out, "%v\n\n", res.Value)
		}
	}
}

// shellEscape runs rest under the host shell and prints whatever comes back.
// Failures are reported, never raised.
func (s *Shell) shellEscape(ctx context.Context, rest string) {
	if rest == "" {
		return
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", rest)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		s.out.Write(out)
	}
	if err != nil {
		fmt.Fprintf(s.out, "shell command failed: %v\n", err)
	}
}

func (s *Shell) show(ctx context.Context, target string) {
	if target == "active" {
		s.sup.WriteStatus(s.out)
		return
	}
	path, ok := viewerPaths[target]
	if !ok {
		fmt.Fprint(s.out, showUsage)
		return
	}
	if s.viewer == nil {
		fmt.Fprintln(s.out, "Viewers are not available in this session.")
		return
	}
	addr, err := s.viewer.EnsureStarted(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "cannot start viewer: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Viewer: http://%s%s\n", addr, path)
}

// shutdown is the only path that stops the loop: close the viewer
// best-effort, stop the active program, drop the running flag.
func (s *Shell) shutdown(ctx context.Context) {
	if s.viewer != nil {
		if err := s.viewer.Shutdown(ctx); err != nil {
			s.logger.Debug("shutting down viewer", "err", err)
		}
	}
	if name, ok := s.sup.StopActive(ctx); ok {
		fmt.Fprintf(s.out, "Stopping %s.\n", name)
		s.metrics.SetActive(false)
	}
	s.running = false
}

// reportEvalError prints evaluation failures and keeps the loop alive. A
// cancellation is an operator interrupt, not a diagnostic.
func (s *Shell) reportEvalError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(s.out, "Keyboard interrupt!")
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
