// Package shell is the interactive front end: it reads lines, classifies
// them, and dispatches to the supervisor, the loader, the viewers, or the
// expression evaluator. The read loop is the only blocking point; everything
// below it completes quickly.
package shell

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ariunbolor/cozmo-tools/internal/eval"
	"github.com/ariunbolor/cozmo-tools/internal/loader"
	"github.com/ariunbolor/cozmo-tools/internal/observability"
	"github.com/ariunbolor/cozmo-tools/internal/supervisor"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// historyLimit caps the lines kept and persisted between runs.
const historyLimit = 1000

// LineReader is the prompt abstraction; *liner.State satisfies it, tests
// script their own.
type LineReader interface {
	Prompt(p string) (string, error)
	AppendHistory(item string)
	Close() error
}

// Viewer is the auxiliary inspection surface started on demand by
// "show <x>_viewer" and shut down best-effort on exit.
type Viewer interface {
	// EnsureStarted starts the viewer server if needed and returns its
	// listen address.
	EnsureStarted(ctx context.Context) (string, error)
	Shutdown(ctx context.Context) error
}

// Shell runs the read-evaluate loop. It is single-threaded: dispatch,
// supervisor writes, and history saves all happen on the loop goroutine.
type Shell struct {
	session ports.Session
	sup     *supervisor.Supervisor
	loader  *loader.Loader
	rt      *fsm.Runtime
	ev      *eval.Evaluator

	prompt  string
	out     io.Writer
	logger  *slog.Logger
	reader  LineReader
	viewer  Viewer
	history ports.HistoryStore
	metrics *observability.Metrics

	running       bool
	chargerWarned bool
	histLines     []string

	// curCtx is the context of the dispatch in flight; bound functions like
	// runfsm reach it through dispatchCtx. Only the loop goroutine writes it.
	curCtx context.Context
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger (default: discard).
func WithLogger(l *slog.Logger) Option { return func(s *Shell) { s.logger = l } }

// WithPrompt overrides the prompt string.
func WithPrompt(p string) Option { return func(s *Shell) { s.prompt = p } }

// WithOutput redirects operator-facing output (default os.Stdout).
func WithOutput(w io.Writer) Option { return func(s *Shell) { s.out = w } }

// WithReader replaces the line reader; Run builds a liner otherwise.
func WithReader(r LineReader) Option { return func(s *Shell) { s.reader = r } }

// WithViewer wires the viewer server.
func WithViewer(v Viewer) Option { return func(s *Shell) { s.viewer = v } }

// WithHistoryStore persists input history across runs.
func WithHistoryStore(h ports.HistoryStore) Option { return func(s *Shell) { s.history = h } }

// WithMetrics overrides the metrics sink (default: fresh registry).
func WithMetrics(m *observability.Metrics) Option { return func(s *Shell) { s.metrics = m } }

// New builds a shell and its expression evaluator. The evaluator namespace
// carries the session handles plus runfsm, tracefsm, and help.
func New(session ports.Session, sup *supervisor.Supervisor, ldr *loader.Loader, rt *fsm.Runtime, opts ...Option) (*Shell, error) {
	s := &Shell{
		session: session,
		sup:     sup,
		loader:  ldr,
		rt:      rt,
		prompt:  "C> ",
		out:     os.Stdout,
		logger:  slog.New(slog.DiscardHandler),
		metrics: observability.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	bindings := eval.Bindings{
		Session: session,
		Runtime: rt,
		Funcs: map[string]any{
			"RunFSM":   s.RunFSM,
			"TraceFSM": s.TraceFSM,
			"Help":     s.Help,
		},
	}
	ev, err := eval.New(bindings.Binder())
	if err != nil {
		return nil, err
	}
	s.ev = ev
	return s, nil
}

// Metrics exposes the shell's counters for the viewer server.
func (s *Shell) Metrics() *observability.Metrics { return s.metrics }

func (s *Shell) dispatchCtx() context.Context {
	if s.curCtx != nil {
		return s.curCtx
	}
	return context.Background()
}
