// Package cli assembles the shell from its parts: config, session, runtime,
// loader, supervisor, viewers, and history.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ariunbolor/cozmo-tools"
	"github.com/ariunbolor/cozmo-tools/internal/adapters"
	httpadapter "github.com/ariunbolor/cozmo-tools/internal/adapters/http"
	"github.com/ariunbolor/cozmo-tools/internal/adapters/redis"
	"github.com/ariunbolor/cozmo-tools/internal/adapters/remote"
	"github.com/ariunbolor/cozmo-tools/internal/config"
	"github.com/ariunbolor/cozmo-tools/internal/eval"
	"github.com/ariunbolor/cozmo-tools/internal/loader"
	"github.com/ariunbolor/cozmo-tools/internal/logging"
	"github.com/ariunbolor/cozmo-tools/internal/observability"
	"github.com/ariunbolor/cozmo-tools/internal/presentation/tui"
	"github.com/ariunbolor/cozmo-tools/internal/programs"
	"github.com/ariunbolor/cozmo-tools/internal/shell"
	"github.com/ariunbolor/cozmo-tools/internal/sim"
	"github.com/ariunbolor/cozmo-tools/internal/supervisor"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// Options carries the flag values consumed before the shell starts.
type Options struct {
	Sim        bool
	Viewer     bool
	Verbosity  int
	ConfigPath string

	// Args are leftover positional arguments; the first unrecognized one is
	// warned about and connection falls back to the default mode.
	Args []string
}

// Execute runs the shell to completion. A session connection failure is the
// only fatal error; everything after connect keeps the loop alive.
func Execute(ctx context.Context, opts Options) error {
	logger := logging.New(logging.FromVerbosity(opts.Verbosity))

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.Warn("loading config, using defaults", "err", err)
	}
	fsm.SetTraceLevel(cfg.TraceLevel)

	if len(opts.Args) > 0 {
		fmt.Fprintf(os.Stderr, "Unrecognized argument %q; using the default connection mode.\n", opts.Args[0])
	}

	session, err := connect(ctx, opts, cfg, logger)
	if err != nil {
		return fmt.Errorf("cannot connect to the robot: %w", err)
	}
	defer session.Close()

	rt := fsm.NewRuntime(logger)
	rt.Start()
	defer rt.Stop()

	sup := supervisor.New(rt, session, logger)

	binder := eval.Bindings{Session: session, Runtime: rt}.Binder()
	fsSrc := loader.NewFsSource(cfg.ProgramsDir, binder, logger)
	memSrc := loader.NewMemorySource()
	programs.Register(memSrc, rt)
	ldr := loader.New(logger, fsSrc, memSrc)

	watchPrograms(ctx, fsSrc, logger)

	metrics := observability.New()
	viewer := httpadapter.New(cfg.ViewerAddr, session, metrics, logger)
	defer viewer.Shutdown(context.WithoutCancel(ctx))

	history, err := historyStore(cfg.History)
	if err != nil {
		logger.Warn("history disabled", "err", err)
	}

	sh, err := shell.New(session, sup, ldr, rt,
		shell.WithLogger(logger),
		shell.WithPrompt(cfg.Prompt),
		shell.WithViewer(viewer),
		shell.WithHistoryStore(history),
		shell.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("building shell: %w", err)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		tui.PrintBanner(cozmo.Version)
	}
	if opts.Viewer {
		if addr, err := viewer.EnsureStarted(ctx); err != nil {
			logger.Warn("starting viewer server", "err", err)
		} else {
			fmt.Printf("Viewers at http://%s/viewer/\n", addr)
		}
	}

	return sh.Run(ctx)
}

func connect(ctx context.Context, opts Options, cfg config.Config, logger *slog.Logger) (ports.Session, error) {
	if opts.Sim {
		logger.Info("using simulated robot session")
		return sim.New(), nil
	}
	return remote.Dial(ctx, cfg.BridgeAddr, logger)
}

// watchPrograms logs edits under the programs dir so the operator knows the
// next runfsm will pick them up. A missing dir just disables the watch.
func watchPrograms(ctx context.Context, src *loader.FsSource, logger *slog.Logger) {
	ch, err := src.Watch(ctx)
	if err != nil {
		logger.Debug("program watch disabled", "err", err)
		return
	}
	go func() {
		for name := range ch {
			logger.Debug("program source changed", "name", name)
		}
	}()
}

func historyStore(h config.History) (ports.HistoryStore, error) {
	switch h.Backend {
	case "", "file":
		opts, err := h.FileOptions()
		if err != nil {
			return nil, err
		}
		return adapters.NewFileStore(opts.Path), nil
	case "redis":
		opts, err := h.RedisOptions()
		if err != nil {
			return nil, err
		}
		return redis.New(opts.Addr, opts.Password, opts.DB,
			redis.WithPrefix(opts.Prefix), redis.WithTTL(opts.TTL)), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", h.Backend)
	}
}
