package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterh/liner"
)

// eofBackoff keeps a closed stdin from spinning the loop hot.
const eofBackoff = 200 * time.Millisecond

// Run executes the read-evaluate loop until exit or ctx cancellation. Every
// prompt cycle runs the session guard, reads one line, dispatches it under a
// signal-aware context, and persists history.
func (s *Shell) Run(ctx context.Context) error {
	if s.reader == nil {
		ln := liner.NewLiner()
		ln.SetCtrlCAborts(true)
		s.reader = ln
	}
	defer s.reader.Close()

	s.loadHistory(ctx)
	defer s.saveHistory(context.WithoutCancel(ctx))

	s.running = true
	for s.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.guardSession(ctx)

		line, err := s.reader.Prompt(s.prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				s.handleInterrupt(ctx)
			case errors.Is(err, io.EOF):
				fmt.Fprintln(s.out, "\nType \"exit\" to quit.")
				time.Sleep(eofBackoff)
			default:
				s.logger.Warn("reading input", "err", err)
			}
			continue
		}

		if strings.TrimSpace(line) != "" {
			s.reader.AppendHistory(line)
			s.recordHistory(line)
		}

		// A Ctrl+C during dispatch cancels the in-flight evaluation or
		// delivery instead of killing the process.
		sig := NewSignalContext(ctx)
		s.Dispatch(sig, line)
		sig.Cancel()

		s.saveHistory(ctx)
	}
	return nil
}

func (s *Shell) recordHistory(line string) {
	s.histLines = append(s.histLines, line)
	if len(s.histLines) > historyLimit {
		s.histLines = s.histLines[len(s.histLines)-historyLimit:]
	}
}

func (s *Shell) loadHistory(ctx context.Context) {
	if s.history == nil {
		return
	}
	lines, err := s.history.Load(ctx)
	if err != nil {
		s.logger.Warn("loading input history", "err", err)
		return
	}
	for _, line := range lines {
		s.reader.AppendHistory(line)
	}
	s.histLines = lines
}

// saveHistory runs after every completed prompt cycle and at exit; an
// unwritable store is logged, never allowed to block dispatch.
func (s *Shell) saveHistory(ctx context.Context) {
	if s.history == nil {
		return
	}
	if err := s.history.Save(ctx, s.histLines); err != nil {
		s.logger.Warn("saving input history", "err", err)
	}
}
