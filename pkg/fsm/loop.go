package fsm

import (
	"log/slog"
	"sync"
	"time"
)

// Loop is the cooperative scheduler programs run on. All node and transition
// callbacks execute on a single goroutine, so program code never needs
// locking of its own.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	logger   *slog.Logger
	stopOnce sync.Once
}

// NewLoop creates a loop. Call Start before scheduling work.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		tasks:  make(chan func(), 128),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start launches the scheduler goroutine.
func (l *Loop) Start() {
	go l.run()
}

func (l *Loop) run() {
	for {
		select {
		case <-l.done:
			return
		case task := <-l.tasks:
			l.exec(task)
		}
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic in scheduled task", "panic", r)
		}
	}()
	task()
}

// CallSoon queues f to run on the next scheduling opportunity. It never
// blocks the caller past the queue buffer and is a no-op once the loop has
// stopped.
func (l *Loop) CallSoon(f func()) {
	select {
	case <-l.done:
	case l.tasks <- f:
	}
}

// CallLater schedules f to run on the loop after d. The returned timer can
// be stopped to cancel delivery.
func (l *Loop) CallLater(d time.Duration, f func()) *time.Timer {
	return time.AfterFunc(d, func() {
		l.CallSoon(f)
	})
}

// Stop shuts the loop down. Queued tasks that have not run yet are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}
