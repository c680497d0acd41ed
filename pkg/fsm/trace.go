package fsm

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Trace levels, coarsest to finest. Level 0 disables tracing; each level
// includes everything below it.
const (
	TraceOff            = 0
	TraceStateChange    = 2
	TraceTransitionFire = 4
	TraceEventDelivery  = 6
	TraceListenerCalls  = 8
	TraceMax            = 9
)

var traceLevel atomic.Int32

var (
	traceMu  sync.Mutex
	traceOut io.Writer = os.Stdout
)

// TraceLevel returns the current trace level.
func TraceLevel() int {
	return int(traceLevel.Load())
}

// SetTraceLevel sets the trace level, clamped to [0, 9], and returns the
// value in effect afterwards.
func SetTraceLevel(n int) int {
	if n < TraceOff {
		n = TraceOff
	}
	if n > TraceMax {
		n = TraceMax
	}
	traceLevel.Store(int32(n))
	return n
}

// SetTraceOutput redirects trace lines, mainly for tests.
func SetTraceOutput(w io.Writer) {
	traceMu.Lock()
	defer traceMu.Unlock()
	traceOut = w
}

func tracef(min int, format string, args ...any) {
	if TraceLevel() < min {
		return
	}
	traceMu.Lock()
	defer traceMu.Unlock()
	fmt.Fprintf(traceOut, "TRACE%d: %s\n", min, fmt.Sprintf(format, args...))
}
