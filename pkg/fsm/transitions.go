package fsm

import (
	"regexp"
	"time"
)

// NullTrans fires as soon as its sources have started. The fire is scheduled
// on the loop rather than done inline so source nodes get to finish their
// own startup calls first.
type NullTrans struct {
	*Trans
}

// NewNullTrans creates a null transition.
func NewNullTrans(rt *Runtime, name string) *NullTrans {
	return &NullTrans{Trans: NewTrans(rt, name)}
}

func (t *NullTrans) Start() {
	if t.Running() {
		return
	}
	t.Trans.Start()
	t.Runtime().Loop.CallSoon(func() { t.Fire(nil) })
}

// TimerTrans fires once its duration has elapsed.
type TimerTrans struct {
	*Trans
	duration time.Duration
	timer    *time.Timer
}

// NewTimerTrans creates a timer transition with the given duration.
func NewTimerTrans(rt *Runtime, name string, d time.Duration) *TimerTrans {
	return &TimerTrans{Trans: NewTrans(rt, name), duration: d}
}

func (t *TimerTrans) Start() {
	if t.Running() {
		return
	}
	t.Trans.Start()
	// Start runs on the loop while Stop may arrive from the control
	// goroutine, so the timer handle lives behind the shared mutex. A stop
	// that wins the race leaves the timer armed; Fire no-ops once stopped.
	timer := t.Runtime().Loop.CallLater(t.duration, func() { t.Fire(nil) })
	t.mu.Lock()
	t.timer = timer
	t.mu.Unlock()
}

func (t *TimerTrans) Stop() {
	t.mu.Lock()
	timer := t.timer
	t.timer = nil
	t.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	t.Trans.Stop()
}

// CompletionTrans fires when enough of its source nodes have posted a
// completion event. A zero count means all sources must complete.
type CompletionTrans struct {
	*Trans
	count    int
	observed map[string]bool
}

// NewCompletionTrans creates a completion transition.
func NewCompletionTrans(rt *Runtime, name string, count int) *CompletionTrans {
	return &CompletionTrans{Trans: NewTrans(rt, name), count: count}
}

func (t *CompletionTrans) Start() {
	if t.Running() {
		return
	}
	t.Trans.Start()
	t.observed = make(map[string]bool)
	for _, src := range t.Sources() {
		t.Runtime().Router.AddListener(t, KindCompletion, src.Name(), t.handle)
	}
}

func (t *CompletionTrans) handle(ev Event) {
	if !t.Running() {
		return
	}
	tracef(TraceListenerCalls, "%s handling %s from %q", t.Name(), ev.Kind(), ev.Source())
	t.observed[ev.Source()] = true
	need := t.count
	if need == 0 {
		need = len(t.Sources())
	}
	if len(t.observed) >= need {
		t.Fire(ev)
	}
}

// TextMsgTrans fires when an operator text message matches its pattern. A
// nil pattern matches every message.
type TextMsgTrans struct {
	*Trans
	pattern *regexp.Regexp
}

// NewTextMsgTrans creates a text-message transition. An empty pattern acts
// as a wildcard.
func NewTextMsgTrans(rt *Runtime, name, pattern string) (*TextMsgTrans, error) {
	t := &TextMsgTrans{Trans: NewTrans(rt, name)}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		t.pattern = re
	}
	return t, nil
}

func (t *TextMsgTrans) Start() {
	if t.Running() {
		return
	}
	t.Trans.Start()
	t.Runtime().Router.AddListener(t, KindTextMsg, "", t.handle)
}

func (t *TextMsgTrans) handle(ev Event) {
	if !t.Running() {
		return
	}
	msg, ok := ev.(TextMsgEvent)
	if !ok {
		return
	}
	tracef(TraceListenerCalls, "%s handling text message %q", t.Name(), msg.Text)
	if t.pattern == nil || t.pattern.MatchString(msg.Text) {
		t.Fire(ev)
	}
}
