package fsm

import "sync"

// Transition is the capability shared by all transition edges.
type Transition interface {
	Name() string
	Running() bool
	Start()
	Stop()
}

// Trans is the base transition: a named edge from source nodes to
// destination nodes. Concrete transitions embed it and decide when to Fire.
type Trans struct {
	mu           sync.Mutex
	name         string
	rt           *Runtime
	running      bool
	sources      []StateNode
	destinations []StateNode
}

// NewTrans creates a stopped base transition.
func NewTrans(rt *Runtime, name string) *Trans {
	return &Trans{rt: rt, name: name}
}

func (t *Trans) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

func (t *Trans) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Runtime returns the runtime this transition was built against.
func (t *Trans) Runtime() *Runtime { return t.rt }

// AddSource appends a source node.
func (t *Trans) AddSource(n StateNode) *Trans {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources = append(t.sources, n)
	return t
}

// AddDestination appends a destination node started when the transition
// fires.
func (t *Trans) AddDestination(n StateNode) *Trans {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destinations = append(t.destinations, n)
	return t
}

// Sources returns the source nodes in insertion order.
func (t *Trans) Sources() []StateNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StateNode, len(t.sources))
	copy(out, t.sources)
	return out
}

// Start arms the transition. Concrete types call this before registering
// listeners or timers.
func (t *Trans) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
}

// Stop disarms the transition and drops any listeners it registered.
func (t *Trans) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.mu.Unlock()
	t.rt.Router.RemoveListeners(t)
}

// Fire stops the sources and this transition, then starts the destinations
// on the loop. Firing a stopped transition is a no-op.
func (t *Trans) Fire(ev Event) {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	name := t.name
	sources := make([]StateNode, len(t.sources))
	copy(sources, t.sources)
	destinations := make([]StateNode, len(t.destinations))
	copy(destinations, t.destinations)
	t.mu.Unlock()

	tracef(TraceTransitionFire, "%s fired", name)
	t.Stop()
	t.rt.Loop.CallSoon(func() {
		for _, s := range sources {
			s.Stop()
		}
		for _, d := range destinations {
			d.Start()
		}
	})
}
