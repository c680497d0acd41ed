package fsm

import "sync"

// StateNode is the capability every loadable program must satisfy: it can be
// started and stopped, reports whether it is running, and has a name. The
// loader validates this shape before instantiating a program.
type StateNode interface {
	Name() string
	Running() bool
	Start()
	Stop()
}

// Composite is implemented by nodes that own child nodes. The supervisor's
// status display walks children in their stored (insertion) order.
type Composite interface {
	Children() []StateNode
}

// Transitioner is implemented by nodes that own outgoing transitions.
type Transitioner interface {
	Transitions() []Transition
}

// Renameable lets the loader tag a freshly constructed instance with its
// program name.
type Renameable interface {
	SetName(string)
}

// Node is the base StateNode implementation. Program definitions embed or
// compose it; leaf behavior goes in wrapper types like Say.
type Node struct {
	mu          sync.Mutex
	name        string
	rt          *Runtime
	running     bool
	entry       StateNode
	children    []StateNode
	transitions []Transition
}

// NewNode creates a stopped node.
func NewNode(rt *Runtime, name string) *Node {
	return &Node{rt: rt, name: name}
}

func (n *Node) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.name
}

func (n *Node) SetName(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.name = name
}

func (n *Node) Running() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

// Runtime returns the runtime this node was built against.
func (n *Node) Runtime() *Runtime { return n.rt }

// AddChild appends a child node. The first child becomes the entry node
// unless SetEntry picked one explicitly.
func (n *Node) AddChild(c StateNode) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.entry == nil {
		n.entry = c
	}
	n.children = append(n.children, c)
	return n
}

// SetEntry selects the child started when this node starts.
func (n *Node) SetEntry(c StateNode) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entry = c
	return n
}

// AddTransition appends an outgoing transition, started with the node.
func (n *Node) AddTransition(t Transition) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transitions = append(n.transitions, t)
	return n
}

func (n *Node) Children() []StateNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]StateNode, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Transitions() []Transition {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Transition, len(n.transitions))
	copy(out, n.transitions)
	return out
}

// Start marks the node running, starts its outgoing transitions, and starts
// the entry child. Starting a running node is a no-op.
func (n *Node) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	entry := n.entry
	transitions := make([]Transition, len(n.transitions))
	copy(transitions, n.transitions)
	name := n.name
	n.mu.Unlock()

	tracef(TraceStateChange, "%s started", name)
	for _, t := range transitions {
		t.Start()
	}
	if entry != nil {
		entry.Start()
	}
}

// Stop halts the node, its transitions, and its whole subtree. Stopping a
// stopped node is a no-op.
func (n *Node) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	transitions := make([]Transition, len(n.transitions))
	copy(transitions, n.transitions)
	children := make([]StateNode, len(n.children))
	copy(children, n.children)
	name := n.name
	n.mu.Unlock()

	tracef(TraceStateChange, "%s stopped", name)
	for _, t := range transitions {
		t.Stop()
	}
	for _, c := range children {
		c.Stop()
	}
}

// PostCompletion announces this node is done, so CompletionTrans listeners
// can fire.
func (n *Node) PostCompletion() {
	n.rt.Router.Post(CompletionEvent{Src: n.Name()})
}
