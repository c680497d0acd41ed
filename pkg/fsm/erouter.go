package fsm

import "sync"

// Handler receives routed events on the loop goroutine.
type Handler func(Event)

type listener struct {
	owner  any
	kind   string
	source string
	fn     Handler
}

// EventRouter delivers events to registered listeners. Delivery happens on
// the loop, so handlers run cooperatively with the rest of the program.
type EventRouter struct {
	loop *Loop

	mu        sync.Mutex
	listeners []*listener
}

// NewEventRouter creates a router bound to the given loop.
func NewEventRouter(loop *Loop) *EventRouter {
	return &EventRouter{loop: loop}
}

// AddListener registers fn for events of the given kind. An empty source
// matches events from any origin; otherwise the event's Source must equal it.
// The owner tag lets a transition drop all of its listeners on stop.
func (r *EventRouter) AddListener(owner any, kind, source string, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, &listener{owner: owner, kind: kind, source: source, fn: fn})
}

// RemoveListeners drops every listener registered under owner.
func (r *EventRouter) RemoveListeners(owner any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.listeners[:0]
	for _, l := range r.listeners {
		if l.owner != owner {
			kept = append(kept, l)
		}
	}
	r.listeners = kept
}

// Post submits an event for delivery. It never blocks on listener execution;
// matching handlers are invoked on the loop.
func (r *EventRouter) Post(ev Event) {
	r.mu.Lock()
	var matched []Handler
	for _, l := range r.listeners {
		if l.kind != ev.Kind() {
			continue
		}
		if l.source != "" && l.source != ev.Source() {
			continue
		}
		matched = append(matched, l.fn)
	}
	r.mu.Unlock()

	tracef(TraceEventDelivery, "posting %s event from %q to %d listener(s)", ev.Kind(), ev.Source(), len(matched))
	for _, fn := range matched {
		fn := fn
		r.loop.CallSoon(func() { fn(ev) })
	}
}
