// Package programs registers the compiled-in demo programs.
package programs

import (
	"time"

	"github.com/ariunbolor/cozmo-tools/internal/loader"
	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

// Register installs the built-in programs on src. They sit behind any
// on-disk programs dir, so an operator's own patrol.go wins.
func Register(src *loader.MemorySource, rt *fsm.Runtime) {
	src.Register("patrol", func() (fsm.StateNode, error) {
		return newPatrol(rt), nil
	})
}

// newPatrol builds a two-state scan loop: announce left, announce right,
// pause, repeat. A "stop" text message parks it in a wait state.
func newPatrol(rt *fsm.Runtime) fsm.StateNode {
	root := fsm.NewNode(rt, "patrol")

	left := fsm.NewSay(rt, "patrol.left", "scanning left")
	right := fsm.NewSay(rt, "patrol.right", "scanning right")
	parked := fsm.NewWait(rt, "patrol.parked")
	root.AddChild(left).AddChild(right).AddChild(parked)

	// Transitions hang off their source node so the cycle re-arms each time
	// the node restarts.
	leftDone := fsm.NewCompletionTrans(rt, "patrol.left.done", 0)
	leftDone.AddSource(left).AddDestination(right)
	left.AddTransition(leftDone)

	pause := fsm.NewTimerTrans(rt, "patrol.pause", 2*time.Second)
	pause.AddSource(right).AddDestination(left)
	right.AddTransition(pause)

	// Pattern errors are impossible for a literal, so the error is dropped.
	park, _ := fsm.NewTextMsgTrans(rt, "patrol.park", "^stop$")
	park.AddSource(left).AddSource(right).AddDestination(parked)
	root.AddTransition(park)

	return root
}
