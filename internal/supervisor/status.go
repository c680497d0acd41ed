package supervisor

import (
	"fmt"
	"io"
	"strings"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

// WriteStatus prints the active program's running nodes and transitions:
// depth-first over children in insertion order, each node's transitions
// after its subtree at the node's depth + 1. Only running elements appear.
func (s *Supervisor) WriteStatus(w io.Writer) {
	inst, ok := s.Active()
	if !ok {
		fmt.Fprintln(w, "No state machine present.")
		return
	}
	if !inst.Running() {
		fmt.Fprintf(w, "State machine %s is not running.\n", inst.Name())
		return
	}
	writeNode(w, inst, 0)
}

func writeNode(w io.Writer, n fsm.StateNode, depth int) {
	if n.Running() {
		fmt.Fprintf(w, "%s%s\n", indent(depth), n.Name())
	}
	if c, ok := n.(fsm.Composite); ok {
		for _, child := range c.Children() {
			writeNode(w, child, depth+1)
		}
	}
	if t, ok := n.(fsm.Transitioner); ok {
		for _, tr := range t.Transitions() {
			if tr.Running() {
				fmt.Fprintf(w, "%s%s\n", indent(depth+1), tr.Name())
			}
		}
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
