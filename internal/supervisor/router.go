package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

// ErrNoProgram is reported when a text message arrives with nothing running.
var ErrNoProgram = errors.New("no state machine running")

// DeliverText forwards an operator text message into the active program's
// event stream. Delivery is fire and forget: submission panics are logged
// with full detail and swallowed. A cancelled ctx propagates so an operator
// interrupt during delivery still aborts immediately.
func (s *Supervisor) DeliverText(ctx context.Context, w io.Writer, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	inst, ok := s.Active()
	if !ok || !inst.Running() {
		fmt.Fprintln(w, "No state machine running. Use runfsm(\"name\") to start one.")
		return ErrNoProgram
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("text message delivery failed",
				"msg", msg, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	s.rt.Router.Post(fsm.NewTextMsgEvent(msg))
	return nil
}
