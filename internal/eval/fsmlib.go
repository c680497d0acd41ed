package eval

import (
	"reflect"

	"github.com/ariunbolor/cozmo-tools/pkg/fsm"
)

// fsmSymbols exports the state-machine vocabulary to interpreted code under
// the synthetic "fsm" package: the node/transition interfaces (yaegi type
// convention, a nil typed pointer) plus the constructors.
func fsmSymbols() map[string]reflect.Value {
	return map[string]reflect.Value{
		"StateNode":  reflect.ValueOf((*fsm.StateNode)(nil)),
		"Transition": reflect.ValueOf((*fsm.Transition)(nil)),
		"Event":      reflect.ValueOf((*fsm.Event)(nil)),

		"NewNode":            reflect.ValueOf(fsm.NewNode),
		"NewTrans":           reflect.ValueOf(fsm.NewTrans),
		"NewSay":             reflect.ValueOf(fsm.NewSay),
		"NewWait":            reflect.ValueOf(fsm.NewWait),
		"NewNullTrans":       reflect.ValueOf(fsm.NewNullTrans),
		"NewTimerTrans":      reflect.ValueOf(fsm.NewTimerTrans),
		"NewCompletionTrans": reflect.ValueOf(fsm.NewCompletionTrans),
		"NewTextMsgTrans":    reflect.ValueOf(fsm.NewTextMsgTrans),

		"TraceLevel":    reflect.ValueOf(fsm.TraceLevel),
		"SetTraceLevel": reflect.ValueOf(fsm.SetTraceLevel),
	}
}
