package fsm

import "strings"

// Event kinds routed by the EventRouter.
const (
	KindTextMsg    = "text-msg"
	KindCompletion = "completion"
	KindSuccess    = "success"
	KindFailure    = "failure"
)

// Event is anything that can be posted to the event router. Source is the
// name of the originating node, or empty for operator-originated events.
type Event interface {
	Kind() string
	Source() string
}

// TextMsgEvent carries an operator text message (the `tm` command).
type TextMsgEvent struct {
	Text  string
	Words []string
}

// NewTextMsgEvent splits msg into words the way listeners expect.
func NewTextMsgEvent(msg string) TextMsgEvent {
	return TextMsgEvent{Text: msg, Words: strings.Fields(msg)}
}

func (TextMsgEvent) Kind() string   { return KindTextMsg }
func (TextMsgEvent) Source() string { return "" }

// CompletionEvent signals that a node finished its work.
type CompletionEvent struct {
	Src string
}

func (CompletionEvent) Kind() string     { return KindCompletion }
func (e CompletionEvent) Source() string { return e.Src }

// SuccessEvent signals that a node finished and succeeded.
type SuccessEvent struct {
	Src string
}

func (SuccessEvent) Kind() string     { return KindSuccess }
func (e SuccessEvent) Source() string { return e.Src }

// FailureEvent signals that a node finished and failed.
type FailureEvent struct {
	Src    string
	Reason string
}

func (FailureEvent) Kind() string     { return KindFailure }
func (e FailureEvent) Source() string { return e.Src }
