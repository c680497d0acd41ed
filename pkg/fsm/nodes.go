package fsm

// Say logs a line of text when started, then posts completion so a
// CompletionTrans can advance past it.
type Say struct {
	*Node
	Text string
}

// NewSay creates a Say node.
func NewSay(rt *Runtime, name, text string) *Say {
	return &Say{Node: NewNode(rt, name), Text: text}
}

func (s *Say) Start() {
	if s.Running() {
		return
	}
	s.Node.Start()
	s.Runtime().Loop.CallSoon(func() {
		if !s.Running() {
			return
		}
		s.Runtime().Logger.Info("say", "node", s.Name(), "text", s.Text)
		s.PostCompletion()
	})
}

// Wait idles until a transition fires away from it or the program stops.
type Wait struct {
	*Node
}

// NewWait creates a Wait node.
func NewWait(rt *Runtime, name string) *Wait {
	return &Wait{Node: NewNode(rt, name)}
}
