/*
Package fsm provides the state-machine vocabulary that loaded programs are
built from: the StateNode capability, base node and transition
implementations, the event router, and the cooperative loop that program
timers and transitions run on.

The shell core only depends on the capability interfaces (StateNode,
Transition, Composite, Transitioner); the concrete types here exist so that
program definitions have something real to compose.
*/
package fsm
