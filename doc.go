/*
Package cozmo is the root of cozmo-tools, an interactive command shell that
supervises a single running state-machine program attached to a live robot
session, while doubling as a general-purpose Go expression evaluator.

The shell classifies every input line into one of a small command grammar
(shell escape, text message, status display, exit) before falling back to
expression evaluation against a shared namespace pre-populated with the
session handles (robot, world, charger, cubes).

# Architecture

The module follows a ports-and-adapters layout:

  - pkg/fsm holds the state-machine vocabulary: the StateNode capability
    (Start/Stop/Running/Name), base node and transition implementations, the
    event router, and the cooperative loop programs run on.
  - pkg/ports declares the interfaces the core depends on: the robot session,
    program sources, and the history store.
  - internal/loader resolves a program name to a definition, reloads it fresh
    on every call (picking up edits), validates its shape, and injects the
    session handles before instantiation.
  - internal/supervisor owns the single active-program slot: swap, stop,
    status display, and text-message delivery.
  - internal/shell is the read-evaluate loop: command classification and
    dispatch, the interrupt guard, and history persistence.

# Usage

	cozmo-cli --sim

starts the shell against a simulated session. Inside the shell:

	C> runfsm("patrol")
	C> tm hello
	C> show active
	C> exit
*/
package cozmo
