package loader

import "fmt"

// PathError reports a program name that looks like a file path. Programs are
// named by bare module name; the error suggests the stripped form when one
// can be derived.
type PathError struct {
	Name    string
	Suggest string
}

func (e *PathError) Error() string {
	if e.Suggest != "" {
		return fmt.Sprintf("%q looks like a file name; try runfsm(%q) instead", e.Name, e.Suggest)
	}
	return fmt.Sprintf("%q looks like a file path; programs are named by bare module name", e.Name)
}

// ShapeError reports a definition that loaded but does not satisfy the
// state-machine capability.
type ShapeError struct {
	Name   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("program %q: %s", e.Name, e.Reason)
}
