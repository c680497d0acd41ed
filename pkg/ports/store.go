package ports

import "context"

// HistoryStore persists the shell's input history. Implementations must be
// cheap enough to call after every prompt cycle; failures are reported, never
// fatal.
type HistoryStore interface {
	// Save replaces the stored history with lines (oldest first).
	Save(ctx context.Context, lines []string) error

	// Load returns the stored history, oldest first. A missing history is
	// not an error; it loads as empty.
	Load(ctx context.Context) ([]string, error)
}
