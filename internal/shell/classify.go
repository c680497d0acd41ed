package shell

import "strings"

// Kind is the command category of one input line.
type Kind int

const (
	KindEmpty Kind = iota
	KindShellEscape
	KindTextMsg
	KindShow
	KindStatement
	KindAwait
	KindExit
	KindExpr
)

// String is the metrics label for the category.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindShellEscape:
		return "shell"
	case KindTextMsg:
		return "tm"
	case KindShow:
		return "show"
	case KindStatement:
		return "statement"
	case KindAwait:
		return "await"
	case KindExit:
		return "exit"
	default:
		return "expr"
	}
}

// statementPrefixes mark lines evaluated for their side effects only; the
// captured result is reset rather than overwritten.
var statementPrefixes = []string{
	"import ", "var ", "const ", "type ", "func ", "for ", "go ",
}

// Classify assigns line to exactly one category, highest priority first, and
// returns the remainder relevant to that category (the text after the command
// word, or the full line for statements and expressions).
func Classify(line string) (Kind, string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return KindEmpty, ""
	case strings.HasPrefix(trimmed, "!"):
		return KindShellEscape, strings.TrimSpace(trimmed[1:])
	case trimmed == "tm":
		return KindTextMsg, ""
	case strings.HasPrefix(trimmed, "tm "):
		return KindTextMsg, strings.TrimSpace(trimmed[len("tm "):])
	case trimmed == "show":
		return KindShow, ""
	case strings.HasPrefix(trimmed, "show "):
		return KindShow, strings.TrimSpace(trimmed[len("show "):])
	}
	for _, prefix := range statementPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return KindStatement, trimmed
		}
	}
	switch {
	case strings.HasPrefix(trimmed, "await "):
		return KindAwait, strings.TrimSpace(trimmed[len("await "):])
	case trimmed == "exit" || strings.HasPrefix(trimmed, "exit "):
		return KindExit, ""
	}
	return KindExpr, trimmed
}
