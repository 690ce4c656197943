package assembler

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind categorizes a fatal assembly-time failure.
type ErrorKind int

const (
	ErrorDuplicateLabel ErrorKind = iota
	ErrorUndefinedLabel
	ErrorReservedKeyword
	ErrorUnknownInstruction
	ErrorUnknownDirective
	ErrorDirectiveInInstructions
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorDuplicateLabel:
		return "DuplicateLabel"
	case ErrorUndefinedLabel:
		return "UndefinedLabel"
	case ErrorReservedKeyword:
		return "ReservedKeyword"
	case ErrorUnknownInstruction:
		return "UnknownInstruction"
	case ErrorUnknownDirective:
		return "UnknownDirective"
	case ErrorDirectiveInInstructions:
		return "DirectiveInInstructions"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a single-line fatal assembly error: a kind, the 1-based source
// line it was raised at, and the offending text.
type Error struct {
	Kind ErrorKind
	Line int
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Text)
}

// UndefinedSymbol names one label that was used but never declared, with
// every line number it was referenced from.
type UndefinedSymbol struct {
	Name  string
	Lines []int
}

// UndefinedLabelsError is raised once at the end of the first pass, citing
// every label left unresolved rather than stopping at the first one.
type UndefinedLabelsError struct {
	Symbols []UndefinedSymbol
}

func (e *UndefinedLabelsError) Error() string {
	var sb strings.Builder
	sb.WriteString("undefined labels:\n")
	for _, s := range e.Symbols {
		lines := make([]string, len(s.Lines))
		for i, l := range s.Lines {
			lines[i] = fmt.Sprintf("%d", l)
		}
		fmt.Fprintf(&sb, "\t%s on lines: %s\n", s.Name, strings.Join(lines, ", "))
	}
	return sb.String()
}

func newUndefinedLabelsError(syms []UndefinedSymbol) *UndefinedLabelsError {
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name < syms[j].Name })
	return &UndefinedLabelsError{Symbols: syms}
}
