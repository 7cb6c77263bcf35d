package mt

import (
	"fmt"
	"strings"
)

// ErrorKind classifies script failures. Kinds implement error so callers can
// match with errors.Is(err, mt.TypeError).
type ErrorKind string

const (
	RuntimeError       ErrorKind = "RuntimeError"
	SyntaxError        ErrorKind = "SyntaxError"
	UndefinedFunction  ErrorKind = "UndefinedFunction"
	UndefinedVariable  ErrorKind = "UndefinedVariable"
	UnassignedVariable ErrorKind = "UnassignedVariable"
	ArityError         ErrorKind = "ArityError"
	TypeError          ErrorKind = "TypeError"
	ConversionError    ErrorKind = "ConversionError"
	IndexError         ErrorKind = "IndexError"
	InfiniteLoop       ErrorKind = "InfiniteLoop"
	DefinitionError    ErrorKind = "DefinitionError"
	RecursionError     ErrorKind = "RecursionError"
	HostError          ErrorKind = "HostError"
)

func (k ErrorKind) Error() string { return string(k) }

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

// Error is a script failure annotated with the statements it unwound through.
// Frames[0] is the statement that failed; later frames enclose it.
type Error struct {
	Kind    ErrorKind
	Message string
	Frames  []string
	cause   error
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...) + ": " + err.Error(), cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			fmt.Fprintf(&b, "\n  at %s", frame)
		}
		return b.String()
	}
	for _, frame := range e.Frames[:errorFrameHead] {
		fmt.Fprintf(&b, "\n  at %s", frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		fmt.Fprintf(&b, "\n  at %s", frame)
	}
	return b.String()
}

// Statement returns the source of the statement that raised the error.
func (e *Error) Statement() string {
	if len(e.Frames) == 0 {
		return ""
	}
	return e.Frames[0]
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// annotate records stmt as the next enclosing frame of err. Errors that are
// not already script errors are classified as RuntimeError.
func annotate(err error, stmt string) error {
	if err == nil {
		return nil
	}
	scriptErr, ok := err.(*Error)
	if !ok {
		scriptErr = &Error{Kind: RuntimeError, Message: err.Error(), cause: err}
	}
	scriptErr.Frames = append(scriptErr.Frames, stmt)
	return scriptErr
}
