package codegen

import (
	"errors"
	"fmt"
)

// ErrGeneration is wrapped by every error returned from Generate.
var ErrGeneration = errors.New("code generation failed")

// ErrorKind classifies code generation errors.
type ErrorKind int

const (
	// UninitializedRegister is raised when an instruction reads a register
	// that has no recorded value.
	UninitializedRegister ErrorKind = iota
	// UnsupportedInstruction is raised for nodes carrying the None or
	// Unknown sentinel.
	UnsupportedInstruction
	// InvalidOperand is raised when an operand is missing, malformed or of
	// the wrong kind for its position.
	InvalidOperand
	// TypeMismatch is raised when an operation is not defined on the type a
	// register currently holds.
	TypeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case UninitializedRegister:
		return "uninitialized-register-read"
	case UnsupportedInstruction:
		return "unsupported-instruction"
	case InvalidOperand:
		return "invalid-operand"
	case TypeMismatch:
		return "type-mismatch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a code generation failure tied to one source line.
type Error struct {
	Kind     ErrorKind
	Register string // offending register, if any
	Line     int
	Msg      string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return ErrGeneration }

func uninitialized(reg string, line int) *Error {
	return &Error{
		Kind:     UninitializedRegister,
		Register: reg,
		Line:     line,
		Msg: fmt.Sprintf("Uninitialized Register Access. Attempted to read uninitialized register %s at line %d\n"+
			" Make sure the register is set before moving its contents!\n", reg, line),
	}
}

func unsupported(what string, line int) *Error {
	return &Error{
		Kind: UnsupportedInstruction,
		Line: line,
		Msg:  fmt.Sprintf("Unsupported instruction at line %d: %s\n", line, what),
	}
}

func invalidOperand(line int, format string, args ...any) *Error {
	return &Error{
		Kind: InvalidOperand,
		Line: line,
		Msg:  fmt.Sprintf("Invalid operand at line %d: %s\n", line, fmt.Sprintf(format, args...)),
	}
}

func typeMismatch(reg string, line int, format string, args ...any) *Error {
	return &Error{
		Kind:     TypeMismatch,
		Register: reg,
		Line:     line,
		Msg:      fmt.Sprintf("Type mismatch at line %d: %s\n", line, fmt.Sprintf(format, args...)),
	}
}
