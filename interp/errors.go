package interp

import (
	"errors"
	"fmt"

	"simonwaldherr.de/go/nanotoy/ast"
)

// Error kinds. Match them with errors.Is against a *RuntimeError.
var (
	ErrUndefinedName  = errors.New("undefined name")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrArity          = errors.New("arity or shape")
	ErrDivisionByZero = errors.New("division by zero")
	ErrCallDepth      = errors.New("call depth exceeded")
)

// RuntimeError is a recoverable evaluation failure.
type RuntimeError struct {
	Kind error
	Msg  string
	Pos  ast.Position
}

func (e *RuntimeError) Error() string {
	if e.Pos == (ast.Position{}) {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *RuntimeError) Unwrap() error { return e.Kind }

// NewRuntimeError builds a RuntimeError of the given kind.
func NewRuntimeError(kind error, pos ast.Position, format string, args ...any) error {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// typeError is the error builtins return; it has no source position.
func typeError(format string, args ...any) error {
	return &RuntimeError{Kind: ErrTypeMismatch, Msg: fmt.Sprintf(format, args...)}
}

// locate attaches pos to a builtin error that has none yet.
func locate(err error, pos ast.Position) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Pos == (ast.Position{}) {
		cp := *re
		cp.Pos = pos
		return &cp
	}
	return err
}
