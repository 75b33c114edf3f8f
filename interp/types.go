// interp/types.go
package interp

import (
	"strconv"

	"simonwaldherr.de/go/nanotoy/ast"
)

// Kind tags a runtime Value.
type Kind int

const (
	IntegerKind Kind = iota
	StringKind
	BooleanKind
	FunctionKind
	BuiltinKind
)

func (k Kind) String() string {
	switch k {
	case IntegerKind:
		return "integer"
	case StringKind:
		return "string"
	case BooleanKind:
		return "boolean"
	case FunctionKind:
		return "function"
	case BuiltinKind:
		return "builtin"
	}
	return "unknown"
}

// Value is the runtime tagged union. All implementations are cheap to copy.
type Value interface {
	Kind() Kind
	String() string
}

type Integer int32

type String string

type Boolean bool

// Function is a user-defined function. It captures no environment: only
// its parameter names and a shared, read-only view of its body.
type Function struct {
	Name   string
	Params []string
	Body   *ast.Block
}

// Native is the signature every builtin implements.
type Native func(args []Value) (Value, error)

// BuiltinFunction wraps a native callable registered under Name.
type BuiltinFunction struct {
	Name string
	Fn   Native
}

func (Integer) Kind() Kind          { return IntegerKind }
func (String) Kind() Kind           { return StringKind }
func (Boolean) Kind() Kind          { return BooleanKind }
func (*Function) Kind() Kind        { return FunctionKind }
func (*BuiltinFunction) Kind() Kind { return BuiltinKind }

func (i Integer) String() string          { return strconv.FormatInt(int64(i), 10) }
func (s String) String() string           { return string(s) }
func (b Boolean) String() string          { return strconv.FormatBool(bool(b)) }
func (f *Function) String() string        { return "<fn " + f.Name + ">" }
func (b *BuiltinFunction) String() string { return "<builtin " + b.Name + ">" }

// Zero is the Integer 0 produced by every statement that yields no value.
const Zero = Integer(0)

func isZero(v Value) bool {
	i, ok := v.(Integer)
	return ok && i == 0
}
