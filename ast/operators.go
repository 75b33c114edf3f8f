package ast

import "fmt"

// BinaryOperator enumerates the infix operators.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Greater
	Less
	Equal
	NotEqual
	GreaterEq
	LessEq
)

var binaryTokens = [...]string{
	Add:       "+",
	Subtract:  "-",
	Multiply:  "*",
	Divide:    "/",
	Greater:   ">",
	Less:      "<",
	Equal:     "==",
	NotEqual:  "!=",
	GreaterEq: ">=",
	LessEq:    "<=",
}

func (op BinaryOperator) String() string {
	if op < 0 || int(op) >= len(binaryTokens) {
		return fmt.Sprintf("BinaryOperator(%d)", int(op))
	}
	return binaryTokens[op]
}

// IsComparison reports whether op yields a Boolean.
func (op BinaryOperator) IsComparison() bool { return op >= Greater && op <= LessEq }

// LookupBinary maps an operator token to its enumeration value.
func LookupBinary(tok string) (BinaryOperator, bool) {
	for i, t := range binaryTokens {
		if t == tok {
			return BinaryOperator(i), true
		}
	}
	return 0, false
}

// UnaryOperator enumerates the prefix operators.
type UnaryOperator int

const (
	Minus UnaryOperator = iota
	Not
)

func (op UnaryOperator) String() string {
	switch op {
	case Minus:
		return "-"
	case Not:
		return "!"
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(op))
}

// LookupUnary maps a prefix operator token to its enumeration value.
func LookupUnary(tok string) (UnaryOperator, bool) {
	switch tok {
	case "-":
		return Minus, true
	case "!":
		return Not, true
	}
	return 0, false
}
