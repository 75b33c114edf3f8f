// ast/ast.go
package ast

import "fmt"

// Position is a 1-based line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Node is any syntax form. The set of implementations is closed.
type Node interface {
	Pos() Position
	node()
}

// Base carries the source position shared by every node.
type Base struct{ At Position }

func (b Base) Pos() Position { return b.At }
func (Base) node()           {}

// Program is the ordered list of top-level function definitions.
type Program struct {
	Base
	Funcs []*FuncDef
}

// FuncDef binds a name to a parameter list and a body.
type FuncDef struct {
	Base
	Name   string
	Params []string
	Body   *Block
}

// Block is an ordered statement list. It never opens a scope of its own.
type Block struct {
	Base
	Statements []Node
}

// VarDecl is `let name [= value]`. Value is nil when the initializer is absent.
type VarDecl struct {
	Base
	Name  string
	Value Node
}

// VarSet is `name = value`.
type VarSet struct {
	Base
	Name  string
	Value Node
}

// FuncCall is `name(args...)`, usable both as statement and expression.
type FuncCall struct {
	Base
	Name string
	Args []Node
}

// FuncReturn is `return value`.
type FuncReturn struct {
	Base
	Value Node
}

// ForLoop is `for (init; cond; update;) body`.
type ForLoop struct {
	Base
	Init      Node
	Condition Node
	Update    Node
	Body      *Block
}

type WhileLoop struct {
	Base
	Condition Node
	Body      *Block
}

// IfStatement has no else branch.
type IfStatement struct {
	Base
	Condition Node
	Body      *Block
}

type BinaryExpression struct {
	Base
	Left  Node
	Op    BinaryOperator
	Right Node
}

type UnaryExpression struct {
	Base
	Op      UnaryOperator
	Operand Node
}

type IntegerLiteral struct {
	Base
	Value int32
}

// StringLiteral holds the text without its surrounding quotes.
type StringLiteral struct {
	Base
	Value string
}

type BooleanLiteral struct {
	Base
	Value bool
}

type Identifier struct {
	Base
	Name string
}
