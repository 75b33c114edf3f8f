// Package parser turns toy-language source text into an ast tree. The
// grammar itself is declared with participle struct tags in grammar.go;
// builder.go maps the resulting parse tree onto the ast model.
package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"

	"simonwaldherr.de/go/nanotoy/ast"
)

// SyntaxError reports source text that does not conform to the grammar.
type SyntaxError struct {
	Message string
	Pos     ast.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
}

// Parse parses a whole program.
func Parse(src string) (*ast.Program, error) {
	tree, err := programParser.ParseString("", src)
	if err != nil {
		return nil, syntaxError(err)
	}
	return buildProgram(tree)
}

// ParseExpression parses a single standalone expression such as `1+2-3`.
func ParseExpression(src string) (ast.Node, error) {
	tree, err := expressionParser.ParseString("", src)
	if err != nil {
		return nil, syntaxError(err)
	}
	return buildExpression(tree)
}

func syntaxError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		p := perr.Position()
		return &SyntaxError{Message: perr.Message(), Pos: ast.Position{Line: p.Line, Column: p.Column}}
	}
	return &SyntaxError{Message: err.Error()}
}
