package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"simonwaldherr.de/go/nanotoy/ast"
)

func position(p lexer.Position) ast.Position { return ast.Position{Line: p.Line, Column: p.Column} }

func at(p lexer.Position) ast.Base { return ast.Base{At: position(p)} }

func contract(n ast.Node, format string, args ...any) error {
	return &ast.ContractViolation{Node: n, Msg: fmt.Sprintf(format, args...)}
}

// shapeError is used when the offending parse node has no ast counterpart yet.
func shapeError(p lexer.Position, format string, args ...any) error {
	return contract(&ast.Block{Base: at(p)}, format, args...)
}

func buildProgram(r *programRule) (*ast.Program, error) {
	prog := &ast.Program{Base: at(r.Pos)}
	for _, f := range r.Funcs {
		fd, err := buildFuncDef(f)
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, fd)
	}
	return prog, nil
}

func buildFuncDef(r *funcDefRule) (*ast.FuncDef, error) {
	fd := &ast.FuncDef{Base: at(r.Pos), Name: r.Name, Params: []string{}}
	if r.Params != nil {
		fd.Params = append(fd.Params, r.Params.Names...)
	}
	body, err := buildBlock(r.Body)
	if err != nil {
		return nil, err
	}
	fd.Body = body
	return fd, nil
}

func buildBlock(r *blockRule) (*ast.Block, error) {
	if r == nil {
		return nil, contract(nil, "missing block")
	}
	b := &ast.Block{Base: at(r.Pos), Statements: make([]ast.Node, 0, len(r.Statements))}
	for _, st := range r.Statements {
		n, err := buildStatement(st)
		if err != nil {
			return nil, err
		}
		b.Statements = append(b.Statements, n)
	}
	return b, nil
}

func buildStatement(r *statementRule) (ast.Node, error) {
	switch {
	case r.For != nil:
		return buildFor(r.For)
	case r.While != nil:
		cond, err := buildExpression(r.While.Condition)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(r.While.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileLoop{Base: at(r.While.Pos), Condition: cond, Body: body}, nil
	case r.If != nil:
		cond, err := buildExpression(r.If.Condition)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(r.If.Body)
		if err != nil {
			return nil, err
		}
		return &ast.IfStatement{Base: at(r.If.Pos), Condition: cond, Body: body}, nil
	case r.Return != nil:
		v, err := buildExpression(r.Return.Value)
		if err != nil {
			return nil, err
		}
		return &ast.FuncReturn{Base: at(r.Return.Pos), Value: v}, nil
	case r.Simple != nil:
		return buildSimple(r.Simple)
	}
	return nil, shapeError(r.Pos, "empty statement")
}

func buildFor(r *forLoopRule) (ast.Node, error) {
	if r.Params == nil {
		return nil, shapeError(r.Pos, "for loop without header")
	}
	init, err := buildSimple(r.Params.Init)
	if err != nil {
		return nil, err
	}
	cond, err := buildExpression(r.Params.Condition)
	if err != nil {
		return nil, err
	}
	update, err := buildSimple(r.Params.Update)
	if err != nil {
		return nil, err
	}
	body, err := buildBlock(r.Body)
	if err != nil {
		return nil, err
	}
	return &ast.ForLoop{Base: at(r.Pos), Init: init, Condition: cond, Update: update, Body: body}, nil
}

func buildSimple(r *simpleRule) (ast.Node, error) {
	if r == nil {
		return nil, contract(nil, "missing statement")
	}
	switch {
	case r.Decl != nil:
		d := &ast.VarDecl{Base: at(r.Decl.Pos), Name: r.Decl.Name}
		if r.Decl.Value != nil {
			v, err := buildExpression(r.Decl.Value)
			if err != nil {
				return nil, err
			}
			d.Value = v
		}
		return d, nil
	case r.Set != nil:
		v, err := buildExpression(r.Set.Value)
		if err != nil {
			return nil, err
		}
		return &ast.VarSet{Base: at(r.Set.Pos), Name: r.Set.Name, Value: v}, nil
	case r.Call != nil:
		return buildCall(r.Call)
	}
	return nil, shapeError(r.Pos, "empty simple statement")
}

func buildCall(r *funcCallRule) (*ast.FuncCall, error) {
	call := &ast.FuncCall{Base: at(r.Pos), Name: r.Name, Args: []ast.Node{}}
	if r.Args == nil {
		return call, nil
	}
	for _, a := range r.Args.Args {
		v, err := buildExpression(a)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, v)
	}
	return call, nil
}

// buildExpression folds the operand chain left to right:
// a op1 b op2 c becomes ((a op1 b) op2 c).
func buildExpression(r *expressionRule) (ast.Node, error) {
	if r == nil {
		return nil, contract(nil, "missing expression")
	}
	acc, err := buildOperand(r.Head)
	if err != nil {
		return nil, err
	}
	for _, tail := range r.Tail {
		op, ok := ast.LookupBinary(tail.Op)
		if !ok {
			return nil, shapeError(tail.Pos, "unknown binary operator %q", tail.Op)
		}
		rhs, err := buildOperand(tail.Operand)
		if err != nil {
			return nil, err
		}
		acc = &ast.BinaryExpression{Base: at(tail.Pos), Left: acc, Op: op, Right: rhs}
	}
	return acc, nil
}

func buildOperand(r *operandRule) (ast.Node, error) {
	switch {
	case r == nil:
		return nil, contract(nil, "missing operand")
	case r.Unary != nil:
		op, ok := ast.LookupUnary(r.Unary.Op)
		if !ok {
			return nil, shapeError(r.Unary.Pos, "unknown unary operator %q", r.Unary.Op)
		}
		operand, err := buildTerm(r.Unary.Term)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Base: at(r.Unary.Pos), Op: op, Operand: operand}, nil
	case r.Term != nil:
		return buildTerm(r.Term)
	}
	return nil, contract(nil, "empty operand")
}

func buildTerm(r *termRule) (ast.Node, error) {
	if r == nil {
		return nil, contract(nil, "missing term")
	}
	switch {
	case r.Number != nil:
		n, err := strconv.ParseInt(*r.Number, 10, 32)
		if err != nil {
			return nil, &SyntaxError{Message: fmt.Sprintf("integer literal %s out of range", *r.Number), Pos: position(r.Pos)}
		}
		return &ast.IntegerLiteral{Base: at(r.Pos), Value: int32(n)}, nil
	case r.String != nil:
		s := strings.TrimSuffix(strings.TrimPrefix(*r.String, `"`), `"`)
		return &ast.StringLiteral{Base: at(r.Pos), Value: s}, nil
	case r.Boolean != nil:
		switch *r.Boolean {
		case "true":
			return &ast.BooleanLiteral{Base: at(r.Pos), Value: true}, nil
		case "false":
			return &ast.BooleanLiteral{Base: at(r.Pos), Value: false}, nil
		}
		return nil, shapeError(r.Pos, "invalid boolean literal %q", *r.Boolean)
	case r.Call != nil:
		return buildCall(r.Call)
	case r.Ident != nil:
		return &ast.Identifier{Base: at(r.Pos), Name: *r.Ident}, nil
	case r.Sub != nil:
		return buildExpression(r.Sub)
	}
	return nil, shapeError(r.Pos, "empty term")
}
