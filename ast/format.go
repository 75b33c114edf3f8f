package ast

import (
	"strconv"
	"strings"
)

const indentUnit = "    "

// Format renders a node back to canonical source text. Parsing the output
// yields an equivalent tree.
func Format(n Node) string {
	var p printer
	p.node(n)
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line() {
	p.b.WriteByte('\n')
	p.b.WriteString(strings.Repeat(indentUnit, p.indent))
}

func (p *printer) node(n Node) {
	switch x := n.(type) {
	case *Program:
		for i, f := range x.Funcs {
			if i > 0 {
				p.b.WriteString("\n\n")
			}
			p.node(f)
		}
		if len(x.Funcs) > 0 {
			p.b.WriteByte('\n')
		}
	case *FuncDef:
		p.b.WriteString("fn ")
		p.b.WriteString(x.Name)
		p.b.WriteByte('(')
		p.b.WriteString(strings.Join(x.Params, ", "))
		p.b.WriteString(") ")
		p.node(x.Body)
	case *Block:
		p.b.WriteByte('{')
		p.indent++
		for _, st := range x.Statements {
			p.line()
			p.statement(st)
		}
		p.indent--
		if len(x.Statements) > 0 {
			p.line()
		}
		p.b.WriteByte('}')
	default:
		p.simple(n)
	}
}

func (p *printer) statement(n Node) {
	switch x := n.(type) {
	case *ForLoop:
		p.b.WriteString("for (")
		p.simple(x.Init)
		p.b.WriteString("; ")
		p.simple(x.Condition)
		p.b.WriteString("; ")
		p.simple(x.Update)
		p.b.WriteString(";) ")
		p.node(x.Body)
	case *WhileLoop:
		p.b.WriteString("while (")
		p.simple(x.Condition)
		p.b.WriteString(") ")
		p.node(x.Body)
	case *IfStatement:
		p.b.WriteString("if (")
		p.simple(x.Condition)
		p.b.WriteString(") ")
		p.node(x.Body)
	default:
		p.simple(n)
		p.b.WriteByte(';')
	}
}

// simple prints statements that fit on one line and every expression form.
func (p *printer) simple(n Node) {
	switch x := n.(type) {
	case *VarDecl:
		p.b.WriteString("let ")
		p.b.WriteString(x.Name)
		if x.Value != nil {
			p.b.WriteString(" = ")
			p.simple(x.Value)
		}
	case *VarSet:
		p.b.WriteString(x.Name)
		p.b.WriteString(" = ")
		p.simple(x.Value)
	case *FuncReturn:
		p.b.WriteString("return ")
		p.simple(x.Value)
	case *FuncCall:
		p.b.WriteString(x.Name)
		p.b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.simple(a)
		}
		p.b.WriteByte(')')
	case *BinaryExpression:
		p.simple(x.Left)
		p.b.WriteByte(' ')
		p.b.WriteString(x.Op.String())
		p.b.WriteByte(' ')
		// Operators fold left, so a binary right operand came from parentheses.
		if _, nested := x.Right.(*BinaryExpression); nested {
			p.b.WriteByte('(')
			p.simple(x.Right)
			p.b.WriteByte(')')
		} else {
			p.simple(x.Right)
		}
	case *UnaryExpression:
		p.b.WriteString(x.Op.String())
		switch x.Operand.(type) {
		case *BinaryExpression, *UnaryExpression:
			p.b.WriteByte('(')
			p.simple(x.Operand)
			p.b.WriteByte(')')
		default:
			p.simple(x.Operand)
		}
	case *IntegerLiteral:
		p.b.WriteString(strconv.FormatInt(int64(x.Value), 10))
	case *StringLiteral:
		p.b.WriteByte('"')
		p.b.WriteString(x.Value)
		p.b.WriteByte('"')
	case *BooleanLiteral:
		p.b.WriteString(strconv.FormatBool(x.Value))
	case *Identifier:
		p.b.WriteString(x.Name)
	case nil:
	default:
		p.node(n)
	}
}
