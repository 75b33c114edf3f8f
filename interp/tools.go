// interp/tools.go
package interp

import (
	"fmt"

	"simonwaldherr.de/go/nanotoy/ast"
	"simonwaldherr.de/go/nanotoy/parser"
)

// FormatSource re-prints a program in canonical layout.
// It returns (original, error) if the source cannot be parsed.
func FormatSource(src string) (string, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return src, err
	}
	return ast.Format(prog), nil
}

// VetIssue describes a potential problem found by VetSource.
type VetIssue struct {
	Line    int
	Column  int
	Message string
}

func (v VetIssue) String() string {
	return fmt.Sprintf("%d:%d: %s", v.Line, v.Column, v.Message)
}

// VetSource performs basic static analysis: unreachable statements after a
// return, returns swallowed by loops, self-assignments, calls to unknown
// functions and a missing entry function.
func VetSource(src string, entry string) ([]VetIssue, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	v := &vetter{known: map[string]bool{}}
	for _, name := range NewBuiltins(nil, nil).Names() {
		v.known[name] = true
	}
	for _, fd := range prog.Funcs {
		v.known[fd.Name] = true
	}
	if !v.known[entry] {
		v.report(prog, "no entry function `%s`", entry)
	}
	for _, fd := range prog.Funcs {
		v.block(fd.Body, false)
	}
	return v.issues, nil
}

type vetter struct {
	known  map[string]bool
	issues []VetIssue
}

func (v *vetter) report(n ast.Node, format string, args ...any) {
	p := n.Pos()
	v.issues = append(v.issues, VetIssue{Line: p.Line, Column: p.Column, Message: fmt.Sprintf(format, args...)})
}

func (v *vetter) block(b *ast.Block, inLoop bool) {
	reportedUnreachable := false
	for i, st := range b.Statements {
		if ret, ok := st.(*ast.FuncReturn); ok {
			if inLoop {
				v.report(st, "return inside loop body does not leave the loop")
			}
			if i < len(b.Statements)-1 && !reportedUnreachable {
				reportedUnreachable = true // only the first per block
				if lit, ok := ret.Value.(*ast.IntegerLiteral); ok && lit.Value == 0 {
					v.report(st, "return 0 does not end the block in sentinel mode")
				} else {
					v.report(b.Statements[i+1], "unreachable code unless the returned value is 0")
				}
			}
		}
		v.stmt(st, inLoop)
	}
}

func (v *vetter) stmt(n ast.Node, inLoop bool) {
	switch s := n.(type) {
	case *ast.VarSet:
		if id, ok := s.Value.(*ast.Identifier); ok && id.Name == s.Name {
			v.report(s, "self-assignment: %s = %s has no effect", s.Name, id.Name)
		}
		v.expr(s.Value)
	case *ast.VarDecl:
		if s.Value != nil {
			v.expr(s.Value)
		}
	case *ast.FuncReturn:
		v.expr(s.Value)
	case *ast.FuncCall:
		v.expr(s)
	case *ast.IfStatement:
		v.expr(s.Condition)
		v.block(s.Body, inLoop)
	case *ast.WhileLoop:
		v.expr(s.Condition)
		v.block(s.Body, true)
	case *ast.ForLoop:
		v.stmt(s.Init, inLoop)
		v.expr(s.Condition)
		v.stmt(s.Update, true)
		v.block(s.Body, true)
	}
}

func (v *vetter) expr(n ast.Node) {
	switch e := n.(type) {
	case *ast.FuncCall:
		if !v.known[e.Name] {
			v.report(e, "call to unknown function `%s`", e.Name)
		}
		for _, a := range e.Args {
			v.expr(a)
		}
	case *ast.BinaryExpression:
		v.expr(e.Left)
		v.expr(e.Right)
	case *ast.UnaryExpression:
		v.expr(e.Operand)
	}
}
