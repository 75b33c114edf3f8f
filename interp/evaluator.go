// interp/evaluator.go
package interp

import (
	"context"
	"fmt"

	"fortio.org/log"

	"simonwaldherr.de/go/nanotoy/ast"
	"simonwaldherr.de/go/nanotoy/parser"
)

// Run parses a program, binds its functions and executes the entry function.
func (vm *Interpreter) Run(src string) (Value, error) {
	return vm.RunContext(context.Background(), src)
}

// RunContext is Run with cancellation checked at every call and loop iteration.
func (vm *Interpreter) RunContext(ctx context.Context, src string) (Value, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return vm.RunProgram(ctx, prog)
}

// RunProgram binds the functions of prog into the global frame and calls
// the entry function.
func (vm *Interpreter) RunProgram(ctx context.Context, prog *ast.Program) (Value, error) {
	vm.declare(prog)

	v, ok := vm.globals.Get(vm.entry)
	if !ok {
		return nil, NewRuntimeError(ErrArity, prog.Pos(), "entry function `%s` not found", vm.entry)
	}
	fn, ok := v.(*Function)
	if !ok {
		return nil, NewRuntimeError(ErrArity, prog.Pos(), "entry `%s` is not a user function", vm.entry)
	}
	if len(fn.Params) != 0 {
		return nil, NewRuntimeError(ErrArity, prog.Pos(), "entry function `%s` must not take parameters, has %d", vm.entry, len(fn.Params))
	}

	restore := vm.bind(ctx)
	defer restore()
	log.LogVf("running entry %s (return mode %s)", vm.entry, vm.mode)
	return vm.invoke(fn, nil)
}

// Define binds the functions in src without running anything.
func (vm *Interpreter) Define(src string) ([]string, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return vm.declare(prog), nil
}

// EvalExpression evaluates a standalone expression in the current frame.
func (vm *Interpreter) EvalExpression(src string) (Value, error) {
	expr, err := parser.ParseExpression(src)
	if err != nil {
		return nil, err
	}
	restore := vm.bind(context.Background())
	defer restore()
	return vm.evalExpr(expr)
}

func (vm *Interpreter) bind(ctx context.Context) func() {
	prev := vm.ctx
	vm.ctx = ctx
	return func() { vm.ctx = prev }
}

// declare is the single first pass over a program: it only binds names.
func (vm *Interpreter) declare(prog *ast.Program) []string {
	names := make([]string, 0, len(prog.Funcs))
	for _, fd := range prog.Funcs {
		vm.env.Set(fd.Name, &Function{Name: fd.Name, Params: fd.Params, Body: fd.Body})
		names = append(names, fd.Name)
	}
	return names
}

func (vm *Interpreter) interrupted() error {
	if vm.ctx == nil {
		return nil
	}
	if err := vm.ctx.Err(); err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}
	return nil
}

// ---------------- Statement evaluation ----------------------------

type controlKind int

const (
	controlNone controlKind = iota
	controlReturn
)

type controlFlow struct {
	kind controlKind
	val  Value
}

var fallthroughZero = controlFlow{val: Zero}

// stops reports whether a block must end after a statement produced c.
func (vm *Interpreter) stops(c controlFlow) bool {
	if vm.mode == ReturnSentinel {
		return !isZero(c.val)
	}
	return c.kind == controlReturn
}

// evalBlock runs statements in the current frame; blocks open no scope.
func (vm *Interpreter) evalBlock(b *ast.Block) (controlFlow, error) {
	for _, st := range b.Statements {
		c, err := vm.evalStmt(st)
		if err != nil {
			return controlFlow{}, err
		}
		if vm.stops(c) {
			return c, nil
		}
	}
	return fallthroughZero, nil
}

func (vm *Interpreter) evalStmt(s ast.Node) (controlFlow, error) {
	switch st := s.(type) {
	case *ast.VarDecl:
		var val Value = Zero
		if st.Value != nil {
			v, err := vm.evalExpr(st.Value)
			if err != nil {
				return controlFlow{}, err
			}
			val = v
		}
		vm.env.Set(st.Name, val)
		return fallthroughZero, nil

	case *ast.VarSet:
		v, err := vm.evalExpr(st.Value)
		if err != nil {
			return controlFlow{}, err
		}
		vm.env.Set(st.Name, v)
		return fallthroughZero, nil

	case *ast.FuncCall:
		v, err := vm.evalCall(st)
		if err != nil {
			return controlFlow{}, err
		}
		return controlFlow{val: v}, nil

	case *ast.FuncReturn:
		v, err := vm.evalExpr(st.Value)
		if err != nil {
			return controlFlow{}, err
		}
		return controlFlow{kind: controlReturn, val: v}, nil

	case *ast.IfStatement:
		ok, err := vm.condition(st.Condition, "if")
		if err != nil {
			return controlFlow{}, err
		}
		if ok {
			return vm.evalBlock(st.Body)
		}
		return fallthroughZero, nil

	case *ast.WhileLoop:
		for {
			if err := vm.interrupted(); err != nil {
				return controlFlow{}, err
			}
			ok, err := vm.condition(st.Condition, "while")
			if err != nil {
				return controlFlow{}, err
			}
			if !ok {
				break
			}
			if err := vm.loopBody(st.Body); err != nil {
				return controlFlow{}, err
			}
		}
		return fallthroughZero, nil

	case *ast.ForLoop:
		if _, err := vm.evalStmt(st.Init); err != nil {
			return controlFlow{}, err
		}
		for {
			if err := vm.interrupted(); err != nil {
				return controlFlow{}, err
			}
			ok, err := vm.condition(st.Condition, "for")
			if err != nil {
				return controlFlow{}, err
			}
			if !ok {
				break
			}
			if err := vm.loopBody(st.Body); err != nil {
				return controlFlow{}, err
			}
			if _, err := vm.evalStmt(st.Update); err != nil {
				return controlFlow{}, err
			}
		}
		return fallthroughZero, nil

	default:
		panic(&ast.ContractViolation{Node: s, Msg: "node is not a statement"})
	}
}

// loopBody runs one iteration. Loops discard the body's result, including
// a value raised by return.
func (vm *Interpreter) loopBody(b *ast.Block) error {
	c, err := vm.evalBlock(b)
	if err != nil {
		return err
	}
	if c.kind == controlReturn {
		log.LogVf("return at %s inside loop body does not leave the loop", b.Pos())
	}
	return nil
}

func (vm *Interpreter) condition(n ast.Node, what string) (bool, error) {
	v, err := vm.evalExpr(n)
	if err != nil {
		return false, err
	}
	b, ok := v.(Boolean)
	if !ok {
		return false, NewRuntimeError(ErrTypeMismatch, n.Pos(), "%s condition must be boolean, got %s", what, v.Kind())
	}
	return bool(b), nil
}

// ---------------- Expression evaluation ---------------------------

func (vm *Interpreter) evalExpr(e ast.Node) (Value, error) {
	switch ex := e.(type) {
	case *ast.IntegerLiteral:
		return Integer(ex.Value), nil
	case *ast.StringLiteral:
		return String(ex.Value), nil
	case *ast.BooleanLiteral:
		return Boolean(ex.Value), nil

	case *ast.Identifier:
		if v, ok := vm.env.Get(ex.Name); ok {
			return v, nil
		}
		return nil, NewRuntimeError(ErrUndefinedName, ex.Pos(), "undefined variable `%s`", ex.Name)

	case *ast.FuncCall:
		return vm.evalCall(ex)

	case *ast.BinaryExpression:
		l, err := vm.evalExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		r, err := vm.evalExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		return applyBinaryOp(ex, l, r)

	case *ast.UnaryExpression:
		v, err := vm.evalExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		switch x := v.(type) {
		case Integer:
			if ex.Op == ast.Minus {
				return -x, nil
			}
		case Boolean:
			if ex.Op == ast.Not {
				return !x, nil
			}
		}
		return nil, NewRuntimeError(ErrTypeMismatch, ex.Pos(), "invalid operand for unary %s: %s", ex.Op, v.Kind())

	default:
		panic(&ast.ContractViolation{Node: e, Msg: "node is not an expression"})
	}
}

func (vm *Interpreter) evalArgs(args []ast.Node) ([]Value, error) {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := vm.evalExpr(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (vm *Interpreter) evalCall(call *ast.FuncCall) (Value, error) {
	callee, _ := vm.env.Get(call.Name)
	switch fn := callee.(type) {
	case *Function:
		// Arguments are evaluated in the caller's frame, before the switch.
		args, err := vm.evalArgs(call.Args)
		if err != nil {
			return nil, err
		}
		v, err := vm.invoke(fn, args)
		if err != nil {
			return nil, locate(err, call.Pos())
		}
		return v, nil
	case *BuiltinFunction:
		args, err := vm.evalArgs(call.Args)
		if err != nil {
			return nil, err
		}
		v, err := fn.Fn(args)
		if err != nil {
			return nil, locate(err, call.Pos())
		}
		if v == nil {
			return Zero, nil
		}
		return v, nil
	}
	return nil, NewRuntimeError(ErrUndefinedName, call.Pos(), "function `%s` not found", call.Name)
}

// invoke pushes a frame whose parent is the caller's current frame, binds
// parameters positionally, runs the body and restores the caller's frame.
// Extra arguments are ignored; missing ones leave the parameter unbound.
func (vm *Interpreter) invoke(fn *Function, args []Value) (Value, error) {
	if err := vm.interrupted(); err != nil {
		return nil, err
	}
	if vm.maxDepth > 0 && vm.callDepth >= vm.maxDepth {
		return nil, NewRuntimeError(ErrCallDepth, fn.Body.Pos(), "call depth limit %d exceeded calling `%s`", vm.maxDepth, fn.Name)
	}

	caller := vm.env
	frame := NewEnv(caller)
	for i, p := range fn.Params {
		if i < len(args) {
			frame.Set(p, args[i])
		}
	}
	vm.env = frame
	vm.callDepth++
	defer func() {
		vm.env = caller
		vm.callDepth--
	}()
	log.LogVf("call %s(%d args) depth=%d frames=%d", fn.Name, len(args), vm.callDepth, frame.Depth())

	c, err := vm.evalBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	return c.val, nil
}

// ---------------- Helpers ----------------------------------------

func applyBinaryOp(ex *ast.BinaryExpression, left, right Value) (Value, error) {
	l, lok := left.(Integer)
	r, rok := right.(Integer)
	if !lok || !rok {
		return nil, NewRuntimeError(ErrTypeMismatch, ex.Pos(), "invalid operands for binary expression: %s %s %s", left.Kind(), ex.Op, right.Kind())
	}
	switch ex.Op {
	case ast.Add:
		return l + r, nil
	case ast.Subtract:
		return l - r, nil
	case ast.Multiply:
		return l * r, nil
	case ast.Divide:
		if r == 0 {
			return nil, NewRuntimeError(ErrDivisionByZero, ex.Pos(), "integer division by zero")
		}
		return l / r, nil
	case ast.Greater:
		return Boolean(l > r), nil
	case ast.Less:
		return Boolean(l < r), nil
	case ast.Equal:
		return Boolean(l == r), nil
	case ast.NotEqual:
		return Boolean(l != r), nil
	case ast.GreaterEq:
		return Boolean(l >= r), nil
	case ast.LessEq:
		return Boolean(l <= r), nil
	}
	panic(&ast.ContractViolation{Node: ex, Msg: "unknown binary operator"})
}
