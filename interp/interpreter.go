package interp

import (
	"context"
	"io"
	"os"
)

// ReturnMode selects how a return value threads out of enclosing blocks.
type ReturnMode int

const (
	// ReturnSentinel stops a block at the first statement whose result is
	// anything other than Integer 0, explicit return or not.
	ReturnSentinel ReturnMode = iota
	// ReturnSignal stops a block only at an explicit return statement.
	ReturnSignal
)

func (m ReturnMode) String() string {
	if m == ReturnSignal {
		return "signal"
	}
	return "sentinel"
}

// ParseReturnMode accepts "sentinel" or "signal"; empty selects sentinel.
func ParseReturnMode(s string) (ReturnMode, bool) {
	switch s {
	case "", "sentinel":
		return ReturnSentinel, true
	case "signal":
		return ReturnSignal, true
	}
	return ReturnSentinel, false
}

const (
	DefaultEntry        = "main"
	DefaultMaxCallDepth = 10000
)

// Interpreter holds the global frame, the current frame and the builtins.
type Interpreter struct {
	globals  *Env
	env      *Env
	builtins *Builtins

	entry      string
	mode       ReturnMode
	maxDepth   int
	callDepth  int
	stdout     io.Writer
	stdin      io.Reader
	customized bool

	ctx context.Context
}

type Option func(*Interpreter)

// WithStdout sets where print and input write. Ignored when WithBuiltins is used.
func WithStdout(w io.Writer) Option { return func(vm *Interpreter) { vm.stdout = w } }

// WithStdin sets where input reads. Ignored when WithBuiltins is used.
func WithStdin(r io.Reader) Option { return func(vm *Interpreter) { vm.stdin = r } }

// WithBuiltins installs a prepared registry instead of the default one.
func WithBuiltins(b *Builtins) Option {
	return func(vm *Interpreter) { vm.builtins = b; vm.customized = true }
}

func WithEntry(name string) Option { return func(vm *Interpreter) { vm.entry = name } }

func WithReturnMode(m ReturnMode) Option { return func(vm *Interpreter) { vm.mode = m } }

// WithMaxCallDepth bounds nested user calls; n <= 0 disables the check.
func WithMaxCallDepth(n int) Option { return func(vm *Interpreter) { vm.maxDepth = n } }

func NewInterpreter(opts ...Option) *Interpreter {
	vm := &Interpreter{
		entry:    DefaultEntry,
		maxDepth: DefaultMaxCallDepth,
		stdout:   os.Stdout,
		stdin:    os.Stdin,
	}
	for _, o := range opts {
		o(vm)
	}
	if !vm.customized {
		vm.builtins = NewBuiltins(vm.stdout, vm.stdin)
	}
	vm.globals = NewEnv(nil)
	for _, name := range vm.builtins.Names() {
		fn, _ := vm.builtins.Lookup(name)
		vm.globals.Set(name, &BuiltinFunction{Name: name, Fn: fn})
	}
	vm.env = vm.globals
	return vm
}

// Globals exposes the root frame.
func (vm *Interpreter) Globals() *Env { return vm.globals }
