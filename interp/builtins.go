// interp/builtins.go
package interp

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Builtins is the registry of native functions visible to programs. It is
// fixed once built; With returns an extended copy instead of mutating.
type Builtins struct {
	funcs map[string]Native
}

// NewBuiltins registers print, input, str and int against the given
// console streams.
func NewBuiltins(stdout io.Writer, stdin io.Reader) *Builtins {
	console := &console{out: stdout, in: bufio.NewReader(stdin)}
	return &Builtins{funcs: map[string]Native{
		"print": console.print,
		"input": console.input,
		"str":   builtinStr,
		"int":   builtinInt,
	}}
}

// With returns a copy of b that additionally binds name to fn.
func (b *Builtins) With(name string, fn Native) *Builtins {
	funcs := make(map[string]Native, len(b.funcs)+1)
	for k, v := range b.funcs {
		funcs[k] = v
	}
	funcs[name] = fn
	return &Builtins{funcs: funcs}
}

func (b *Builtins) Lookup(name string) (Native, bool) {
	fn, ok := b.funcs[name]
	return fn, ok
}

// Names lists the registered names in sorted order.
func (b *Builtins) Names() []string {
	out := make([]string, 0, len(b.funcs))
	for k := range b.funcs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type console struct {
	out io.Writer
	in  *bufio.Reader
}

// formatArgs concatenates the textual form of scalar values.
func formatArgs(name string, args []Value) (string, error) {
	var b strings.Builder
	for _, a := range args {
		switch a.(type) {
		case Integer, String, Boolean:
			b.WriteString(a.String())
		default:
			return "", typeError("%s: unsupported argument of type %s", name, a.Kind())
		}
	}
	return b.String(), nil
}

func (c *console) print(args []Value) (Value, error) {
	s, err := formatArgs("print", args)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(c.out, s+"\n"); err != nil {
		return nil, err
	}
	return Zero, nil
}

func (c *console) input(args []Value) (Value, error) {
	s, err := formatArgs("input", args)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(c.out, s); err != nil {
		return nil, err
	}
	if f, ok := c.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return nil, err
		}
	}
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return String(strings.TrimRightFunc(line, unicode.IsSpace)), nil
}

func builtinStr(args []Value) (Value, error) {
	s, err := formatArgs("str", args)
	if err != nil {
		return nil, err
	}
	return String(s), nil
}

func builtinInt(args []Value) (Value, error) {
	s, err := formatArgs("int", args)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, typeError("int: cannot convert %q to integer", s)
	}
	return Integer(n), nil
}
