package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"simonwaldherr.de/go/nanotoy/interp"
	"simonwaldherr.de/go/nanotoy/parser"
)

const (
	historyFile = ".nanotoy_history"
	promptMain  = "toy> "
	promptCont  = "...  "
	stmtWrapper = "replStatement"
)

const helpText = `Enter function definitions (fn name(...) { ... }), expressions, or statements.
Commands:
  :help          show this text
  :funcs         list defined functions
  :load <file>   define every function in file
  :reset         drop all definitions
  :quit          leave the REPL
`

func main() {
	os.Exit(runREPL())
}

func runREPL() int {
	fmt.Println("nanotoy REPL. Type :help for help, Ctrl-D to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(os.Stdout)
	for {
		code, ok := readBalanced(ln)
		if !ok {
			fmt.Println()
			break
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if s.eval(code) {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	} else {
		log.LogVf("history not saved: %v", err)
	}
	return 0
}

// readBalanced keeps prompting until every opened brace is closed.
func readBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// braceDepth counts unclosed braces outside string literals and comments.
func braceDepth(src string) int {
	depth := 0
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString:
			if c == '"' || c == '\n' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return depth
}

func looksLikeDecl(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "fn ")
}

// buildStmtSource wraps statements into a throwaway parameterless function.
func buildStmtSource(stmt string) string {
	var b strings.Builder
	b.WriteString("fn ")
	b.WriteString(stmtWrapper)
	b.WriteString("() {\n")
	b.WriteString(stmt)
	b.WriteString("\n}\n")
	return b.String()
}

type session struct {
	out io.Writer
	vm  *interp.Interpreter
}

func newSession(out io.Writer) *session {
	return &session{out: out, vm: interp.NewInterpreter(interp.WithStdout(out))}
}

// eval handles one complete input and reports whether the user asked to quit.
func (s *session) eval(code string) bool {
	if strings.HasPrefix(code, ":") {
		return s.command(code)
	}
	if looksLikeDecl(code) {
		names, err := s.vm.Define(code)
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			return false
		}
		fmt.Fprintln(s.out, "defined:", strings.Join(names, ", "))
		return false
	}
	if _, err := parser.ParseExpression(code); err == nil {
		s.printResult(s.vm.EvalExpression(code))
		return false
	}
	if _, err := s.vm.Define(buildStmtSource(code)); err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return false
	}
	s.printResult(s.vm.EvalExpression(stmtWrapper + "()"))
	return false
}

func (s *session) printResult(v interp.Value, err error) {
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return
	}
	fmt.Fprintln(s.out, v)
}

func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Fprint(s.out, helpText)
	case ":reset":
		s.vm = interp.NewInterpreter(interp.WithStdout(s.out))
		fmt.Fprintln(s.out, "interpreter reset.")
	case ":funcs":
		for _, name := range s.functions() {
			fmt.Fprintln(s.out, name)
		}
	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, "usage: :load <file>")
			return false
		}
		src, err := os.ReadFile(fields[1])
		if err != nil {
			fmt.Fprintf(s.out, "cannot read %s: %v\n", fields[1], err)
			return false
		}
		names, err := s.vm.Define(string(src))
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			return false
		}
		fmt.Fprintln(s.out, "defined:", strings.Join(names, ", "))
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for help.")
	}
	return false
}

// functions lists the user-defined functions, hiding the statement wrapper.
func (s *session) functions() []string {
	var names []string
	for _, name := range s.vm.Globals().Names() {
		if name == stmtWrapper {
			continue
		}
		if v, _ := s.vm.Globals().Get(name); v.Kind() == interp.FunctionKind {
			names = append(names, name)
		}
	}
	return names
}
