//go:build js && wasm

package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"simonwaldherr.de/go/nanotoy/ast"
	"simonwaldherr.de/go/nanotoy/interp"
	"simonwaldherr.de/go/nanotoy/runtime"
)

// jsRun runs a program coming from JS and returns the entry result as text.
func jsRun(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		runtime.ConsoleError("nanotoyRun: missing source")
		return nil
	}
	out := runtime.Stdout()
	defer out.Flush()
	defer func() {
		if r := recover(); r != nil {
			if cv, ok := r.(*ast.ContractViolation); ok {
				runtime.ConsoleError("nanotoy internal error: " + cv.Error())
				return
			}
			runtime.ConsoleError(fmt.Sprintf("nanotoy panic: %v", r))
		}
	}()

	builtins := runtime.RegisterHostNatives(interp.NewBuiltins(out, runtime.Stdin()))
	vm := interp.NewInterpreter(interp.WithBuiltins(builtins))
	v, err := vm.Run(args[0].String())
	if err != nil {
		runtime.ConsoleError("nanotoy error: " + err.Error())
		return nil
	}
	return v.String()
}

func jsFormat(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return ""
	}
	out, err := interp.FormatSource(args[0].String())
	if err != nil {
		runtime.ConsoleError("nanotoy fmt: " + err.Error())
	}
	return out
}

// jsVet returns the findings joined by newlines.
func jsVet(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return ""
	}
	issues, err := interp.VetSource(args[0].String(), interp.DefaultEntry)
	if err != nil {
		return err.Error()
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

func main() {
	js.Global().Set("nanotoyRun", js.FuncOf(jsRun))
	js.Global().Set("nanotoyFormat", js.FuncOf(jsFormat))
	js.Global().Set("nanotoyVet", js.FuncOf(jsVet))

	// Block forever for the browser event loop.
	select {}
}
