//go:build js && wasm

package runtime

import (
	"fmt"
	"syscall/js"

	"simonwaldherr.de/go/nanotoy/interp"
)

// sendMessage calls the JS hook `nanotoyPostMessage(msg)` when the page
// defines one and falls back to console.* otherwise.
func sendMessage(msg map[string]any) {
	hook := js.Global().Get("nanotoyPostMessage")
	if hook.Truthy() {
		obj := js.Global().Get("Object").New()
		for k, v := range msg {
			switch t := v.(type) {
			case string, bool, int:
				obj.Set(k, t)
			default:
				obj.Set(k, fmt.Sprintf("%v", t))
			}
		}
		hook.Invoke(obj)
		return
	}
	method := "log"
	switch msg["type"] {
	case "warn", "error":
		method = msg["type"].(string)
	}
	js.Global().Get("console").Call(method, msg["text"])
}

func ConsoleLog(s string)   { sendMessage(map[string]any{"type": "log", "text": s}) }
func ConsoleWarn(s string)  { sendMessage(map[string]any{"type": "warn", "text": s}) }
func ConsoleError(s string) { sendMessage(map[string]any{"type": "error", "text": s}) }

func Alert(s string) {
	if js.Global().Get("nanotoyPostMessage").Truthy() {
		sendMessage(map[string]any{"type": "alert", "text": s})
		return
	}
	js.Global().Get("window").Call("alert", s)
}

// Stdout streams program output to the page one line at a time.
func Stdout() *LineWriter { return &LineWriter{Emit: ConsoleLog} }

// Stdin answers input() with window.prompt. A cancelled prompt reads as EOF.
func Stdin() *PromptReader {
	return &PromptReader{Ask: func() (string, bool) {
		v := js.Global().Get("window").Call("prompt", "")
		if v.IsNull() || v.IsUndefined() {
			return "", false
		}
		return v.String(), true
	}}
}

// RegisterHostNatives adds the browser-only builtins warn and alert.
func RegisterHostNatives(b *interp.Builtins) *interp.Builtins {
	text := func(args []interp.Value) string {
		s := ""
		for _, a := range args {
			s += a.String()
		}
		return s
	}
	return b.
		With("warn", func(args []interp.Value) (interp.Value, error) {
			ConsoleWarn(text(args))
			return interp.Zero, nil
		}).
		With("alert", func(args []interp.Value) (interp.Value, error) {
			Alert(text(args))
			return interp.Zero, nil
		})
}
