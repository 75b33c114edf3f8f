package runtime

import (
	"io"
	"strings"
	"testing"

	"simonwaldherr.de/go/nanotoy/interp"
)

func TestLineWriterSplitsLines(t *testing.T) {
	var got []string
	w := &LineWriter{Emit: func(s string) { got = append(got, s) }}
	io.WriteString(w, "one\ntw")
	io.WriteString(w, "o\nthree")
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("lines = %q", got)
	}
	w.Flush()
	if len(got) != 3 || got[2] != "three" {
		t.Errorf("after flush lines = %q", got)
	}
	w.Flush()
	if len(got) != 3 {
		t.Errorf("empty flush emitted %q", got)
	}
}

func TestPromptReaderOneAnswerPerLine(t *testing.T) {
	answers := []string{"ada", "42"}
	r := &PromptReader{Ask: func() (string, bool) {
		if len(answers) == 0 {
			return "", false
		}
		a := answers[0]
		answers = answers[1:]
		return a, true
	}}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(b) != "ada\n42\n" {
		t.Errorf("read %q", b)
	}
}

func TestBridgeDrivesInterpreter(t *testing.T) {
	var lines []string
	out := &LineWriter{Emit: func(s string) { lines = append(lines, s) }}
	in := &PromptReader{Ask: func() (string, bool) { return "Ada", true }}
	vm := interp.NewInterpreter(interp.WithBuiltins(interp.NewBuiltins(out, in)))
	_, err := vm.Run(`fn main() { let n = input("name? "); print("hi ", n); }`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(lines, "|") != "name? |hi Ada" {
		t.Errorf("lines = %q", lines)
	}
}
