package interp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"simonwaldherr.de/go/nanotoy/ast"
)

func newTestVM(opts ...Option) (*Interpreter, *strings.Builder) {
	var buf strings.Builder
	vm := NewInterpreter(append([]Option{WithStdout(&buf), WithStdin(strings.NewReader(""))}, opts...)...)
	return vm, &buf
}

func runAndCapture(t *testing.T, src string, opts ...Option) (Value, string) {
	t.Helper()
	vm, buf := newTestVM(opts...)
	v, err := vm.Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return v, buf.String()
}

func runErr(t *testing.T, src string, opts ...Option) (error, string) {
	t.Helper()
	vm, buf := newTestVM(opts...)
	_, err := vm.Run(src)
	if err == nil {
		t.Fatalf("expected error for %q", src)
	}
	return err, buf.String()
}

func TestForLoopCountsToTwenty(t *testing.T) {
	v, _ := runAndCapture(t, `fn main(){ let x = 0; for(let i=0; (i)<20; i=(i)+1;){ x=(x)+1; }; return x; }`)
	if v != Integer(20) {
		t.Errorf("got %v, want 20", v)
	}
}

func TestHelloWorld(t *testing.T) {
	v, out := runAndCapture(t, `fn main(){ print("Hello"); }`)
	if out != "Hello\n" {
		t.Errorf("output %q, want %q", out, "Hello\n")
	}
	if v != Zero {
		t.Errorf("got %v, want 0", v)
	}
}

func TestUndeclaredFunction(t *testing.T) {
	err, out := runErr(t, `fn main(){ foo(); print("after"); }`)
	if !errors.Is(err, ErrUndefinedName) {
		t.Errorf("expected ErrUndefinedName, got %v", err)
	}
	if !strings.Contains(err.Error(), "function `foo` not found") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestStandaloneArithmetic(t *testing.T) {
	vm, _ := newTestVM()
	v, err := vm.EvalExpression("1+2+34+3-13+41")
	if err != nil {
		t.Fatal(err)
	}
	if v != Integer(68) {
		t.Errorf("got %v, want 68", v)
	}
}

func TestEntryWithParameters(t *testing.T) {
	err, out := runErr(t, `fn main(a){ print("body"); }`)
	if !errors.Is(err, ErrArity) {
		t.Errorf("expected ErrArity, got %v", err)
	}
	if out != "" {
		t.Errorf("body must not run, got %q", out)
	}
}

func TestMissingEntry(t *testing.T) {
	err, _ := runErr(t, `fn helper(){ return 1; }`)
	if !errors.Is(err, ErrArity) || !strings.Contains(err.Error(), "entry function `main` not found") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestCustomEntry(t *testing.T) {
	v, _ := runAndCapture(t, `fn start(){ return 9; }`, WithEntry("start"))
	if v != Integer(9) {
		t.Errorf("got %v", v)
	}
}

func TestIntOfStr(t *testing.T) {
	v, _ := runAndCapture(t, `fn main(){ return int(str(41)); }`)
	if v != Integer(41) {
		t.Errorf("got %v, want 41", v)
	}
}

func TestLeftAssociativeSubtraction(t *testing.T) {
	v, _ := runAndCapture(t, `fn main(){ return 10-3-2; }`)
	if v != Integer(5) {
		t.Errorf("got %v, want 5", v)
	}
}

func TestCalleeMutationDoesNotLeak(t *testing.T) {
	v, out := runAndCapture(t, `
fn bump() {
    x = (x) + 100;
    print(x);
}
fn main() {
    let x = 1;
    bump();
    return x;
}`)
	if v != Integer(1) {
		t.Errorf("caller saw %v, want pre-call value 1", v)
	}
	if out != "101\n" {
		t.Errorf("callee should see inherited binding, output %q", out)
	}
}

func TestShadowingKeepsAncestorBinding(t *testing.T) {
	v, out := runAndCapture(t, `
fn inner() {
    let x = 7;
    print(x);
}
fn main() {
    let x = 3;
    inner();
    print(x);
    return x;
}`)
	if v != Integer(3) || out != "7\n3\n" {
		t.Errorf("got %v / %q", v, out)
	}
}

func TestBlocksShareEnclosingFrame(t *testing.T) {
	v, _ := runAndCapture(t, `
fn main() {
    if (true) { let a = 4; }
    let n = 0;
    while ((n) < 2) { let b = 10; n = (n) + 1; }
    for (let i = 0; (i) < 1; i = (i) + 1;) { let c = 100; }
    return (a) + (b) + (c) + (i);
}`)
	if v != Integer(115) {
		t.Errorf("got %v, want 115", v)
	}
}

func TestReturnFromIfPropagates(t *testing.T) {
	v, out := runAndCapture(t, `
fn pick(n) {
    if ((n) > 5) { return 1; }
    print("small");
    return 2;
}
fn main() { return (pick(9)) * 10 + pick(1); }`)
	if v != Integer(12) {
		t.Errorf("got %v, want 12", v)
	}
	if out != "small\n" {
		t.Errorf("output %q", out)
	}
}

func TestReturnInsideLoopIsSwallowed(t *testing.T) {
	for _, mode := range []ReturnMode{ReturnSignal, ReturnSentinel} {
		v, out := runAndCapture(t, `
fn main() {
    let i = 0;
    while ((i) < 3) {
        i = (i) + 1;
        return 99;
    }
    print(i);
    return 7;
}`, WithReturnMode(mode))
		if v != Integer(7) || out != "3\n" {
			t.Errorf("%s: got %v / %q", mode, v, out)
		}
	}
}

func TestSentinelShortCircuit(t *testing.T) {
	src := `
fn five() { return 5; }
fn main() {
    print("s1");
    five();
    print("s3");
    return 0;
}`
	v, out := runAndCapture(t, src, WithReturnMode(ReturnSentinel))
	if v != Integer(5) || out != "s1\n" {
		t.Errorf("sentinel: got %v / %q", v, out)
	}

	v, out = runAndCapture(t, src, WithReturnMode(ReturnSignal))
	if v != Zero || out != "s1\ns3\n" {
		t.Errorf("signal: got %v / %q", v, out)
	}
}

func TestSentinelIgnoresExplicitZeroReturn(t *testing.T) {
	src := `fn main() { return 0; print("after"); return 3; }`
	v, out := runAndCapture(t, src, WithReturnMode(ReturnSentinel))
	if v != Integer(3) || out != "after\n" {
		t.Errorf("sentinel: got %v / %q", v, out)
	}
	v, out = runAndCapture(t, src, WithReturnMode(ReturnSignal))
	if v != Zero || out != "" {
		t.Errorf("signal: got %v / %q", v, out)
	}
}

func TestDefaultModeIsSentinel(t *testing.T) {
	v, out := runAndCapture(t, `fn main() { str("a"); print("b"); }`)
	if v != String("a") || out != "" {
		t.Errorf("got %v / %q, want a with no output", v, out)
	}
	if m, ok := ParseReturnMode(""); !ok || m != ReturnSentinel {
		t.Errorf("ParseReturnMode(\"\") = %v, %v", m, ok)
	}
}

func TestArgumentBinding(t *testing.T) {
	v, _ := runAndCapture(t, `
fn first(a, b) { return a; }
fn main() { return first(1, 2, 3); }`)
	if v != Integer(1) {
		t.Errorf("extra args: got %v", v)
	}

	err, _ := runErr(t, `
fn second(a, b) { return b; }
fn main() { return second(1); }`)
	if !errors.Is(err, ErrUndefinedName) || !strings.Contains(err.Error(), "undefined variable `b`") {
		t.Errorf("missing arg: got %v", err)
	}
}

func TestArgumentsEvaluatedInCallerFrame(t *testing.T) {
	v, _ := runAndCapture(t, `
fn id(x) { return x; }
fn main() { let x = 4; return id((x) + 1); }`)
	if v != Integer(5) {
		t.Errorf("got %v, want 5", v)
	}
}

func TestRecursion(t *testing.T) {
	v, _ := runAndCapture(t, `
fn fib(n) {
    let r = n;
    if ((n) > 1) { r = fib((n) - 1) + fib((n) - 2); }
    return r;
}
fn main() { return fib(10); }`)
	if v != Integer(55) {
		t.Errorf("got %v, want 55", v)
	}
}

func TestZeroReturnFallsThroughInSentinelMode(t *testing.T) {
	src := `
fn sign(n) {
    if ((n) == 0) { return 0; }
    return 1;
}
fn main() { return sign(0); }`
	if v, _ := runAndCapture(t, src); v != Integer(1) {
		t.Errorf("sentinel: got %v, want 1", v)
	}
	if v, _ := runAndCapture(t, src, WithReturnMode(ReturnSignal)); v != Zero {
		t.Errorf("signal: got %v, want 0", v)
	}
}

func TestVarDeclDefaultsToZero(t *testing.T) {
	v, _ := runAndCapture(t, `fn main() { let x; return (x) + 2; }`)
	if v != Integer(2) {
		t.Errorf("got %v", v)
	}
}

func TestOperators(t *testing.T) {
	cases := []struct {
		expr string
		want Value
	}{
		{"7/2", Integer(3)},
		{"-7/2", Integer(-3)},
		{"2*3+1", Integer(7)},
		{"1+2*3", Integer(9)},
		{"1+(2*3)", Integer(7)},
		{"3>2", Boolean(true)},
		{"3<2", Boolean(false)},
		{"3==3", Boolean(true)},
		{"3!=3", Boolean(false)},
		{"3>=4", Boolean(false)},
		{"4<=4", Boolean(true)},
		{"-5", Integer(-5)},
		{"!true", Boolean(false)},
		{"!(1>2)", Boolean(true)},
	}
	for _, c := range cases {
		vm, _ := newTestVM()
		got, err := vm.EvalExpression(c.expr)
		if err != nil {
			t.Errorf("%s: %v", c.expr, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestTypeMismatches(t *testing.T) {
	cases := []string{
		`fn main() { return 1 + "a"; }`,
		`fn main() { return true < false; }`,
		`fn main() { return "a" == "a"; }`,
		`fn main() { return -true; }`,
		`fn main() { return !1; }`,
		`fn main() { if (1) { return 2; } }`,
		`fn main() { while ("x") { } }`,
		`fn main() { print(main); }`,
		`fn main() { return int("abc"); }`,
	}
	for _, src := range cases {
		err, _ := runErr(t, src)
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("%s: expected ErrTypeMismatch, got %v", src, err)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	err, _ := runErr(t, `fn main() { return 1/0; }`)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("got %v", err)
	}
}

func TestErrorCarriesPosition(t *testing.T) {
	err, _ := runErr(t, "fn main() {\n    return missing;\n}")
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if re.Pos.Line != 2 {
		t.Errorf("line = %d, want 2", re.Pos.Line)
	}
}

func TestCallDepthLimit(t *testing.T) {
	err, _ := runErr(t, `
fn loop(n) { return loop((n) + 1); }
fn main() { return loop(0); }`, WithMaxCallDepth(50))
	if !errors.Is(err, ErrCallDepth) {
		t.Errorf("got %v", err)
	}
}

func TestFrameRestoredAfterCall(t *testing.T) {
	vm, _ := newTestVM()
	if _, err := vm.Run(`fn f() { let y = 1; return y; } fn main() { return f(); }`); err != nil {
		t.Fatal(err)
	}
	if vm.env != vm.globals || vm.env.Depth() != 1 {
		t.Errorf("current frame not restored, depth %d", vm.env.Depth())
	}
	if _, ok := vm.globals.Get("y"); ok {
		t.Error("callee binding leaked into globals")
	}
}

func TestRunContextCancellation(t *testing.T) {
	vm, _ := newTestVM()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := vm.RunContext(ctx, `fn main() { while (true) { } }`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v", err)
	}
}

func TestSyntaxErrorStopsBeforeEvaluation(t *testing.T) {
	vm, buf := newTestVM()
	_, err := vm.Run(`fn main() { print("x") `)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		t.Errorf("syntax error reported as runtime error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestContractViolationPanics(t *testing.T) {
	vm, _ := newTestVM()
	body := &ast.Block{Statements: []ast.Node{&ast.Block{}}}
	prog := &ast.Program{Funcs: []*ast.FuncDef{{Name: "main", Params: []string{}, Body: body}}}
	defer func() {
		r := recover()
		if _, ok := r.(*ast.ContractViolation); !ok {
			t.Errorf("expected ContractViolation panic, got %v", r)
		}
	}()
	_, _ = vm.RunProgram(context.Background(), prog)
}

func TestDefinePersistsAcrossRuns(t *testing.T) {
	vm, _ := newTestVM()
	names, err := vm.Define(`fn twice(n) { return (n) * 2; }`)
	if err != nil || len(names) != 1 || names[0] != "twice" {
		t.Fatalf("Define: %v %v", names, err)
	}
	v, err := vm.EvalExpression("twice(21)")
	if err != nil || v != Integer(42) {
		t.Errorf("got %v, %v", v, err)
	}
}

func TestHostNativeViaBuiltins(t *testing.T) {
	var buf strings.Builder
	calls := 0
	b := NewBuiltins(&buf, strings.NewReader("")).With("tick", func(args []Value) (Value, error) {
		calls++
		return Integer(len(args)), nil
	})
	vm := NewInterpreter(WithBuiltins(b))
	v, err := vm.Run(`fn main() { return tick(1, 2); }`)
	if err != nil || v != Integer(2) || calls != 1 {
		t.Errorf("got %v, %v, calls=%d", v, err, calls)
	}
}

func TestInputTrimsTrailingWhitespace(t *testing.T) {
	src := `fn main() {
    let a = input("? ");
    let b = input();
    let c = input();
    print("[", a, "][", b, "][", c, "]");
}`
	_, out := runAndCapture(t, src, WithStdin(strings.NewReader(" Ada \t\r\nBob")))
	if out != "? [ Ada][Bob][]\n" {
		t.Errorf("output %q", out)
	}
}
