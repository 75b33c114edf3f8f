package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/log"

	"simonwaldherr.de/go/nanotoy/ast"
	"simonwaldherr.de/go/nanotoy/config"
	"simonwaldherr.de/go/nanotoy/interp"
)

const (
	exitOK       = 0
	exitUsage    = 1
	exitLanguage = 2
	exitFatal    = 3
)

var errTimeout = errors.New("execution timed out")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: nanotoy [-config file.yml] [-timeout 10s] [-v] [run|fmt|vet] <file.toy>")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nanotoy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "YAML configuration file")
	timeout := fs.Duration("timeout", 0, "abort evaluation after this duration (overrides config)")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(stderr, "config error:", err)
			return exitUsage
		}
		cfg = c
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *verbose {
		cfg.LogLevel = "verbose"
	}
	if lvl, err := log.ValidateLevel(cfg.LogLevel); err == nil {
		log.SetLogLevel(lvl)
	} else {
		log.Warnf("ignoring log level %q: %v", cfg.LogLevel, err)
	}

	rest := fs.Args()
	cmd := "run"
	if len(rest) > 0 {
		switch rest[0] {
		case "run", "fmt", "vet":
			cmd, rest = rest[0], rest[1:]
		}
	}
	if len(rest) != 1 {
		usage(stderr)
		return exitUsage
	}

	src, err := os.ReadFile(rest[0])
	if err != nil {
		fmt.Fprintln(stderr, "read error:", err)
		return exitUsage
	}

	switch cmd {
	case "fmt":
		return runFmt(string(src), stdout, stderr)
	case "vet":
		return runVet(string(src), cfg.Entry, stdout, stderr)
	}

	v, err := RunSafe(string(src), cfg, stdout)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		var cv *ast.ContractViolation
		if errors.As(err, &cv) || errors.Is(err, errTimeout) {
			return exitFatal
		}
		return exitLanguage
	}
	log.LogVf("%s returned %s", cfg.Entry, v)
	fmt.Fprintln(stdout, v)
	return exitOK
}

func runFmt(src string, stdout, stderr io.Writer) int {
	out, err := interp.FormatSource(src)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitLanguage
	}
	fmt.Fprint(stdout, out)
	return exitOK
}

func runVet(src, entry string, stdout, stderr io.Writer) int {
	issues, err := interp.VetSource(src, entry)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitLanguage
	}
	for _, issue := range issues {
		fmt.Fprintln(stdout, issue)
	}
	if len(issues) > 0 {
		return exitLanguage
	}
	return exitOK
}

// RunSafe executes a program with the configured timeout. A contract
// violation raised inside the evaluator is recovered and returned as an
// error so the host application is never crashed by a toolchain bug.
func RunSafe(source string, cfg config.Config, stdout io.Writer) (interp.Value, error) {
	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	type result struct {
		v   interp.Value
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if cv, ok := r.(*ast.ContractViolation); ok {
					done <- result{err: cv}
					return
				}
				done <- result{err: fmt.Errorf("panic recovered: %v", r)}
			}
		}()
		vm := interp.NewInterpreter(append(cfg.Options(), interp.WithStdout(stdout))...)
		v, err := vm.RunContext(ctx, source)
		done <- result{v: v, err: err}
	}()

	// input() may block on stdin, where the context cannot reach it.
	select {
	case r := <-done:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", errTimeout, cfg.Timeout)
		}
		return r.v, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w after %s", errTimeout, cfg.Timeout)
	}
}
