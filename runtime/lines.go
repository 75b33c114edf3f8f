// Package runtime bridges the interpreter to a browser host.
package runtime

import (
	"bytes"
	"io"
	"strings"
)

// LineWriter buffers writes and hands every completed line to Emit without
// its trailing newline. Flush emits whatever partial line is pending.
type LineWriter struct {
	Emit func(line string)
	buf  bytes.Buffer
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(w.buf.Next(i + 1))
		w.Emit(strings.TrimSuffix(line, "\n"))
	}
}

func (w *LineWriter) Flush() error {
	if w.buf.Len() > 0 {
		w.Emit(w.buf.String())
		w.buf.Reset()
	}
	return nil
}

// PromptReader feeds input() from a synchronous prompt function. Each
// answer is delivered as one line.
type PromptReader struct {
	Ask     func() (string, bool)
	pending bytes.Buffer
}

func (r *PromptReader) Read(p []byte) (int, error) {
	if r.pending.Len() == 0 {
		answer, ok := r.Ask()
		if !ok {
			return 0, io.EOF
		}
		r.pending.WriteString(answer)
		r.pending.WriteByte('\n')
	}
	return r.pending.Read(p)
}
