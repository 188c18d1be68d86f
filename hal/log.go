package hal

import (
	"bytes"
	"io"
	"sync"
)

type lineWriter struct {
	mu  sync.Mutex
	l   Logger
	buf []byte
}

// LineWriter adapts a Logger to an io.Writer. Output is split on newlines and
// each complete line is handed to the Logger; a trailing partial line is held
// until the next write completes it.
func LineWriter(l Logger) io.Writer {
	return &lineWriter{l: l}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimRight(w.buf[:i], "\r")
		if w.l != nil {
			w.l.WriteLineBytes(line)
		}
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}
