package pipeline

import (
	"bytes"
	"io"
	"sync"
)

// StatusWriter mirrors a stage's stderr and remembers the last line that looks
// like a failure, so a non-zero exit can be reported with something useful.
type StatusWriter struct {
	mu         sync.Mutex
	lastErrMsg string
	out        io.Writer
}

func NewStatusWriter(out io.Writer) *StatusWriter {
	if out == nil {
		out = io.Discard
	}
	return &StatusWriter{out: out}
}

var errorMarkers = [][]byte{
	[]byte("error"),
	[]byte("Error"),
	[]byte("ERROR"),
	[]byte("died"),
	[]byte("Can't"),
	[]byte("Unable"),
}

func (w *StatusWriter) Write(b []byte) (int, error) {
	for _, line := range bytes.Split(b, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		for _, marker := range errorMarkers {
			if bytes.Contains(line, marker) {
				w.mu.Lock()
				w.lastErrMsg = string(line)
				w.mu.Unlock()
				break
			}
		}
	}

	return w.out.Write(b)
}

// LastErrMsg returns the most recent failure-looking line, or "".
func (w *StatusWriter) LastErrMsg() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErrMsg
}

// syncWriter serialises writes from both stages onto one destination.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(b)
}
