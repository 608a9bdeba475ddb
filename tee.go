package cmdrun

import (
	"bytes"
	"io"
	"sync"
)

// tee duplicates a byte stream: every write is captured in an in-memory
// buffer and forwarded to a live sink, so the operator sees output as it
// happens while the runner retains a copy for error messages.
type tee struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	sink io.Writer
}

func newTee(sink io.Writer) *tee {
	return &tee{sink: sink}
}

// Write captures p and forwards it to the sink. The capture is authoritative:
// a failing sink must not stall or truncate the child's stderr copy loop, so
// sink errors are swallowed after the buffer write succeeds.
func (t *tee) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Write(p)
	if t.sink != nil {
		t.sink.Write(p) //nolint:errcheck
	}
	return len(p), nil
}

// Bytes returns a copy of everything captured so far.
func (t *tee) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]byte, t.buf.Len())
	copy(out, t.buf.Bytes())
	return out
}
