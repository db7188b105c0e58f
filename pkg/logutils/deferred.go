package logutils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// maxDeferred caps buffered output so a long watch session cannot grow the
// buffer without bound. Writes past the cap are counted and discarded.
const maxDeferred = 1 << 20

// DeferredWriter buffers all writes in memory until Flush is called. It is
// used while a full screen UI owns the terminal. Safe for concurrent use.
type DeferredWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

// Write stores data in the internal buffer.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len()+len(p) > maxDeferred {
		d.dropped += len(p)
		return len(p), nil
	}
	return d.buf.Write(p)
}

// Flush writes all buffered data to w and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}

	if d.dropped > 0 {
		_, err := fmt.Fprintf(w, "(%d bytes of log output discarded)\n", d.dropped)
		d.dropped = 0
		return err
	}
	return nil
}
