package csvio

import (
	"encoding/csv"
	"io"
	"sync"
)

// Writer is a mutex-guarded encoding/csv.Writer that flushes after every
// row. Every worker goroutine appends directly to the same output and retry
// files, so each WriteRow call must be an atomic, immediately-durable
// append — there is no batching.
type Writer struct {
	mu sync.Mutex
	w  *csv.Writer
}

// NewWriter wraps dst. The caller owns dst's lifetime (opening/closing the
// underlying file).
func NewWriter(dst io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(dst)}
}

// WriteRow writes one row and flushes before returning.
func (w *Writer) WriteRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.Write(row); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}
