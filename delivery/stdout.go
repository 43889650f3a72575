package delivery

import (
	"context"
	"fmt"
	"io"
)

// Writer prints the digest instead of sending it. Used for dry runs.
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Deliver(ctx context.Context, subject, body string) error {
	if _, err := fmt.Fprintf(w.out, "Subject: %s\n\n%s\n", subject, body); err != nil {
		return fmt.Errorf("stdout: %w", err)
	}
	return nil
}
