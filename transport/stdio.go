package transport

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
)

// Line frames messages as newline-terminated JSON over a byte stream, one
// envelope per non-blank line. Lines have no length cap; an envelope is as
// large as the client cares to send. Outbound units are flushed immediately so
// clients see one response per line without buffering delay.
type Line struct {
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewLine creates a line-delimited transport over the given stream pair.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
	}
}

// NewStdio creates a line-delimited transport over the process's standard
// input and output.
func NewStdio() *Line {
	return NewLine(os.Stdin, os.Stdout)
}

// Next returns the next non-blank line. io.EOF marks the end of the stream.
func (l *Line) Next() (string, error) {
	for {
		line, err := l.reader.ReadString('\n')
		// A final line without a trailing newline arrives together with EOF.
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", err
		}
	}
}

// Send writes one unit as a line and flushes it.
func (l *Line) Send(unit string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.writer.WriteString(unit); err != nil {
		return err
	}
	if err := l.writer.WriteByte('\n'); err != nil {
		return err
	}
	return l.writer.Flush()
}

// Close is a no-op; the process owns the standard streams.
func (l *Line) Close() error { return nil }
