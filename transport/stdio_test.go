package transport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLineNext(t *testing.T) {
	t.Parallel()

	input := "\n{\"id\":1}\n   \n{\"id\":2}\n"
	line := NewLine(strings.NewReader(input), io.Discard)

	first, err := line.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != `{"id":1}` {
		t.Fatalf("first unit: got %q", first)
	}

	second, err := line.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != `{"id":2}` {
		t.Fatalf("second unit: got %q", second)
	}

	if _, err := line.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestLineNextTrimsSurroundingSpace(t *testing.T) {
	t.Parallel()

	line := NewLine(strings.NewReader("  {\"id\":1}  \n"), io.Discard)
	unit, err := line.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit != `{"id":1}` {
		t.Fatalf("got %q", unit)
	}
}

func TestLineNextHandlesLargeEnvelopes(t *testing.T) {
	t.Parallel()

	// Well past any internal buffer size; a multi-megabyte envelope must
	// arrive intact rather than failing the session.
	big := `{"text":"` + strings.Repeat("a", 3<<20) + `"}`
	line := NewLine(strings.NewReader(big+"\n{\"id\":2}\n"), io.Discard)

	unit, err := line.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit != big {
		t.Fatalf("large envelope mangled: got %d bytes, want %d", len(unit), len(big))
	}

	next, err := line.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != `{"id":2}` {
		t.Fatalf("following unit: got %q", next)
	}
}

func TestLineNextReturnsFinalUnterminatedLine(t *testing.T) {
	t.Parallel()

	line := NewLine(strings.NewReader(`{"id":1}`), io.Discard)
	unit, err := line.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit != `{"id":1}` {
		t.Fatalf("got %q", unit)
	}
	if _, err := line.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestLineSendFlushesEachUnit(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	line := NewLine(strings.NewReader(""), &out)

	if err := line.Send(`{"id":1}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The unit must be visible immediately, not held in a buffer.
	if out.String() != "{\"id\":1}\n" {
		t.Fatalf("after first send: %q", out.String())
	}

	if err := line.Send(`{"id":2}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "{\"id\":1}\n{\"id\":2}\n" {
		t.Fatalf("after second send: %q", out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func TestLineSendSurfacesWriteError(t *testing.T) {
	t.Parallel()

	line := NewLine(strings.NewReader(""), failingWriter{})
	if err := line.Send("x"); err == nil {
		t.Fatalf("expected write error")
	}
}
