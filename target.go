package emit

import "io"

// A Target receives the output of a render call.  Fragments are appended in call order and never read back or
// rewound by the components writing them.
type Target interface {
	// Append adds a fragment to the end of the output.
	Append(str string)

	// Len returns the number of bytes appended so far.
	Len() int

	// Reset discards everything appended so far.
	Reset()

	// Clone returns an independent copy of the target.
	Clone() Target
}

// NewBuffer returns an empty Buffer with the provided capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{make([]byte, 0, capacity)}
}

// A Buffer is the Target used for ordinary rendering; it accumulates HTML in a single growing byte slice.
type Buffer struct {
	buf []byte
}

// Append implements Target.
func (b *Buffer) Append(str string) { b.buf = append(b.buf, str...) }

// Len implements Target.
func (b *Buffer) Len() int { return len(b.buf) }

// Reset implements Target, keeping the allocated capacity.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Clone implements Target.
func (b *Buffer) Clone() Target {
	return &Buffer{append(make([]byte, 0, cap(b.buf)), b.buf...)}
}

// Bytes returns the HTML appended so far.  The slice is only valid until the next Append.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns the HTML appended so far.
func (b *Buffer) String() string { return string(b.buf) }

// WriteTo implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf)
	return int64(n), err
}

// appendEscaped escapes straight into the buffer, avoiding the intermediate string Escape would build.
func (b *Buffer) appendEscaped(str string) { b.buf = appendEscaped(b.buf, str) }

// Discard is a Target that swallows everything appended to it.  It is useful for running a template for its side
// effects.
var Discard Target = discard{}

type discard struct{}

func (discard) Append(string) {}
func (discard) Len() int      { return 0 }
func (discard) Reset()        {}
func (discard) Clone() Target { return Discard }
