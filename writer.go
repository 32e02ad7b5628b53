package ckpt

import (
	"io"
)

// Position identifies one region returned by Reserve. It stays valid until
// the region is rolled back or the writer is Reset, even if a later
// reservation lands on the same offset.
type Position struct {
	w   *Writer
	id  uint64
	off int
}

// Offset is the start of the reserved region.
func (p Position) Offset() int {
	return p.off
}

// Context is a snapshot of a Writer's cursor. Restoring it rewinds the
// cursor, logically discarding everything written since.
type Context struct {
	w      *Writer
	epoch  uint32
	cursor int
}

// Offset is the cursor position captured by the context.
func (c Context) Offset() int {
	return c.cursor
}

type reservation struct {
	id   uint64
	off  int
	size int
}

// Writer is the append-only byte sink of one checkpoint. It is not safe for
// concurrent use.
//
// The cursor is len(Bytes()). Rewinding (SetContext) only moves the cursor
// back; buffer capacity is kept and reused by later writes.
type Writer struct {
	buf      []byte
	reserved []reservation
	epoch    uint32
	lastID   uint64
}

var _ io.Writer = (*Writer)(nil)

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the bytes written so far. The slice is only valid until the
// next write or rewind.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the cursor position.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Cap() int {
	return cap(w.buf)
}

// Reset empties the writer for a new checkpoint. Contexts and positions
// obtained before Reset become invalid.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.reserved = w.reserved[:0]
	w.epoch++
}

// EnsureExtra makes room for n more bytes without moving the cursor.
func (w *Writer) EnsureExtra(n int) {
	w.buf = ensureCapacity(w.buf, len(w.buf)+n)
}

// Reserve allocates size bytes at the cursor. The content of the region is
// undefined until patched.
func (w *Writer) Reserve(size int) Position {
	if size <= 0 {
		fatalf("Reserve", "invalid size %d", size)
	}
	var off int
	off, w.buf = grow(w.buf, size)
	w.lastID++
	w.reserved = append(w.reserved, reservation{w.lastID, off, size})
	return Position{w, w.lastID, off}
}

func (w *Writer) Write(b []byte) (int, error) {
	w.buf = appendRaw(w.buf, b)
	return len(b), nil
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = appendUint8(w.buf, v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func (w *Writer) WriteU32(v uint32) {
	w.buf = appendUint32(w.buf, v)
}

func (w *Writer) WriteU64(v uint64) {
	w.buf = appendUint64(w.buf, v)
}

func (w *Writer) WriteI64(v int64) {
	w.buf = appendUint64(w.buf, uint64(v))
}

// WriteOrdinal writes the key of a static table entry.
func (w *Writer) WriteOrdinal(v uint32) {
	w.WriteU32(v)
}

// WriteKey writes a stable key (e.g. a thread trace id).
func (w *Writer) WriteKey(v uint64) {
	w.WriteU64(v)
}

// WriteString writes a non-null string. The empty string has its own
// encoding, distinct from null.
func (w *Writer) WriteString(v string) {
	w.buf = appendString(w.buf, v)
}

func (w *Writer) WriteNullString() {
	w.WriteU8(StringNull)
}

// WriteStringPtr writes *v, or null if v is nil.
func (w *Writer) WriteStringPtr(v *string) {
	if v == nil {
		w.WriteNullString()
	} else {
		w.WriteString(*v)
	}
}

// WriteCount appends the count of a pool whose size is known up front.
func (w *Writer) WriteCount(n uint32) {
	w.WriteU32(n)
}

// WriteCountAt patches the count slot at pos, which must have been returned
// by Reserve on this writer and must not have been rolled back. The cursor
// does not move.
func (w *Writer) WriteCountAt(n uint32, pos Position) {
	if pos.w != w {
		fatalf("WriteCountAt", "position %d was not reserved on this writer", pos.off)
	}
	r, ok := w.findReservation(pos.id)
	if !ok {
		fatalf("WriteCountAt", "position %d was rolled back or predates Reset", pos.off)
	}
	if r.size < 4 {
		fatalf("WriteCountAt", "position %d reserves %d bytes, count needs 4", pos.off, r.size)
	}
	putUint32(w.buf[r.off:r.off+4], n)
}

func (w *Writer) findReservation(id uint64) (reservation, bool) {
	for i := len(w.reserved) - 1; i >= 0; i-- {
		r := w.reserved[i]
		if r.id == id {
			return r, r.off+r.size <= len(w.buf)
		}
	}
	return reservation{}, false
}

// Context captures the cursor.
func (w *Writer) Context() Context {
	return Context{w: w, epoch: w.epoch, cursor: len(w.buf)}
}

// SetContext rewinds the cursor to ctx, discarding everything written since
// ctx was captured, including reservations. Restoring the same context again
// is a no-op. ctx must come from this writer, since its last Reset, and must
// not lie beyond the cursor.
func (w *Writer) SetContext(ctx Context) {
	if ctx.w != w {
		fatalf("SetContext", "context belongs to another writer")
	}
	if ctx.epoch != w.epoch {
		fatalf("SetContext", "context predates Reset")
	}
	if ctx.cursor > len(w.buf) {
		fatalf("SetContext", "context offset %d is beyond the cursor %d", ctx.cursor, len(w.buf))
	}
	w.buf = w.buf[:ctx.cursor]
	for len(w.reserved) > 0 && w.reserved[len(w.reserved)-1].off >= ctx.cursor {
		w.reserved = w.reserved[:len(w.reserved)-1]
	}
}
