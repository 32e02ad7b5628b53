package ckpttest

import (
	"encoding/binary"
	"testing"

	"github.com/andreyvit/ckpt"
)

// Reader decodes pools for assertions. Malformed data fails the test.
type Reader struct {
	T    testing.TB
	Orig []byte
	Buf  []byte
}

func NewReader(t testing.TB, data []byte) *Reader {
	return &Reader{T: t, Orig: data, Buf: data}
}

func (r *Reader) Off() int {
	return len(r.Orig) - len(r.Buf)
}

func (r *Reader) Remaining() int {
	return len(r.Buf)
}

func (r *Reader) fail(format string, args ...any) {
	r.T.Helper()
	args = append(args, r.Off(), ckpt.HexDump(r.Orig, r.Off()))
	r.T.Fatalf("** "+format+" at offset %d:\n%v", args...)
}

func (r *Reader) Raw(n int) []byte {
	r.T.Helper()
	if len(r.Buf) < n {
		r.fail("not enough data: %d bytes remaining, %d wanted", len(r.Buf), n)
	}
	v := r.Buf[:n]
	r.Buf = r.Buf[n:]
	return v
}

func (r *Reader) U8() uint8 {
	r.T.Helper()
	return r.Raw(1)[0]
}

func (r *Reader) U32() uint32 {
	r.T.Helper()
	return binary.BigEndian.Uint32(r.Raw(4))
}

func (r *Reader) U64() uint64 {
	r.T.Helper()
	return binary.BigEndian.Uint64(r.Raw(8))
}

// Str returns the decoded string, or nil for the null string.
func (r *Reader) Str() *string {
	r.T.Helper()
	switch tag := r.U8(); tag {
	case ckpt.StringNull:
		return nil
	case ckpt.StringEmpty:
		s := ""
		return &s
	case ckpt.StringUTF8:
		n, vn := binary.Uvarint(r.Buf)
		if vn <= 0 {
			r.fail("invalid uvarint")
		}
		r.Buf = r.Buf[vn:]
		s := string(r.Raw(int(n)))
		return &s
	default:
		r.fail("invalid string encoding %d", tag)
		return nil
	}
}

// NonNullStr is Str for strings that must not be null.
func (r *Reader) NonNullStr() string {
	r.T.Helper()
	s := r.Str()
	if s == nil {
		r.fail("unexpected null string")
	}
	return *s
}

type TableEntry struct {
	Ordinal uint32
	Name    string
}

func (r *Reader) TablePool() []TableEntry {
	r.T.Helper()
	n := r.U32()
	entries := make([]TableEntry, 0, n)
	for range n {
		ord := r.U32()
		entries = append(entries, TableEntry{ord, r.NonNullStr()})
	}
	return entries
}

type ThreadEntry struct {
	ID          uint64
	Name        string
	OSThreadID  uint64
	ManagedName *string
	ManagedID   uint64
	GroupID     uint64
}

func (r *Reader) Thread() ThreadEntry {
	r.T.Helper()
	var e ThreadEntry
	e.ID = r.U64()
	e.Name = r.NonNullStr()
	e.OSThreadID = r.U64()
	e.ManagedName = r.Str()
	e.ManagedID = r.U64()
	e.GroupID = r.U64()
	return e
}

func (r *Reader) ThreadPool() []ThreadEntry {
	r.T.Helper()
	n := r.U32()
	entries := make([]ThreadEntry, 0, n)
	for range n {
		entries = append(entries, r.Thread())
	}
	return entries
}

type GroupEntry struct {
	ID       uint64
	ParentID uint64
	Name     string
}

func (r *Reader) Group() GroupEntry {
	r.T.Helper()
	id := r.U64()
	parent := r.U64()
	return GroupEntry{id, parent, r.NonNullStr()}
}

// Groups reads n group entries.
func (r *Reader) Groups(n uint32) []GroupEntry {
	r.T.Helper()
	entries := make([]GroupEntry, 0, n)
	for range n {
		entries = append(entries, r.Group())
	}
	return entries
}

func (r *Reader) GroupPool() []GroupEntry {
	r.T.Helper()
	return r.Groups(r.U32())
}

// GroupChain reads the depth-prefixed group chain of a self thread entry.
func (r *Reader) GroupChain() []GroupEntry {
	r.T.Helper()
	return r.Groups(r.U32())
}

// End fails the test if any bytes remain.
func (r *Reader) End() {
	r.T.Helper()
	if len(r.Buf) != 0 {
		r.fail("%d trailing bytes", len(r.Buf))
	}
}
