package ckpt_test

import (
	"strings"
	"testing"

	"github.com/andreyvit/ckpt"
	"github.com/andreyvit/ckpt/ckpttest"
)

var bytesEq = ckpttest.BytesEq

func TestWriter_scalarsAndStrings(t *testing.T) {
	w := ckpt.NewWriter(0)
	w.WriteU8(0xAB)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteU32(0x01020304)
	w.WriteU64(0x1122334455667788)
	w.WriteI64(-1)
	w.WriteString("hi")
	w.WriteString("")
	w.WriteNullString()
	s := "x"
	w.WriteStringPtr(&s)
	w.WriteStringPtr(nil)

	bytesEq(t, w.Bytes(), ckpttest.Expand(
		"ab 01 00",
		"01020304",
		"11_22_33_44_55_66_77_88",
		"ff*8",
		`"hi" "" nil "x" nil`,
	))
}

func TestWriter_longStringLength(t *testing.T) {
	w := ckpt.NewWriter(0)
	long := strings.Repeat("z", 200)
	w.WriteString(long)
	bytesEq(t, w.Bytes(), ckpttest.Expand("03 c8_01 '"+long))
}

func TestWriter_reserveAndPatch(t *testing.T) {
	w := ckpt.NewWriter(0)
	w.WriteU8(0xEE)
	pos := w.Reserve(4)
	if pos.Offset() != 1 {
		t.Fatalf("Reserve at %d, wanted 1", pos.Offset())
	}
	w.WriteOrdinal(0)
	w.WriteString("a")
	w.WriteOrdinal(1)
	w.WriteString("b")

	before := w.Len()
	w.WriteCountAt(2, pos)
	if w.Len() != before {
		t.Fatalf("WriteCountAt moved the cursor from %d to %d", before, w.Len())
	}
	bytesEq(t, w.Bytes(), ckpttest.Expand(`ee #2 #0 "a" #1 "b"`))

	w.WriteCountAt(3, pos)
	bytesEq(t, w.Bytes()[1:5], ckpttest.Expand("#3"))
}

func TestWriter_rollback(t *testing.T) {
	w := ckpt.NewWriter(0)
	w.WriteString("keep")
	ctx := w.Context()
	pos := w.Reserve(4)
	for i := range 100 {
		w.WriteKey(uint64(i))
	}
	capBefore := w.Cap()

	w.SetContext(ctx)
	if w.Len() != ctx.Offset() {
		t.Fatalf("Len after rollback = %d, wanted %d", w.Len(), ctx.Offset())
	}
	if w.Cap() != capBefore {
		t.Fatalf("Cap after rollback = %d, wanted %d (capacity is kept)", w.Cap(), capBefore)
	}
	bytesEq(t, w.Bytes(), ckpttest.Expand(`"keep"`))

	// idempotent
	w.SetContext(ctx)
	if w.Len() != ctx.Offset() {
		t.Fatalf("Len after second rollback = %d, wanted %d", w.Len(), ctx.Offset())
	}
	if after := w.Context(); after != ctx {
		t.Fatalf("Context after rollback = %+v, wanted %+v", after, ctx)
	}

	ce := ckpttest.Violation(t, func() { w.WriteCountAt(1, pos) })
	if ce.Op != "WriteCountAt" {
		t.Errorf("Op = %q, wanted WriteCountAt", ce.Op)
	}

	// rewritten region is usable again
	pos2 := w.Reserve(4)
	w.WriteKey(9)
	w.WriteCountAt(1, pos2)
	bytesEq(t, w.Bytes(), ckpttest.Expand(`"keep" #1 ##9`))
}

func TestWriter_nestedContexts(t *testing.T) {
	w := ckpt.NewWriter(0)
	outer := w.Context()
	outerPos := w.Reserve(4)
	w.WriteU32(1)
	inner := w.Context()
	w.Reserve(4)
	w.WriteU32(2)

	w.SetContext(inner)
	w.WriteCountAt(7, outerPos)
	bytesEq(t, w.Bytes(), ckpttest.Expand("#7 #1"))

	w.SetContext(outer)
	if w.Len() != 0 {
		t.Fatalf("Len = %d, wanted 0", w.Len())
	}
	ckpttest.Violation(t, func() { w.SetContext(inner) })
}

func TestWriter_contractViolations(t *testing.T) {
	tests := []struct {
		name string
		f    func(w, other *ckpt.Writer)
		op   string
	}{
		{"patch unreserved position", func(w, _ *ckpt.Writer) {
			w.WriteU32(0)
			w.WriteCountAt(1, ckpt.Position{})
		}, "WriteCountAt"},
		{"patch narrow reservation", func(w, _ *ckpt.Writer) {
			pos := w.Reserve(2)
			w.WriteCountAt(1, pos)
		}, "WriteCountAt"},
		{"patch reservation of another writer", func(w, other *ckpt.Writer) {
			w.Reserve(4)
			pos := other.Reserve(4)
			w.WriteCountAt(1, pos)
		}, "WriteCountAt"},
		{"patch rolled back reservation at a reused offset", func(w, _ *ckpt.Writer) {
			ctx := w.Context()
			pos := w.Reserve(4)
			w.SetContext(ctx)
			w.Reserve(4)
			w.WriteCountAt(1, pos)
		}, "WriteCountAt"},
		{"patch reservation from before Reset", func(w, _ *ckpt.Writer) {
			pos := w.Reserve(4)
			w.Reset()
			w.Reserve(4)
			w.WriteCountAt(1, pos)
		}, "WriteCountAt"},
		{"restore context of another writer", func(w, other *ckpt.Writer) {
			w.SetContext(other.Context())
		}, "SetContext"},
		{"restore context from before Reset", func(w, _ *ckpt.Writer) {
			ctx := w.Context()
			w.Reset()
			w.SetContext(ctx)
		}, "SetContext"},
		{"reserve nothing", func(w, _ *ckpt.Writer) {
			w.Reserve(0)
		}, "Reserve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, other := ckpt.NewWriter(0), ckpt.NewWriter(0)
			ce := ckpttest.Violation(t, func() { tt.f(w, other) })
			if ce.Op != tt.op {
				t.Errorf("Op = %q, wanted %q (%v)", ce.Op, tt.op, ce)
			}
		})
	}
}

func TestWriter_reset(t *testing.T) {
	w := ckpt.NewWriter(4)
	w.WriteString("something long enough to grow")
	c := w.Cap()
	w.Reset()
	if w.Len() != 0 || w.Cap() != c {
		t.Fatalf("after Reset: Len = %d, Cap = %d, wanted 0, %d", w.Len(), w.Cap(), c)
	}
	w.EnsureExtra(1000)
	if w.Cap() < 1000 || w.Len() != 0 {
		t.Fatalf("after EnsureExtra: Len = %d, Cap = %d", w.Len(), w.Cap())
	}
}

func TestPool_commitOrRollback(t *testing.T) {
	w := ckpt.NewWriter(0)
	w.WriteU8(0x42)

	empty := ckpt.BeginPool(w)
	if empty.CommitOrRollback() {
		t.Fatalf("empty pool reported as present")
	}
	bytesEq(t, w.Bytes(), ckpttest.Expand("42"))

	p := ckpt.BeginPool(w)
	w.WriteKey(1)
	p.Add()
	w.WriteKey(2)
	p.Add()
	if !p.CommitOrRollback() {
		t.Fatalf("non-empty pool reported as absent")
	}
	bytesEq(t, w.Bytes(), ckpttest.Expand("42 #2 ##1 ##2"))

	ckpttest.Violation(t, func() { p.Commit() })
	ckpttest.Violation(t, func() { p.Rollback() })
}

func TestPool_commitEmpty(t *testing.T) {
	w := ckpt.NewWriter(0)
	p := ckpt.BeginPool(w)
	p.Commit()
	bytesEq(t, w.Bytes(), ckpttest.Expand("#0"))
}
