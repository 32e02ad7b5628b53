package ckpt_test

import (
	"testing"

	"github.com/andreyvit/ckpt"
	"github.com/andreyvit/ckpt/ckpttest"
	"github.com/andreyvit/ckpt/vmenum"
)

func TestTable_bytes(t *testing.T) {
	w := ckpt.NewWriter(0)
	tbl := &ckpt.Table{
		Name: "GCWhen", Len: vmenum.NumGCWhens,
		NameOf: func(i uint32) string { return vmenum.GCWhen(i).String() },
	}
	tbl.Serialize(w)
	bytesEq(t, w.Bytes(), ckpttest.Expand(`#2 #0 "Before GC" #1 "After GC"`))
}

func TestTable_disabledIsDeclaredEmpty(t *testing.T) {
	w := ckpt.NewWriter(0)
	tbl := &ckpt.Table{
		Name: "G1YCType", Len: vmenum.NumG1YCTypes,
		NameOf:   func(i uint32) string { return "unused" },
		Disabled: true,
	}
	tbl.Serialize(w)
	bytesEq(t, w.Bytes(), ckpttest.Expand("#0"))
}

func TestTable_missingNameIsViolation(t *testing.T) {
	w := ckpt.NewWriter(0)
	tbl := &ckpt.Table{
		Name: "Broken", Len: 3,
		NameOf: func(i uint32) string {
			if i == 1 {
				return ""
			}
			return "x"
		},
	}
	ce := ckpttest.Violation(t, func() { tbl.Serialize(w) })
	if ce.Op != "Serialize" {
		t.Errorf("Op = %q, wanted Serialize", ce.Op)
	}
}

func TestAggregateTable_singleEntry(t *testing.T) {
	w := ckpt.NewWriter(0)
	tbl := ckpt.StandardTables()[ckpt.TypeCodeBlobType]
	tbl.Serialize(w)
	bytesEq(t, w.Bytes(), ckpttest.Expand(`#1 #3 "CodeCache"`))
}

func TestStandardTables(t *testing.T) {
	tables := ckpt.StandardTables()
	tests := []struct {
		id       ckpt.TypeID
		n        uint32
		name     func(i uint32) string
		disabled bool
	}{
		{ckpt.TypeFlagValueOrigin, vmenum.NumFlagValueOrigins, func(i uint32) string { return vmenum.FlagValueOrigin(i).String() }, false},
		{ckpt.TypeInflateCause, vmenum.NumInflateCauses, func(i uint32) string { return vmenum.InflateCause(i).String() }, false},
		{ckpt.TypeGCCause, vmenum.NumGCCauses, func(i uint32) string { return vmenum.GCCause(i).String() }, false},
		{ckpt.TypeGCName, vmenum.NumGCNames, func(i uint32) string { return vmenum.GCName(i).String() }, false},
		{ckpt.TypeGCWhen, vmenum.NumGCWhens, func(i uint32) string { return vmenum.GCWhen(i).String() }, false},
		{ckpt.TypeG1HeapRegionType, vmenum.NumG1HeapRegionTypes, func(i uint32) string { return vmenum.G1HeapRegionType(i).String() }, false},
		{ckpt.TypeGCThresholdUpdater, vmenum.NumGCThresholdUpdaters, func(i uint32) string { return vmenum.GCThresholdUpdater(i).String() }, false},
		{ckpt.TypeMetadataType, vmenum.NumMetadataTypes, func(i uint32) string { return vmenum.MetadataType(i).String() }, false},
		{ckpt.TypeMetaspaceObjectType, vmenum.NumMetaspaceObjectTypes, func(i uint32) string { return vmenum.MetaspaceObjectType(i).String() }, false},
		{ckpt.TypeG1YCType, vmenum.NumG1YCTypes, func(i uint32) string { return vmenum.G1YCType(i).String() }, !vmenum.HasG1},
		{ckpt.TypeReferenceType, vmenum.NumReferenceTypes, func(i uint32) string { return vmenum.ReferenceType(i).String() }, false},
		{ckpt.TypeNarrowOopMode, vmenum.NumNarrowOopModes, func(i uint32) string { return vmenum.NarrowOopMode(i).String() }, false},
		{ckpt.TypeCompilerPhaseType, vmenum.NumCompilerPhaseTypes, func(i uint32) string { return vmenum.CompilerPhaseType(i).String() }, !vmenum.HasC2},
		{ckpt.TypeVMOperationType, vmenum.NumVMOperationTypes, func(i uint32) string { return vmenum.VMOperationType(i).String() }, false},
		{ckpt.TypeThreadState, vmenum.NumThreadStates, func(i uint32) string { return vmenum.ThreadState(i).String() }, false},
	}
	if len(tables) != len(tests)+1 {
		t.Fatalf("len(StandardTables()) = %d, wanted %d", len(tables), len(tests)+1)
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			s := tables[tt.id]
			if s == nil {
				t.Fatalf("no table")
			}
			w := ckpt.NewWriter(0)
			w.WriteU8(0x77)
			s.Serialize(w)

			r := ckpttest.NewReader(t, w.Bytes())
			r.U8()
			entries := r.TablePool()
			r.End()

			if tt.disabled {
				if len(entries) != 0 {
					t.Fatalf("disabled table has %d entries", len(entries))
				}
				return
			}
			if uint32(len(entries)) != tt.n {
				t.Fatalf("count = %d, wanted %d", len(entries), tt.n)
			}
			for i, e := range entries {
				if e.Ordinal != uint32(i) {
					t.Errorf("entry %d: ordinal = %d", i, e.Ordinal)
				}
				if e.Name != tt.name(uint32(i)) {
					t.Errorf("entry %d: name = %q, wanted %q", i, e.Name, tt.name(uint32(i)))
				}
			}
		})
	}
}

func TestStandardTables_neverRollBack(t *testing.T) {
	for id, s := range ckpt.StandardTables() {
		w := ckpt.NewWriter(0)
		s.Serialize(w)
		if w.Len() < 4 {
			t.Errorf("%v: wrote %d bytes, wanted a declared pool", id, w.Len())
		}
	}
}

func TestSet(t *testing.T) {
	set := ckpt.NewSet()
	a := ckpt.SerializerFunc(func(w *ckpt.Writer) { w.WriteCount(0) })
	set.Register(ckpt.TypeGCWhen, a)
	set.Register(ckpt.TypeFlagValueOrigin, a)

	if set.Len() != 2 {
		t.Fatalf("Len = %d, wanted 2", set.Len())
	}
	ids := set.IDs()
	if len(ids) != 2 || ids[0] != ckpt.TypeFlagValueOrigin || ids[1] != ckpt.TypeGCWhen {
		t.Fatalf("IDs = %v", ids)
	}
	if set.Lookup(ckpt.TypeGCName) != nil {
		t.Fatalf("Lookup of unregistered id is not nil")
	}
	ckpttest.Violation(t, func() { set.Register(ckpt.TypeGCWhen, a) })
	ckpttest.Violation(t, func() { set.Register(ckpt.TypeGCName, nil) })
}
