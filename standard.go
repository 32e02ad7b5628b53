package ckpt

import (
	"github.com/andreyvit/ckpt/vmenum"
	"github.com/andreyvit/ckpt/vmthread"
)

// DefaultOrder is the order in which Checkpoint.SerializeAll writes the
// standard set when no order is given. The thread pool comes before the
// thread group pool so that the groups it resolves are included.
var DefaultOrder = []TypeID{
	TypeFlagValueOrigin,
	TypeInflateCause,
	TypeGCCause,
	TypeGCName,
	TypeGCWhen,
	TypeG1HeapRegionType,
	TypeGCThresholdUpdater,
	TypeMetadataType,
	TypeMetaspaceObjectType,
	TypeG1YCType,
	TypeReferenceType,
	TypeNarrowOopMode,
	TypeCompilerPhaseType,
	TypeCodeBlobType,
	TypeVMOperationType,
	TypeThreadState,
	TypeThread,
	TypeThreadGroup,
}

// StandardTables returns the static table serializers of every runtime
// enumeration, keyed by type id.
func StandardTables() map[TypeID]Serializer {
	return map[TypeID]Serializer{
		TypeFlagValueOrigin: &Table{
			Name: "FlagValueOrigin", Len: vmenum.NumFlagValueOrigins,
			NameOf: func(i uint32) string { return vmenum.FlagValueOrigin(i).String() },
		},
		TypeInflateCause: &Table{
			Name: "InflateCause", Len: vmenum.NumInflateCauses,
			NameOf: func(i uint32) string { return vmenum.InflateCause(i).String() },
		},
		TypeGCCause: &Table{
			Name: "GCCause", Len: vmenum.NumGCCauses,
			NameOf: func(i uint32) string { return vmenum.GCCause(i).String() },
		},
		TypeGCName: &Table{
			Name: "GCName", Len: vmenum.NumGCNames,
			NameOf: func(i uint32) string { return vmenum.GCName(i).String() },
		},
		TypeGCWhen: &Table{
			Name: "GCWhen", Len: vmenum.NumGCWhens,
			NameOf: func(i uint32) string { return vmenum.GCWhen(i).String() },
		},
		TypeG1HeapRegionType: &Table{
			Name: "G1HeapRegionType", Len: vmenum.NumG1HeapRegionTypes,
			NameOf: func(i uint32) string { return vmenum.G1HeapRegionType(i).String() },
		},
		TypeGCThresholdUpdater: &Table{
			Name: "GCThresholdUpdater", Len: vmenum.NumGCThresholdUpdaters,
			NameOf: func(i uint32) string { return vmenum.GCThresholdUpdater(i).String() },
		},
		TypeMetadataType: &Table{
			Name: "MetadataType", Len: vmenum.NumMetadataTypes,
			NameOf: func(i uint32) string { return vmenum.MetadataType(i).String() },
		},
		TypeMetaspaceObjectType: &Table{
			Name: "MetaspaceObjectType", Len: vmenum.NumMetaspaceObjectTypes,
			NameOf: func(i uint32) string { return vmenum.MetaspaceObjectType(i).String() },
		},
		TypeG1YCType: &Table{
			Name: "G1YCType", Len: vmenum.NumG1YCTypes,
			NameOf:   func(i uint32) string { return vmenum.G1YCType(i).String() },
			Disabled: !vmenum.HasG1,
		},
		TypeReferenceType: &Table{
			Name: "ReferenceType", Len: vmenum.NumReferenceTypes,
			NameOf: func(i uint32) string { return vmenum.ReferenceType(i).String() },
		},
		TypeNarrowOopMode: &Table{
			Name: "NarrowOopMode", Len: vmenum.NumNarrowOopModes,
			NameOf: func(i uint32) string { return vmenum.NarrowOopMode(i).String() },
		},
		TypeCompilerPhaseType: &Table{
			Name: "CompilerPhaseType", Len: vmenum.NumCompilerPhaseTypes,
			NameOf:   func(i uint32) string { return vmenum.CompilerPhaseType(i).String() },
			Disabled: !vmenum.HasC2,
		},
		TypeCodeBlobType: &AggregateTable{
			Name:  "CodeBlobType",
			Key:   uint32(vmenum.CodeBlobAll),
			Label: vmenum.CodeBlobAll.String(),
		},
		TypeVMOperationType: &Table{
			Name: "VMOperationType", Len: vmenum.NumVMOperationTypes,
			NameOf: func(i uint32) string { return vmenum.VMOperationType(i).String() },
		},
		TypeThreadState: &Table{
			Name: "ThreadState", Len: vmenum.NumThreadStates,
			NameOf: func(i uint32) string { return vmenum.ThreadState(i).String() },
		},
	}
}

// StandardSet returns every standard serializer for a checkpoint taken by
// caller: the static tables, the live threads of reg, the thread groups, and
// caller itself under TypeThreadSelf.
func StandardSet(reg *vmthread.Registry, caller *vmthread.Thread) *Set {
	set := NewSet()
	for id, s := range StandardTables() {
		set.Register(id, s)
	}
	set.Register(TypeThread, &ThreadSerializer{Registry: reg, Caller: caller})
	set.Register(TypeThreadGroup, &ThreadGroupSerializer{Registry: reg, Caller: caller})
	set.Register(TypeThreadSelf, &ThreadSelfSerializer{Registry: reg, Thread: caller})
	return set
}
