package ckpt

import (
	"fmt"
	"slices"
)

// TypeID identifies a constant type. Every pool in a checkpoint is written
// for one type id.
type TypeID uint32

const (
	TypeFlagValueOrigin TypeID = iota + 1
	TypeInflateCause
	TypeGCCause
	TypeGCName
	TypeGCWhen
	TypeG1HeapRegionType
	TypeGCThresholdUpdater
	TypeMetadataType
	TypeMetaspaceObjectType
	TypeG1YCType
	TypeReferenceType
	TypeNarrowOopMode
	TypeCompilerPhaseType
	TypeCodeBlobType
	TypeVMOperationType
	TypeThreadState
	TypeThread
	TypeThreadGroup
	TypeThreadSelf
)

var typeNames = []string{
	TypeFlagValueOrigin:     "FlagValueOrigin",
	TypeInflateCause:        "InflateCause",
	TypeGCCause:             "GCCause",
	TypeGCName:              "GCName",
	TypeGCWhen:              "GCWhen",
	TypeG1HeapRegionType:    "G1HeapRegionType",
	TypeGCThresholdUpdater:  "GCThresholdUpdater",
	TypeMetadataType:        "MetadataType",
	TypeMetaspaceObjectType: "MetaspaceObjectType",
	TypeG1YCType:            "G1YCType",
	TypeReferenceType:       "ReferenceType",
	TypeNarrowOopMode:       "NarrowOopMode",
	TypeCompilerPhaseType:   "CompilerPhaseType",
	TypeCodeBlobType:        "CodeBlobType",
	TypeVMOperationType:     "VMOperationType",
	TypeThreadState:         "ThreadState",
	TypeThread:              "Thread",
	TypeThreadGroup:         "ThreadGroup",
	TypeThreadSelf:          "ThreadSelf",
}

func (id TypeID) String() string {
	if int(id) < len(typeNames) && typeNames[id] != "" {
		return typeNames[id]
	}
	return fmt.Sprintf("Type(%d)", uint32(id))
}

// Serializer writes the pool of one constant type.
type Serializer interface {
	Serialize(w *Writer)
}

type SerializerFunc func(w *Writer)

func (f SerializerFunc) Serialize(w *Writer) {
	f(w)
}

type FieldKind uint8

const (
	FieldOrdinal FieldKind = iota + 1
	FieldKey
	FieldU64
	FieldString
	FieldGroupChain
)

var fieldKindNames = []string{
	FieldOrdinal:    "ordinal",
	FieldKey:        "key",
	FieldU64:        "u64",
	FieldString:     "string",
	FieldGroupChain: "group-chain",
}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindNames) && fieldKindNames[k] != "" {
		return fieldKindNames[k]
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// Field describes one field of a pool entry.
type Field struct {
	Name string    `msgpack:"n"`
	Kind FieldKind `msgpack:"k"`
}

// Descriptor describes the entry layout of a pool.
type Descriptor struct {
	Name   string  `msgpack:"n"`
	Fields []Field `msgpack:"f"`
}

// Describer is implemented by serializers that can describe their entries.
type Describer interface {
	Describe() Descriptor
}

var (
	ordinalFields = []Field{{"ordinal", FieldOrdinal}, {"name", FieldString}}

	threadFields = []Field{
		{"id", FieldKey},
		{"name", FieldString},
		{"osThreadId", FieldU64},
		{"managedName", FieldString},
		{"managedThreadId", FieldU64},
		{"group", FieldU64},
	}

	threadGroupFields = []Field{{"id", FieldKey}, {"parent", FieldU64}, {"name", FieldString}}
)

// Set maps type ids to their serializers. It does not impose any order;
// the orchestrator decides which ids to write and when.
type Set struct {
	byID map[TypeID]Serializer
}

func NewSet() *Set {
	return &Set{byID: make(map[TypeID]Serializer)}
}

// Register adds s under id. Registering an id twice is a programming error.
func (set *Set) Register(id TypeID, s Serializer) {
	if s == nil {
		fatalf("Register", "nil serializer for %v", id)
	}
	if _, dup := set.byID[id]; dup {
		fatalf("Register", "duplicate serializer for %v", id)
	}
	set.byID[id] = s
}

func (set *Set) Lookup(id TypeID) Serializer {
	return set.byID[id]
}

// IDs returns the registered ids in ascending order.
func (set *Set) IDs() []TypeID {
	ids := make([]TypeID, 0, len(set.byID))
	for id := range set.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (set *Set) Len() int {
	return len(set.byID)
}
