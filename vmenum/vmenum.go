// Package vmenum holds the fixed enumerations of the runtime whose
// ordinal-to-name tables are written into checkpoints.
//
// Every enumeration is a dense ordinal space [0, NumXxx). String panics for
// an ordinal outside that space: such an ordinal can only come from a bug in
// the caller.
package vmenum

import "fmt"

func nameOf(names []string, ordinal uint32, family string) string {
	if uint64(ordinal) >= uint64(len(names)) {
		panic(fmt.Errorf("vmenum: %s ordinal %d out of range [0, %d)", family, ordinal, len(names)))
	}
	return names[ordinal]
}

type FlagValueOrigin uint32

const (
	FlagOriginDefault FlagValueOrigin = iota
	FlagOriginCommandLine
	FlagOriginEnvironVar
	FlagOriginConfigFile
	FlagOriginManagement
	FlagOriginErgonomic
	FlagOriginAttachOnDemand
	FlagOriginInternal

	NumFlagValueOrigins = 8
)

var flagValueOriginNames = [NumFlagValueOrigins]string{
	FlagOriginDefault:        "Default",
	FlagOriginCommandLine:    "Command line",
	FlagOriginEnvironVar:     "Environment variable",
	FlagOriginConfigFile:     "Config file",
	FlagOriginManagement:     "Management",
	FlagOriginErgonomic:      "Ergonomic",
	FlagOriginAttachOnDemand: "Attach on demand",
	FlagOriginInternal:       "Internal",
}

func (v FlagValueOrigin) String() string {
	return nameOf(flagValueOriginNames[:], uint32(v), "FlagValueOrigin")
}

type InflateCause uint32

const (
	InflateCauseVMInternal InflateCause = iota
	InflateCauseMonitorEnter
	InflateCauseWait
	InflateCauseNotify
	InflateCauseHashCode
	InflateCauseJNIEnter
	InflateCauseJNIExit

	NumInflateCauses = 7
)

var inflateCauseNames = [NumInflateCauses]string{
	InflateCauseVMInternal:   "VM Internal",
	InflateCauseMonitorEnter: "Monitor Enter",
	InflateCauseWait:         "Monitor Wait",
	InflateCauseNotify:       "Monitor Notify",
	InflateCauseHashCode:     "HashCode",
	InflateCauseJNIEnter:     "JNI Monitor Enter",
	InflateCauseJNIExit:      "JNI Monitor Exit",
}

func (v InflateCause) String() string {
	return nameOf(inflateCauseNames[:], uint32(v), "InflateCause")
}

type GCWhen uint32

const (
	GCWhenBefore GCWhen = iota
	GCWhenAfter

	NumGCWhens = 2
)

var gcWhenNames = [NumGCWhens]string{
	GCWhenBefore: "Before GC",
	GCWhenAfter:  "After GC",
}

func (v GCWhen) String() string {
	return nameOf(gcWhenNames[:], uint32(v), "GCWhen")
}

type GCThresholdUpdater uint32

const (
	GCThresholdComputeNewSize GCThresholdUpdater = iota
	GCThresholdExpandAndAllocate

	NumGCThresholdUpdaters = 2
)

var gcThresholdUpdaterNames = [NumGCThresholdUpdaters]string{
	GCThresholdComputeNewSize:    "compute_new_size",
	GCThresholdExpandAndAllocate: "expand_and_allocate",
}

func (v GCThresholdUpdater) String() string {
	return nameOf(gcThresholdUpdaterNames[:], uint32(v), "GCThresholdUpdater")
}

type MetadataType uint32

const (
	MetadataClass MetadataType = iota
	MetadataNonClass

	NumMetadataTypes = 2
)

var metadataTypeNames = [NumMetadataTypes]string{
	MetadataClass:    "Class",
	MetadataNonClass: "Metadata",
}

func (v MetadataType) String() string {
	return nameOf(metadataTypeNames[:], uint32(v), "MetadataType")
}

type ReferenceType uint32

const (
	RefNone ReferenceType = iota
	RefOther
	RefSoft
	RefWeak
	RefFinal
	RefPhantom

	NumReferenceTypes = 6
)

var referenceTypeNames = [NumReferenceTypes]string{
	RefNone:    "None reference",
	RefOther:   "Other reference",
	RefSoft:    "Soft reference",
	RefWeak:    "Weak reference",
	RefFinal:   "Final reference",
	RefPhantom: "Phantom reference",
}

func (v ReferenceType) String() string {
	return nameOf(referenceTypeNames[:], uint32(v), "ReferenceType")
}

type NarrowOopMode uint32

const (
	NarrowOopUnscaled NarrowOopMode = iota
	NarrowOopZeroBased
	NarrowOopHeapBased

	NumNarrowOopModes = 3
)

var narrowOopModeNames = [NumNarrowOopModes]string{
	NarrowOopUnscaled:  "32-bits Oops",
	NarrowOopZeroBased: "Zero based",
	NarrowOopHeapBased: "Non-zero based",
}

func (v NarrowOopMode) String() string {
	return nameOf(narrowOopModeNames[:], uint32(v), "NarrowOopMode")
}

// CodeBlobType enumerates the code heaps. CodeBlobAll is the aggregate of
// all of them and is the only code blob type written into checkpoints.
type CodeBlobType uint32

const (
	CodeBlobMethodNonProfiled CodeBlobType = iota
	CodeBlobMethodProfiled
	CodeBlobNonNMethod
	CodeBlobAll

	NumCodeBlobTypes = 4
)

var codeBlobTypeNames = [NumCodeBlobTypes]string{
	CodeBlobMethodNonProfiled: "CodeHeap 'non-profiled nmethods'",
	CodeBlobMethodProfiled:    "CodeHeap 'profiled nmethods'",
	CodeBlobNonNMethod:        "CodeHeap 'non-nmethods'",
	CodeBlobAll:               "CodeCache",
}

func (v CodeBlobType) String() string {
	return nameOf(codeBlobTypeNames[:], uint32(v), "CodeBlobType")
}

type ThreadState uint32

const (
	ThreadStateNew ThreadState = iota
	ThreadStateTerminated
	ThreadStateRunnable
	ThreadStateSleeping
	ThreadStateInObjectWait
	ThreadStateInObjectWaitTimed
	ThreadStateParked
	ThreadStateParkedTimed
	ThreadStateBlockedOnMonitorEnter

	NumThreadStates = 9
)

var threadStateNames = [NumThreadStates]string{
	ThreadStateNew:                   "STATE_NEW",
	ThreadStateTerminated:            "STATE_TERMINATED",
	ThreadStateRunnable:              "STATE_RUNNABLE",
	ThreadStateSleeping:              "STATE_SLEEPING",
	ThreadStateInObjectWait:          "STATE_IN_OBJECT_WAIT",
	ThreadStateInObjectWaitTimed:     "STATE_IN_OBJECT_WAIT_TIMED",
	ThreadStateParked:                "STATE_PARKED",
	ThreadStateParkedTimed:           "STATE_PARKED_TIMED",
	ThreadStateBlockedOnMonitorEnter: "STATE_BLOCKED_ON_MONITOR_ENTER",
}

func (v ThreadState) String() string {
	return nameOf(threadStateNames[:], uint32(v), "ThreadState")
}
