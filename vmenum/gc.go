package vmenum

type GCCause uint32

var gcCauseNames = [...]string{
	"System.gc()",
	"FullGCAlot",
	"ScavengeAlot",
	"Allocation Profiler",
	"JvmtiEnv ForceGarbageCollection",
	"GCLocker Initiated GC",
	"Heap Inspection Initiated GC",
	"Heap Dump Initiated GC",
	"WhiteBox Initiated Young GC",
	"WhiteBox Initiated Concurrent Mark",
	"WhiteBox Initiated Full GC",
	"Update Allocation Context Stats",
	"Update Allocation Context Stats",
	"No GC",
	"Allocation Failure",
	"Tenured Generation Full",
	"Metadata GC Threshold",
	"CMS Generation Full",
	"CMS Initial Mark",
	"CMS Final Remark",
	"CMS Concurrent Mark",
	"Old Generation Expanded On Last Scavenge",
	"Old Generation Too Full To Scavenge",
	"Ergonomics",
	"G1 Evacuation Pause",
	"G1 Humongous Allocation",
	"Last ditch collection",
	"Diagnostic Command",
	"Unknown GCCause",
}

const NumGCCauses = uint32(len(gcCauseNames))

func (v GCCause) String() string {
	return nameOf(gcCauseNames[:], uint32(v), "GCCause")
}

type GCName uint32

const (
	GCParallelOld GCName = iota
	GCSerialOld
	GCPSMarkSweep
	GCParallelScavenge
	GCDefNew
	GCParNew
	GCG1New
	GCConcurrentMarkSweep
	GCG1Old

	NumGCNames = 9
)

var gcNameNames = [NumGCNames]string{
	GCParallelOld:         "ParallelOld",
	GCSerialOld:           "SerialOld",
	GCPSMarkSweep:         "PSMarkSweep",
	GCParallelScavenge:    "ParallelScavenge",
	GCDefNew:              "DefNew",
	GCParNew:              "ParNew",
	GCG1New:               "G1New",
	GCConcurrentMarkSweep: "ConcurrentMarkSweep",
	GCG1Old:               "G1Old",
}

func (v GCName) String() string {
	return nameOf(gcNameNames[:], uint32(v), "GCName")
}

type G1HeapRegionType uint32

const (
	G1RegionFree G1HeapRegionType = iota
	G1RegionEden
	G1RegionSurvivor
	G1RegionStartsHumongous
	G1RegionContinuesHumongous
	G1RegionOld

	NumG1HeapRegionTypes = 6
)

var g1HeapRegionTypeNames = [NumG1HeapRegionTypes]string{
	G1RegionFree:               "Free",
	G1RegionEden:               "Eden",
	G1RegionSurvivor:           "Survivor",
	G1RegionStartsHumongous:    "Starts Humongous",
	G1RegionContinuesHumongous: "Continues Humongous",
	G1RegionOld:                "Old",
}

func (v G1HeapRegionType) String() string {
	return nameOf(g1HeapRegionTypeNames[:], uint32(v), "G1HeapRegionType")
}

// G1YCType only exists in builds with the G1 collector (see HasG1).
type G1YCType uint32

const (
	G1YCNormal G1YCType = iota
	G1YCInitialMark
	G1YCDuringMark
	G1YCMixed

	NumG1YCTypes = 4
)

var g1YCTypeNames = [NumG1YCTypes]string{
	G1YCNormal:      "Normal",
	G1YCInitialMark: "Initial Mark",
	G1YCDuringMark:  "During Mark",
	G1YCMixed:       "Mixed",
}

func (v G1YCType) String() string {
	return nameOf(g1YCTypeNames[:], uint32(v), "G1YCType")
}

type MetaspaceObjectType uint32

var metaspaceObjectTypeNames = [...]string{
	"Class",
	"Symbol",
	"TypeArrayU1",
	"TypeArrayU2",
	"TypeArrayU4",
	"TypeArrayU8",
	"TypeArrayOther",
	"Method",
	"ConstMethod",
	"MethodData",
	"ConstantPool",
	"ConstantPoolCache",
	"Annotation",
	"MethodCounters",
}

const NumMetaspaceObjectTypes = uint32(len(metaspaceObjectTypeNames))

func (v MetaspaceObjectType) String() string {
	return nameOf(metaspaceObjectTypeNames[:], uint32(v), "MetaspaceObjectType")
}
