package vmenum

// VMOperationType enumerates VM operations executed at safepoints. The
// terminating operation is not part of the enumeration.
type VMOperationType uint32

var vmOperationTypeNames = [...]string{
	"Dummy",
	"ThreadStop",
	"ThreadDump",
	"PrintThreads",
	"FindDeadlocks",
	"ForceSafepoint",
	"ForceAsyncSafepoint",
	"Deoptimize",
	"DeoptimizeFrame",
	"DeoptimizeAll",
	"ZombieAll",
	"UnlinkSymbols",
	"Verify",
	"PrintJNI",
	"HeapDumper",
	"DeoptimizeTheWorld",
	"CollectForMetadataAllocation",
	"GC_HeapInspection",
	"GenCollectFull",
	"GenCollectFullConcurrent",
	"GenCollectForAllocation",
	"ParallelGCFailedAllocation",
	"ParallelGCSystemGC",
	"CGC_Operation",
	"CMS_Initial_Mark",
	"CMS_Final_Remark",
	"G1CollectFull",
	"G1CollectForAllocation",
	"G1IncCollectionPause",
	"EnableBiasedLocking",
	"RevokeBias",
	"BulkRevokeBias",
	"PopulateDumpSharedSpace",
	"JNIFunctionTableCopier",
	"RedefineClasses",
	"GetOwnedMonitorInfo",
	"GetObjectMonitorUsage",
	"GetCurrentContendedMonitor",
	"GetStackTrace",
	"GetMultipleStackTraces",
	"GetAllStackTraces",
	"GetThreadListStackTraces",
	"GetFrameCount",
	"GetFrameLocation",
	"ChangeBreakpoints",
	"GetOrSetLocal",
	"GetCurrentLocation",
	"EnterInterpOnlyMode",
	"ChangeSingleStep",
	"HeapWalkOperation",
	"HeapIterateOperation",
	"ReportJavaOutOfMemory",
	"JFRCheckpoint",
	"Exit",
}

const NumVMOperationTypes = uint32(len(vmOperationTypeNames))

func (v VMOperationType) String() string {
	return nameOf(vmOperationTypeNames[:], uint32(v), "VMOperationType")
}
