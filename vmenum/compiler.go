package vmenum

// CompilerPhaseType only exists in builds with the C2 compiler (see HasC2).
type CompilerPhaseType uint32

var compilerPhaseTypeNames = [...]string{
	"Before StringOpts",
	"After StringOpts",
	"Before RemoveUseless",
	"After Parsing",
	"Optimize finished",
	"Iter GVN 1",
	"Incremental Inline",
	"Before Beautify Loops",
	"After Beautify Loops",
	"Before CCP 1",
	"CCP 1",
	"Iter GVN 2",
	"PhaseIdealLoop 1",
	"PhaseIdealLoop 2",
	"PhaseIdealLoop 3",
	"PhaseIdealLoop iterations",
	"Optimize finished",
	"Before Matching",
	"After Matching",
	"Global code motion",
	"Final Code",
	"After Late Inline",
	"Before Macro Expansion",
	"End",
	"Failure",
	"Debug",
}

const NumCompilerPhaseTypes = uint32(len(compilerPhaseTypeNames))

func (v CompilerPhaseType) String() string {
	return nameOf(compilerPhaseTypeNames[:], uint32(v), "CompilerPhaseType")
}
