package procsnap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/maruel/panicparse/v2/stack"
)

type goroutineInfo struct {
	ID     uint64
	Status string

	// Creator is the import path of the function that started the
	// goroutine, empty for goroutines without a "created by" line.
	Creator string
}

// stacks returns runtime.Stack for all goroutines or just the calling one,
// growing the buffer until the dump fits.
func stacks(size int, all bool) []byte {
	buf := make([]byte, size)
	for {
		n := runtime.Stack(buf, all)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, 2*len(buf))
	}
}

// parseStacks extracts goroutines from a runtime.Stack dump. Text that is
// not part of a goroutine trace is ignored.
func parseStacks(dump []byte) ([]goroutineInfo, error) {
	// zero Opts: no GOROOT guessing and no source file reads
	snap, _, err := stack.ScanSnapshot(bytes.NewReader(dump), io.Discard, &stack.Opts{})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("procsnap: parsing stacks: %w", err)
	}
	if snap == nil {
		return nil, nil
	}
	result := make([]goroutineInfo, 0, len(snap.Goroutines))
	for _, g := range snap.Goroutines {
		result = append(result, goroutineInfo{
			ID:      uint64(g.ID),
			Status:  g.State,
			Creator: creatorPackage(&g.Signature),
		})
	}
	return result, nil
}

func creatorPackage(sig *stack.Signature) string {
	if len(sig.CreatedBy.Calls) == 0 {
		return ""
	}
	return sig.CreatedBy.Calls[0].Func.ImportPath
}

// CurrentGoroutineID returns the id of the calling goroutine, taken from its
// own stack trace. It returns 0 if the trace cannot be parsed.
func CurrentGoroutineID() uint64 {
	gs, err := parseStacks(stacks(1024, false))
	if err != nil || len(gs) == 0 {
		return 0
	}
	return gs[0].ID
}
