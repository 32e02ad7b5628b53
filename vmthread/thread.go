// Package vmthread models the live threads of the runtime: managed threads
// (language-level threads with a managed id and a thread group) and native
// threads (runtime-internal OS threads).
//
// Every thread gets a trace id from its Registry when it starts. Trace ids
// start at 1, are unique for the lifetime of the process and are never reused.
//
// Each thread owns a lockrank.Context. Methods that take a caller *Thread
// acquire locks on behalf of that caller; a nil caller locks without rank
// bookkeeping.
package vmthread

import (
	"fmt"
	"sync/atomic"

	"github.com/andreyvit/ckpt/lockrank"
)

type Thread struct {
	traceID   uint64
	osID      uint64
	managed   bool
	managedID uint64
	group     *Group
	name      atomic.Pointer[string]
	lockCtx   *lockrank.Context
}

// ThreadSpec describes a thread being started.
type ThreadSpec struct {
	// Name is the display name. An empty name means the name is unavailable.
	Name string

	OSID uint64

	Managed   bool
	ManagedID uint64
	Group     *Group
}

func (t *Thread) TraceID() uint64 {
	return t.traceID
}

func (t *Thread) OSThreadID() uint64 {
	return t.osID
}

// Name returns the display name, or false if the thread has none.
func (t *Thread) Name() (string, bool) {
	p := t.name.Load()
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

func (t *Thread) IsManaged() bool {
	return t.managed
}

// ManagedID returns the language-level thread id, 0 for native threads.
func (t *Thread) ManagedID() uint64 {
	return t.managedID
}

// Group returns the thread group of a managed thread, nil for native threads.
func (t *Thread) Group() *Group {
	return t.group
}

func (t *Thread) LockContext() *lockrank.Context {
	if t == nil {
		return nil
	}
	return t.lockCtx
}

func (t *Thread) String() string {
	name, _ := t.Name()
	if t.managed {
		return fmt.Sprintf("%s#%d(managed %d)", name, t.traceID, t.managedID)
	}
	return fmt.Sprintf("%s#%d(native %d)", name, t.traceID, t.osID)
}
