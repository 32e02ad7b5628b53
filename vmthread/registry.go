package vmthread

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/andreyvit/ckpt/lockrank"
)

type Options struct {
	Context context.Context
	Logger  *slog.Logger
	Verbose bool

	// CheckLockRank turns on lock rank checking for every thread started by
	// the registry, regardless of lockrank.Enabled.
	CheckLockRank bool
}

// Registry is the set of live threads. Managed and native threads are kept
// in two separate lists, each in start order.
type Registry struct {
	context       context.Context
	logger        *slog.Logger
	verbose       bool
	checkLockRank bool

	lastID atomic.Uint64
	groups GroupTable

	lock    lockrank.Mutex
	managed []*Thread
	native  []*Thread
}

func NewRegistry(o Options) *Registry {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	r := &Registry{
		context:       o.Context,
		logger:        o.Logger,
		verbose:       o.Verbose,
		checkLockRank: o.CheckLockRank,
	}
	r.lock.Init(lockrank.RankThreads, "threads")
	r.groups.init()
	return r
}

func (r *Registry) Groups() *GroupTable {
	return &r.groups
}

// NewGroup creates a thread group. A nil parent creates a root group.
func (r *Registry) NewGroup(name string, parent *Group) *Group {
	g := &Group{name: name, parent: parent, depth: 1}
	if parent != nil {
		g.depth = parent.depth + 1
	}
	return g
}

// Start registers a new live thread. caller is the thread doing the
// registration (nil during bootstrap).
func (r *Registry) Start(caller *Thread, spec ThreadSpec) *Thread {
	if !spec.Managed && (spec.ManagedID != 0 || spec.Group != nil) {
		panic(fmt.Errorf("vmthread: native thread %q cannot have a managed id or a group", spec.Name))
	}

	t := &Thread{
		traceID: r.lastID.Add(1),
		osID:    spec.OSID,
		managed: spec.Managed,
	}
	if spec.Managed {
		t.managedID = spec.ManagedID
		t.group = spec.Group
	}
	t.name.Store(&spec.Name)
	t.lockCtx = lockrank.NewContext(fmt.Sprintf("thread %d", t.traceID))
	if r.checkLockRank {
		t.lockCtx.Checked = true
	}

	ctx := caller.LockContext()
	r.lock.Lock(ctx)
	if t.managed {
		r.managed = append(r.managed, t)
	} else {
		r.native = append(r.native, t)
	}
	r.lock.Unlock(ctx)

	if r.verbose {
		r.logger.LogAttrs(r.context, slog.LevelDebug, "vmthread: started", slog.Uint64("trace_id", t.traceID), slog.String("name", spec.Name), slog.Bool("managed", t.managed))
	}
	return t
}

// Exit removes t from the live threads. Exiting a thread that is not live
// is a no-op.
func (r *Registry) Exit(caller, t *Thread) {
	ctx := caller.LockContext()
	r.lock.Lock(ctx)
	var removed bool
	if t.managed {
		r.managed, removed = remove(r.managed, t)
	} else {
		r.native, removed = remove(r.native, t)
	}
	r.lock.Unlock(ctx)

	if removed && r.verbose {
		r.logger.LogAttrs(r.context, slog.LevelDebug, "vmthread: exited", slog.Uint64("trace_id", t.traceID))
	}
}

func remove(list []*Thread, t *Thread) ([]*Thread, bool) {
	i := slices.Index(list, t)
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

// Rename changes the display name. An empty name makes it unavailable.
func (r *Registry) Rename(t *Thread, name string) {
	t.name.Store(&name)
}

// Lock locks the registry on behalf of caller, preventing threads from
// starting or exiting until Unlock.
func (r *Registry) Lock(caller *Thread) {
	r.lock.Lock(caller.LockContext())
}

func (r *Registry) Unlock(caller *Thread) {
	r.lock.Unlock(caller.LockContext())
}

// ManagedLocked returns the live managed threads in start order. The
// registry must be locked; the slice must not be retained after Unlock.
func (r *Registry) ManagedLocked() []*Thread {
	return r.managed
}

// NativeLocked is ManagedLocked for native threads.
func (r *Registry) NativeLocked() []*Thread {
	return r.native
}

func (r *Registry) Len(caller *Thread) (managed, native int) {
	r.Lock(caller)
	defer r.Unlock(caller)
	return len(r.managed), len(r.native)
}
