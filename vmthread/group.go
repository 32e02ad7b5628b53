package vmthread

import (
	"github.com/andreyvit/ckpt/lockrank"
)

// Group is a thread group. Groups form a tree: the parent always exists
// before its children, so chains are finite and acyclic.
type Group struct {
	name   string
	parent *Group
	depth  int

	// id is assigned by GroupTable on first resolution, guarded by its lock
	id uint64
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) Parent() *Group {
	return g.parent
}

// Depth is 1 for a root group.
func (g *Group) Depth() int {
	return g.depth
}

// GroupEntry is one resolved thread group.
type GroupEntry struct {
	ID       uint64
	ParentID uint64
	Name     string
}

// GroupTable assigns trace ids to thread groups lazily, the first time a
// thread of the group (or of a descendant group) is resolved.
type GroupTable struct {
	lock    lockrank.Mutex
	nextID  uint64
	entries []*Group
	byID    map[uint64]*Group
}

func (gt *GroupTable) init() {
	gt.lock.Init(lockrank.RankGroups, "thread groups")
	gt.byID = make(map[uint64]*Group)
}

// ThreadGroupID returns the trace id of subject's thread group, assigning ids
// to the group and its ancestors if needed. The table is locked on behalf of
// resolving, which need not be subject: the enumerator resolves every thread
// it visits from its own context.
//
// Native threads and managed threads without a group resolve to 0.
func (gt *GroupTable) ThreadGroupID(subject, resolving *Thread) uint64 {
	g := subject.Group()
	if !subject.IsManaged() || g == nil {
		return 0
	}

	ctx := resolving.LockContext()
	gt.lock.Lock(ctx)
	defer gt.lock.Unlock(ctx)
	return gt.assignLocked(g)
}

func (gt *GroupTable) assignLocked(g *Group) uint64 {
	if g.id != 0 {
		return g.id
	}
	if g.parent != nil {
		gt.assignLocked(g.parent)
	}
	gt.nextID++
	g.id = gt.nextID
	gt.entries = append(gt.entries, g)
	gt.byID[g.id] = g
	return g.id
}

// Chain returns the entries of group id and all its ancestors, leaf first.
// An unknown id yields nil.
func (gt *GroupTable) Chain(caller *Thread, id uint64) []GroupEntry {
	ctx := caller.LockContext()
	gt.lock.Lock(ctx)
	defer gt.lock.Unlock(ctx)

	g := gt.byID[id]
	if g == nil {
		return nil
	}
	chain := make([]GroupEntry, 0, g.depth)
	for ; g != nil; g = g.parent {
		chain = append(chain, entryOf(g))
	}
	return chain
}

// Entries returns all groups resolved so far in id order.
func (gt *GroupTable) Entries(caller *Thread) []GroupEntry {
	ctx := caller.LockContext()
	gt.lock.Lock(ctx)
	defer gt.lock.Unlock(ctx)

	result := make([]GroupEntry, len(gt.entries))
	for i, g := range gt.entries {
		result[i] = entryOf(g)
	}
	return result
}

func entryOf(g *Group) GroupEntry {
	e := GroupEntry{ID: g.id, Name: g.name}
	if g.parent != nil {
		e.ParentID = g.parent.id
	}
	return e
}
