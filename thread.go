package ckpt

import (
	"github.com/andreyvit/ckpt/vmthread"
)

// MaxGroupDepth bounds the thread group chain embedded by
// ThreadSelfSerializer. Group trees are acyclic; a deeper chain means the
// tree is corrupt.
const MaxGroupDepth = 256

// ThreadSerializer writes one entry per live thread of Registry: managed
// threads first, then native threads. An empty registry produces no pool at
// all (the pool is rolled back).
//
// Caller is the thread running the serializer. Thread group ids are resolved
// from Caller's context, not from the context of the thread being written.
type ThreadSerializer struct {
	Registry *vmthread.Registry
	Caller   *vmthread.Thread
}

func (s *ThreadSerializer) Serialize(w *Writer) {
	if s.Registry == nil || s.Caller == nil {
		fatalf("Serialize", "ThreadSerializer needs a registry and a caller")
	}

	pool := BeginPool(w)
	defer func() {
		if !pool.Done() {
			pool.Rollback()
		}
	}()

	// Group resolution takes the thread group lock, which ranks below the
	// registry lock, while the registry is locked. This is the only place
	// that nests the two locks in this order, and no path takes the registry
	// lock while holding the group lock, so it cannot deadlock. The rank
	// check is suspended for the caller only, and only until the scan ends.
	lockCtx := s.Caller.LockContext()
	prevSkip := lockCtx.SetSkipRankOrderCheck(true)
	defer lockCtx.SetSkipRankOrderCheck(prevSkip)

	s.Registry.Lock(s.Caller)
	defer s.Registry.Unlock(s.Caller)

	groups := s.Registry.Groups()
	for _, t := range s.Registry.ManagedLocked() {
		writeThread(w, t, groups.ThreadGroupID(t, s.Caller))
		pool.Add()
	}
	for _, t := range s.Registry.NativeLocked() {
		writeThread(w, t, 0)
		pool.Add()
	}

	pool.CommitOrRollback()
}

func (s *ThreadSerializer) Describe() Descriptor {
	return Descriptor{Name: "Thread", Fields: threadFields}
}

func writeThread(w *Writer, t *vmthread.Thread, groupID uint64) {
	name, ok := t.Name()
	if !ok {
		fatalf("Serialize", "thread %d has no name", t.TraceID())
	}
	w.WriteKey(t.TraceID())
	w.WriteString(name)
	w.WriteU64(t.OSThreadID())
	if t.IsManaged() {
		w.WriteString(name)
		w.WriteU64(t.ManagedID())
		w.WriteU64(groupID)
		return
	}
	w.WriteNullString()
	w.WriteU64(0)
	w.WriteU64(0)
}

// ThreadSelfSerializer writes a single-entry thread pool describing Thread,
// which must be the thread running the serializer. Its group id is resolved
// in its own context, and the whole group chain follows inline.
type ThreadSelfSerializer struct {
	Registry *vmthread.Registry
	Thread   *vmthread.Thread
}

func (s *ThreadSelfSerializer) Serialize(w *Writer) {
	if s.Registry == nil || s.Thread == nil {
		fatalf("Serialize", "ThreadSelfSerializer needs a registry and a thread")
	}
	t := s.Thread
	if g := t.Group(); t.IsManaged() && g != nil && g.Depth() > MaxGroupDepth {
		fatalf("Serialize", "thread group %q of %v is %d deep, max %d", g.Name(), t, g.Depth(), MaxGroupDepth)
	}

	w.WriteCount(1)
	if !t.IsManaged() {
		writeThread(w, t, 0)
		return
	}

	groups := s.Registry.Groups()
	groupID := groups.ThreadGroupID(t, t)
	writeThread(w, t, groupID)

	var chain []vmthread.GroupEntry
	if groupID != 0 {
		chain = groups.Chain(t, groupID)
	}
	w.WriteU32(uint32(len(chain)))
	for _, g := range chain {
		writeGroup(w, g)
	}
}

func (s *ThreadSelfSerializer) Describe() Descriptor {
	fields := append(threadFields[:len(threadFields):len(threadFields)], Field{"groupChain", FieldGroupChain})
	return Descriptor{Name: "Thread", Fields: fields}
}

// ThreadGroupSerializer writes every thread group resolved so far, in id
// order. Unlike ThreadSerializer it declares the pool even when empty.
type ThreadGroupSerializer struct {
	Registry *vmthread.Registry
	Caller   *vmthread.Thread
}

func (s *ThreadGroupSerializer) Serialize(w *Writer) {
	if s.Registry == nil {
		fatalf("Serialize", "ThreadGroupSerializer needs a registry")
	}
	entries := s.Registry.Groups().Entries(s.Caller)
	w.WriteCount(uint32(len(entries)))
	for _, g := range entries {
		writeGroup(w, g)
	}
}

func (s *ThreadGroupSerializer) Describe() Descriptor {
	return Descriptor{Name: "ThreadGroup", Fields: threadGroupFields}
}

func writeGroup(w *Writer, g vmthread.GroupEntry) {
	w.WriteKey(g.ID)
	w.WriteU64(g.ParentID)
	w.WriteString(g.Name)
}
