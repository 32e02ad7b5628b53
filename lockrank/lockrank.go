// Package lockrank implements static lock ranking for the locks guarding the
// runtime model (thread registry, thread group table).
//
// Every ranked Mutex has a Rank. A Context (one per execution context, i.e. per
// thread of the runtime model) records the locks it currently holds. When the
// context is checked, acquiring a lock whose rank is not strictly greater than
// the rank of the most recently acquired lock still held is a lock ordering
// problem and panics with a *RankError. A leaf lock may be acquired after any
// non-leaf lock, but nothing may be acquired while a leaf lock is held.
//
// Checking is on by default only in builds with the "lockrank" tag (see
// Enabled); tests turn it on per context via Context.Checked.
//
// Acquiring a mutex that is already held by the same context always panics,
// checked or not: ranked mutexes are not re-entrant and would deadlock.
package lockrank

import (
	"fmt"
	"strings"
	"sync"
)

type Rank int

const (
	RankDummy Rank = iota

	// RankGroups guards the thread group table.
	RankGroups

	// RankThreads guards the live thread registry.
	RankThreads

	// RankLeaf is the rank of unranked locks. Nothing can be acquired while
	// a leaf lock is held.
	RankLeaf Rank = 1000
)

var rankNames = []string{
	RankDummy:   "DUMMY",
	RankGroups:  "GROUPS",
	RankThreads: "THREADS",
}

func (r Rank) String() string {
	if r == RankLeaf {
		return "LEAF"
	}
	if r < 0 || int(r) >= len(rankNames) || rankNames[r] == "" {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Mutex is a sync.Mutex with a static rank. The zero value is an unranked
// (leaf) mutex.
type Mutex struct {
	mu   sync.Mutex
	rank Rank
	name string
}

func (m *Mutex) Init(rank Rank, name string) {
	m.rank = rank
	m.name = name
}

func (m *Mutex) Rank() Rank {
	if m.rank == RankDummy {
		return RankLeaf
	}
	return m.rank
}

func (m *Mutex) String() string {
	if m.name != "" {
		return m.name
	}
	return m.Rank().String()
}

// Lock acquires m on behalf of ctx. A nil ctx locks without any rank
// bookkeeping.
func (m *Mutex) Lock(ctx *Context) {
	if ctx == nil {
		m.mu.Lock()
		return
	}
	ctx.acquire(m)
	m.mu.Lock()
}

// Unlock releases m on behalf of ctx, which must be the context that
// acquired it.
func (m *Mutex) Unlock(ctx *Context) {
	if ctx != nil {
		ctx.release(m)
	}
	m.mu.Unlock()
}

type heldLock struct {
	rank Rank
	m    *Mutex
}

// Context is the lock bookkeeping of one execution context. It must only be
// used by the goroutine currently acting as that execution context.
type Context struct {
	Checked bool
	Name    string

	held     []heldLock
	skipRank bool
}

func NewContext(name string) *Context {
	return &Context{
		Checked: Enabled,
		Name:    name,
	}
}

// SetSkipRankOrderCheck turns rank order checking off (or back on) for this
// context and returns the previous setting. Re-acquisition of a held mutex is
// still detected while skipping.
func (ctx *Context) SetSkipRankOrderCheck(skip bool) (prev bool) {
	prev = ctx.skipRank
	ctx.skipRank = skip
	return prev
}

func (ctx *Context) SkipsRankOrderCheck() bool {
	return ctx.skipRank
}

// Held returns the ranks of the locks currently held, oldest first.
func (ctx *Context) Held() []Rank {
	ranks := make([]Rank, len(ctx.held))
	for i, h := range ctx.held {
		ranks[i] = h.rank
	}
	return ranks
}

func (ctx *Context) Holds(m *Mutex) bool {
	for _, h := range ctx.held {
		if h.m == m {
			return true
		}
	}
	return false
}

func (ctx *Context) acquire(m *Mutex) {
	rank := m.Rank()
	if ctx.Holds(m) {
		panic(&RankError{Context: ctx.Name, Held: ctx.Held(), Acquiring: rank, Lock: m.String(), Msg: "recursive acquisition"})
	}
	if n := len(ctx.held); n > 0 && ctx.Checked && !ctx.skipRank {
		if !rankOK(ctx.held[n-1].rank, rank) {
			panic(&RankError{Context: ctx.Name, Held: ctx.Held(), Acquiring: rank, Lock: m.String(), Msg: "lock ordering problem"})
		}
	}
	ctx.held = append(ctx.held, heldLock{rank, m})
}

func (ctx *Context) release(m *Mutex) {
	for i := len(ctx.held) - 1; i >= 0; i-- {
		if ctx.held[i].m == m {
			ctx.held = append(ctx.held[:i], ctx.held[i+1:]...)
			return
		}
	}
	panic(&RankError{Context: ctx.Name, Held: ctx.Held(), Acquiring: m.Rank(), Lock: m.String(), Msg: "unlock without matching lock acquire"})
}

func rankOK(prevRank, rank Rank) bool {
	if rank == RankLeaf {
		return prevRank < RankLeaf
	}
	return prevRank < rank
}

type RankError struct {
	Context   string
	Held      []Rank
	Acquiring Rank
	Lock      string
	Msg       string
}

func (e *RankError) Error() string {
	var buf strings.Builder
	buf.WriteString("lockrank: ")
	buf.WriteString(e.Msg)
	if e.Context != "" {
		buf.WriteString(" in ")
		buf.WriteString(e.Context)
	}
	fmt.Fprintf(&buf, ": acquiring %s (%v) while holding [", e.Lock, e.Acquiring)
	for i, r := range e.Held {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(r.String())
	}
	buf.WriteByte(']')
	return buf.String()
}
