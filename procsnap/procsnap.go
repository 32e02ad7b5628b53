// Package procsnap fills a vmthread.Registry with the threads of the running
// Go process: every goroutine becomes a managed thread, every OS thread of
// the process becomes a native thread.
//
// Goroutines are grouped by the package that created them. All such groups
// are children of a root group named "system"; goroutines started from
// package main (and goroutine 1) go to a group named "main".
package procsnap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/prometheus/procfs"

	"github.com/andreyvit/ckpt/vmthread"
)

const (
	RootGroupName = "system"
	MainGroupName = "main"

	DefaultStackBufferSize = 64 * 1024
)

type Options struct {
	Context context.Context
	Logger  *slog.Logger
	Verbose bool

	// NoNative skips OS threads.
	NoNative bool

	// ProcFS is the procfs mount point. Empty means procfs.DefaultMountPoint.
	ProcFS string

	// PID is the process whose OS threads are listed. Zero means this process.
	PID int

	StackBufferSize int
}

type Stats struct {
	Goroutines int
	OSThreads  int
	Groups     int

	// Current is the managed thread of the goroutine that called Populate.
	Current *vmthread.Thread
}

// Populate registers the current goroutines and OS threads in reg, on
// behalf of caller (which may be nil). It is meant to be called once on a
// fresh registry.
//
// Failing to list OS threads is not fatal: the goroutines stay registered
// and the error is returned along with the stats. A stack dump that cannot
// be parsed registers nothing.
func Populate(reg *vmthread.Registry, caller *vmthread.Thread, o Options) (Stats, error) {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.StackBufferSize == 0 {
		o.StackBufferSize = DefaultStackBufferSize
	}
	if o.PID == 0 {
		o.PID = os.Getpid()
	}

	var stats Stats
	self := CurrentGoroutineID()

	goroutines, err := parseStacks(stacks(o.StackBufferSize, true))
	if err != nil {
		return stats, err
	}
	groups := newGrouper(reg)
	for _, g := range goroutines {
		t := reg.Start(caller, vmthread.ThreadSpec{
			Name:      "goroutine " + strconv.FormatUint(g.ID, 10),
			Managed:   true,
			ManagedID: g.ID,
			Group:     groups.groupFor(g),
		})
		if g.ID == self {
			stats.Current = t
		}
		stats.Goroutines++
		if o.Verbose {
			o.Logger.LogAttrs(o.Context, slog.LevelDebug, "procsnap: goroutine", slog.Uint64("goid", g.ID), slog.String("status", g.Status), slog.String("creator", g.Creator))
		}
	}
	stats.Groups = groups.len()

	if o.NoNative {
		return stats, nil
	}

	stats.OSThreads, err = populateNative(reg, caller, o)
	return stats, err
}

func populateNative(reg *vmthread.Registry, caller *vmthread.Thread, o Options) (int, error) {
	var fs procfs.FS
	var err error
	if o.ProcFS == "" {
		fs, err = procfs.NewDefaultFS()
	} else {
		fs, err = procfs.NewFS(o.ProcFS)
	}
	if err != nil {
		return 0, fmt.Errorf("procsnap: procfs: %w", err)
	}

	threads, err := fs.AllThreads(o.PID)
	if err != nil {
		return 0, fmt.Errorf("procsnap: threads of %d: %w", o.PID, err)
	}

	var n int
	for _, p := range threads {
		comm, err := p.Comm()
		if err != nil {
			// the thread exited after it was listed
			o.Logger.LogAttrs(o.Context, slog.LevelDebug, "procsnap: skipping thread", slog.Int("tid", p.PID), slog.Any("err", err))
			continue
		}
		name := comm
		if name == "" {
			name = "thread " + strconv.Itoa(p.PID)
		}
		reg.Start(caller, vmthread.ThreadSpec{Name: name, OSID: uint64(p.PID)})
		n++
		if o.Verbose {
			o.Logger.LogAttrs(o.Context, slog.LevelDebug, "procsnap: os thread", slog.Int("tid", p.PID), slog.String("comm", comm))
		}
	}
	return n, nil
}

type grouper struct {
	reg   *vmthread.Registry
	root  *vmthread.Group
	main  *vmthread.Group
	byPkg map[string]*vmthread.Group
}

func newGrouper(reg *vmthread.Registry) *grouper {
	root := reg.NewGroup(RootGroupName, nil)
	return &grouper{
		reg:   reg,
		root:  root,
		main:  reg.NewGroup(MainGroupName, root),
		byPkg: make(map[string]*vmthread.Group),
	}
}

func (gr *grouper) groupFor(g goroutineInfo) *vmthread.Group {
	switch {
	case g.ID == 1 || g.Creator == "main":
		return gr.main
	case g.Creator == "":
		return gr.root
	}
	grp := gr.byPkg[g.Creator]
	if grp == nil {
		grp = gr.reg.NewGroup(g.Creator, gr.root)
		gr.byPkg[g.Creator] = grp
	}
	return grp
}

// len counts the root, main and per-package groups.
func (gr *grouper) len() int {
	return 2 + len(gr.byPkg)
}
