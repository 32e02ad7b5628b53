package procsnap

import (
	"runtime"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andreyvit/ckpt/ckpttest"
	"github.com/andreyvit/ckpt/vmthread"
)

const sampleDump = `goroutine 7 [running]:
main.handler()
	/src/main.go:40 +0x25
created by net/http.(*Server).Serve in goroutine 1
	/usr/local/go/src/net/http/server.go:3285 +0x4b4

goroutine 1 [chan receive, 2 minutes]:
main.main()
	/src/main.go:30 +0x5c

goroutine 18 [select]:
github.com/acme/app/internal/queue.(*Worker).loop(0xc000010000)
	/src/internal/queue/worker.go:12 +0x1d
created by github.com/acme/app/internal/queue.Start in goroutine 1
	/src/internal/queue/worker.go:8 +0x5c

goroutine 2 [force gc (idle)]:
runtime.gopark(0x0?, 0x0?, 0x0?, 0x0?, 0x0?)
	/usr/local/go/src/runtime/proc.go:402 +0xce
created by runtime.init.7 in goroutine 1
	/usr/local/go/src/runtime/proc.go:314 +0x1a

goroutine 21 [sleep]:
main.tick()
	/src/main.go:50 +0x11
created by main.main
	/src/main.go:31 +0x60
`

func TestParseStacks(t *testing.T) {
	a, err := parseStacks([]byte(sampleDump))
	if err != nil {
		t.Fatal(err)
	}
	e := []goroutineInfo{
		{ID: 7, Status: "running", Creator: "net/http"},
		{ID: 1, Status: "chan receive"},
		{ID: 18, Status: "select", Creator: "github.com/acme/app/internal/queue"},
		{ID: 2, Status: "force gc (idle)", Creator: "runtime"},
		{ID: 21, Status: "sleep", Creator: "main"},
	}
	if diff := cmp.Diff(e, a); diff != "" {
		t.Errorf("parseStacks (-want +got):\n%s", diff)
	}
}

func TestParseStacks_skipsLeadingText(t *testing.T) {
	a, err := parseStacks([]byte("panic: boom\n\n" + sampleDump))
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 5 || a[0].ID != 7 {
		t.Errorf("parseStacks = %+v", a)
	}
}

func TestParseStacks_garbage(t *testing.T) {
	a, _ := parseStacks([]byte("hello\n\ngoroutine x [running]:\n\n\n"))
	if len(a) != 0 {
		t.Errorf("parseStacks = %v, wanted nothing", a)
	}
}

func TestParseStacks_live(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	go func() { <-stop }()

	a, err := parseStacks(stacks(256, true))
	if err != nil {
		t.Fatal(err)
	}
	self := CurrentGoroutineID()
	var found bool
	for _, g := range a {
		if g.ID == self {
			found = true
			if g.Status != "running" {
				t.Errorf("current goroutine status = %q", g.Status)
			}
		}
	}
	if !found || len(a) < 2 {
		t.Errorf("goroutine %d not among %+v", self, a)
	}
}

func TestCurrentGoroutineID(t *testing.T) {
	id := CurrentGoroutineID()
	if id == 0 {
		t.Fatalf("CurrentGoroutineID = 0")
	}

	var other uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = CurrentGoroutineID()
	}()
	wg.Wait()
	if other == 0 || other == id {
		t.Errorf("other goroutine id = %d, this one = %d", other, id)
	}
}

func TestGrouper(t *testing.T) {
	reg := vmthread.NewRegistry(vmthread.Options{})
	gr := newGrouper(reg)

	if g := gr.groupFor(goroutineInfo{ID: 1}); g.Name() != MainGroupName {
		t.Errorf("goroutine 1 in %q", g.Name())
	}
	if g := gr.groupFor(goroutineInfo{ID: 5, Creator: "main"}); g.Name() != MainGroupName {
		t.Errorf("main-created goroutine in %q", g.Name())
	}
	if g := gr.groupFor(goroutineInfo{ID: 5}); g.Name() != RootGroupName {
		t.Errorf("orphan goroutine in %q", g.Name())
	}
	a := gr.groupFor(goroutineInfo{ID: 6, Creator: "net/http"})
	b := gr.groupFor(goroutineInfo{ID: 7, Creator: "net/http"})
	if a != b || a.Name() != "net/http" || a.Parent().Name() != RootGroupName || a.Depth() != 2 {
		t.Errorf("package group = %q (parent %v, depth %d), reused = %v", a.Name(), a.Parent(), a.Depth(), a == b)
	}
	if gr.len() != 3 {
		t.Errorf("len = %d, wanted 3", gr.len())
	}
}

func TestPopulate_goroutines(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	for range 3 {
		go func() { <-stop }()
	}

	reg := vmthread.NewRegistry(vmthread.Options{Logger: ckpttest.Logger(t)})
	stats, err := Populate(reg, nil, Options{Logger: ckpttest.Logger(t), Verbose: testing.Verbose(), NoNative: true})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Goroutines < 4 {
		t.Errorf("Goroutines = %d, wanted at least 4", stats.Goroutines)
	}
	if stats.OSThreads != 0 {
		t.Errorf("OSThreads = %d with NoNative", stats.OSThreads)
	}
	if stats.Current == nil {
		t.Fatalf("no current thread")
	}
	if a, e := stats.Current.ManagedID(), CurrentGoroutineID(); a != e {
		t.Errorf("Current.ManagedID = %d, wanted %d", a, e)
	}
	if name, _ := stats.Current.Name(); name == "" {
		t.Errorf("current thread has no name")
	}
	if m, n := reg.Len(nil); m != stats.Goroutines || n != 0 {
		t.Errorf("registry Len = (%d, %d), wanted (%d, 0)", m, n, stats.Goroutines)
	}
}

func TestPopulate_osThreads(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("procfs is only available on Linux")
	}
	reg := vmthread.NewRegistry(vmthread.Options{})
	stats, err := Populate(reg, nil, Options{Logger: ckpttest.Logger(t)})
	if err != nil {
		t.Fatal(err)
	}
	if stats.OSThreads < 1 {
		t.Fatalf("OSThreads = %d", stats.OSThreads)
	}
	reg.Lock(nil)
	defer reg.Unlock(nil)
	for _, th := range reg.NativeLocked() {
		if th.OSThreadID() == 0 {
			t.Errorf("%v has no OS thread id", th)
		}
		if _, ok := th.Name(); !ok {
			t.Errorf("%v has no name", th)
		}
	}
}

func TestPopulate_procfsErrorKeepsGoroutines(t *testing.T) {
	reg := vmthread.NewRegistry(vmthread.Options{})
	stats, err := Populate(reg, nil, Options{Logger: ckpttest.Logger(t), ProcFS: t.TempDir() + "/missing"})
	if err == nil {
		t.Fatalf("no error for a missing procfs")
	}
	if stats.Goroutines == 0 || stats.Current == nil {
		t.Errorf("goroutines were not registered: %+v", stats)
	}
}
