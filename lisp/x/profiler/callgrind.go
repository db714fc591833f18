// Copyright © 2018 The ELPS authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/conslisp/lisp"
)

// callgrindProfiler writes a profile in the callgrind format, which can be
// opened with KCacheGrind or QCacheGrind.  Each function call records its
// inclusive time and allocated bytes along with the calls it made.
type callgrindProfiler struct {
	profiler
	mu        sync.Mutex
	w         io.WriteCloser
	err       error
	startTime time.Time
	names     map[string]int
	current   *callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

type callRef struct {
	parent      *callRef
	name        string
	file        string
	line        int
	start       time.Time
	duration    time.Duration
	startMemory uint64
	children    []*callRef
}

// NewCallgrindProfiler returns a profiler that is attached to rt once it is
// enabled.  SetFile must be called before Enable.
func NewCallgrindProfiler(rt *lisp.Runtime, opts ...Option) lisp.Profiler {
	p := &callgrindProfiler{}
	p.runtime = rt
	p.applyConfigs(opts...)
	return p
}

func (p *callgrindProfiler) SetFile(filename string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.w = f
	return nil
}

func (p *callgrindProfiler) Enable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == nil {
		return errors.New("no output set in profiler")
	}
	p.printf("version: 1\ncreator: conslisp %s (Go %s)\n", lisp.Version, runtime.Version())
	p.printf("cmd: Eval\npart: 1\npositions: line\n\n")
	p.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if p.err != nil {
		return p.err
	}
	p.names = make(map[string]int)
	p.startTime = time.Now()
	p.current = &callRef{name: "ENTRYPOINT", file: "-", start: p.startTime}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

func (p *callgrindProfiler) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	label, _ := p.funName(fun)
	p.mu.Lock()
	ref := &callRef{
		parent:      p.current,
		name:        label,
		start:       time.Now(),
		startMemory: totalAlloc(),
	}
	if loc := sourceLoc(fun); loc != nil {
		ref.file, ref.line = loc.File, loc.Line
	}
	p.current.children = append(p.current.children, ref)
	p.current = ref
	p.mu.Unlock()
	return func() {
		p.end(ref)
	}
}

func (p *callgrindProfiler) end(ref *callRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	p.current = ref.parent
	p.writeCost(ref, totalAlloc()-ref.startMemory)
}

// Complete writes the entry point record and closes the output file.
func (p *callgrindProfiler) Complete() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return errors.New("profiler not enabled")
	}
	for p.current.parent != nil {
		p.current = p.current.parent
	}
	root := p.current
	root.duration = time.Since(root.start)
	p.writeCost(root, 0)
	p.printf("summary %d %d\n\n", root.duration.Nanoseconds(), totalAlloc())
	if p.err != nil {
		return p.err
	}
	return p.w.Close()
}

func (p *callgrindProfiler) writeCost(ref *callRef, memory uint64) {
	p.printf("fl=%s\n", p.nameRef(ref.file))
	p.printf("fn=%s\n", p.nameRef(ref.name))
	p.printf("%d %d %d\n", ref.line, ref.duration.Nanoseconds(), memory)
	for _, child := range ref.children {
		p.printf("cfl=%s\n", p.nameRef(child.file))
		p.printf("cfn=%s\n", p.nameRef(child.name))
		p.printf("calls=1 0 0\n")
		p.printf("%d %d %d\n", child.line, child.duration.Nanoseconds(), 0)
	}
	p.printf("\n")
	// Children have been written and are not needed again.
	ref.children = nil
}

// nameRef compresses repeated names as described by the callgrind format.
func (p *callgrindProfiler) nameRef(name string) string {
	if name == "" {
		name = "no-source"
	}
	if id, ok := p.names[name]; ok {
		return fmt.Sprintf("(%d)", id)
	}
	id := len(p.names) + 1
	p.names[name] = id
	return fmt.Sprintf("(%d) %s", id, name)
}

func (p *callgrindProfiler) printf(format string, v ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, v...)
}

func totalAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.TotalAlloc
}
