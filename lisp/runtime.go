// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Runtime is an object underlying a tree of LEnv values.  It is responsible
// for holding shared interpreter state, generating identifiers, and writing
// program output.  Each interpreter instance owns exactly one Runtime.
type Runtime struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	Logger   logrus.FieldLogger
	numenv   atomicCounter
	numfun   atomicCounter
}

// StandardRuntime returns a new Runtime writing to os.Stdout and os.Stderr.
// Log messages are discarded until a logger is configured with WithLogger.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Runtime{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stack:  &CallStack{MaxHeightPhysical: DefaultMaxPhysicalStackHeight},
		Logger: logger,
	}
}

func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

// GenFID returns a new unique function identifier.
func (r *Runtime) GenFID() string {
	return fmt.Sprintf("_fun%d", r.numfun.Add(1))
}

func (r *Runtime) getStderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Runtime) getStdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
