// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of LVals that it
	// contains.  The returned LVals are evaluated in order.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// LoadString parses exprs and evaluates the forms it contains.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, strings.NewReader(exprs))
}

// LoadFile reads the lisp source file at path and evaluates the forms it
// contains.  A failure to open or read the file produces an io-error whose
// cause can be recovered with errors.Cause.
func (env *LEnv) LoadFile(path string) *LVal {
	f, err := os.Open(path)
	if err != nil {
		return env.ErrorCondition(CondIOError, errors.Wrapf(err, "opening file %s", path))
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return env.ErrorCondition(CondIOError, errors.Wrapf(err, "reading file %s", path))
	}
	return env.Load(path, bytes.NewReader(src))
}

// Load reads LVals from r and evaluates them in order.  The value returned
// by the last evaluated LVal will be retured.  No form is evaluated if the
// stream contains a syntax error.  If env.Runtime.Reader has not been set
// then an error will be returned by Load.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	exprs := env.Read(name, r)
	if len(exprs) == 1 && exprs[0].Type == LError {
		return exprs[0]
	}
	return env.EvalAll(exprs)
}

// Read parses the stream r with env.Runtime.Reader.  When parsing fails the
// returned slice contains only the error.
func (env *LEnv) Read(name string, r io.Reader) []*LVal {
	if env.Runtime.Reader == nil {
		return []*LVal{env.Errorf("no reader for environment runtime")}
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return []*LVal{env.readError(name, err)}
	}
	return exprs
}

func (env *LEnv) readError(name string, err error) *LVal {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		return (*LVal)(lerr)
	}
	return env.ErrorCondition(CondIOError, errors.Wrapf(err, "reading %s", name))
}

// EvalAll evaluates exprs in order and returns the last value.  Evaluation
// stops at the first error.
func (env *LEnv) EvalAll(exprs []*LVal) *LVal {
	ret := Nil()
	for _, expr := range exprs {
		env.logForm(expr)
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

func (env *LEnv) logForm(expr *LVal) {
	logger := env.Runtime.Logger
	if logger == nil {
		return
	}
	fields := logrus.Fields{"form": expr.String()}
	if expr.Source != nil {
		fields["source"] = expr.Source.String()
	}
	logger.WithFields(fields).Debug("evaluating form")
}
