// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ErrorVal implements the error interface so that errors can be first class
// lisp objects.  The condition is stored in the Str field and the message in
// the Cells slice.
type ErrorVal LVal

type errorData struct {
	Stack *CallStack
	Cause error
}

// Error implements the error interface.  The error condition precedes the
// message, and the source location precedes both when it is known.
func (e *ErrorVal) Error() string {
	if e.Source != nil && e.Source.Pos >= 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.Summary())
	}
	return e.Summary()
}

// Summary returns the text of Error without the source location.
func (e *ErrorVal) Summary() string {
	msg := e.ErrorMessage()
	if e.Str != CondError {
		return fmt.Sprintf("%s: %s", e.Str, msg)
	}
	fname := e.FunName()
	if fname == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", fname, msg)
}

// Condition returns the error condition name (e.g. "unbound-symbol").
func (e *ErrorVal) Condition() string {
	return e.Str
}

// FunName returns the name of the function on the top of the call stack
// when the error occurred.
func (e *ErrorVal) FunName() string {
	stack := (*LVal)(e).CallStack()
	if stack == nil || stack.Top() == nil {
		return ""
	}
	return stack.Top().Name
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	return errorCellMessage(e.Cells)
}

// Unwrap returns the Go error that caused e, if any.
func (e *ErrorVal) Unwrap() error {
	if data, ok := e.Native.(*errorData); ok {
		return data.Cause
	}
	return nil
}

// Cause implements the causer interface of github.com/pkg/errors.
func (e *ErrorVal) Cause() error {
	return e.Unwrap()
}

// WriteTrace writes the error and a stack trace to w
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	stack := (*LVal)(e).CallStack()
	if stack != nil && len(stack.Frames) > 0 {
		if !wrote(stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// CallStack returns the call stack captured by an LError, or nil.
func (v *LVal) CallStack() *CallStack {
	if v.Type != LError {
		return nil
	}
	if data, ok := v.Native.(*errorData); ok {
		return data.Stack
	}
	return nil
}

func (v *LVal) setCallStack(stack *CallStack) {
	data, ok := v.Native.(*errorData)
	if !ok {
		data = &errorData{}
		v.Native = data
	}
	data.Stack = stack
}

// GoError returns an error that represents v.  If v is not LError then nil
// is returned.
func GoError(v *LVal) error {
	if v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// ErrorCondition returns an LError with the given condition whose message is
// err's message.  The error err is retained as the cause.
//
// Errors generated during evaluation should be created with the LEnv methods
// so they capture the call stack.
func ErrorCondition(condition string, err error) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Native: &errorData{Cause: err},
		Cells:  []*LVal{String(err.Error())},
	}
}

// ErrorConditionf returns an LError with the given condition and a
// formatted message.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

// Errorf returns an LError with the generic condition and a formatted
// message.
func Errorf(format string, v ...interface{}) *LVal {
	return ErrorConditionf(CondError, format, v...)
}

func errorCellMessage(ecells []*LVal) string {
	var buf bytes.Buffer
	for i, cell := range ecells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(Display(cell))
	}
	return buf.String()
}
