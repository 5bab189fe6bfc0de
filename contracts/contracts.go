// Package contracts implements the fail-fast checks used across colgo.
//
// A contract violation is a caller or producer bug (out-of-bounds access,
// releasing a structure twice, resizing borrowed memory), not a recoverable
// runtime condition. Violations invoke the installed Handler for diagnostics
// and then panic with a *Violation, so tests can intercept them with Recover
// instead of crashing the test process.
package contracts

import (
	"fmt"
	"runtime"
	"sync"
)

// Violation describes a failed contract check.
type Violation struct {
	Check string // the violated condition, e.g. "i < len"
	Msg   string
	File  string
	Line  int
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("contract violation at %s:%d: %s: %s", v.File, v.Line, v.Check, v.Msg)
}

// Handler receives a violation before the panic is raised.
// It must not swallow the failure; the panic always follows.
type Handler func(v *Violation)

var (
	mu      sync.Mutex
	handler Handler
)

// SetHandler installs h as the diagnostics hook and returns the previous one.
// Passing nil restores the default (no hook; the panic alone reports).
func SetHandler(h Handler) Handler {
	mu.Lock()
	defer mu.Unlock()
	prev := handler
	handler = h
	return prev
}

func fail(check, format string, args ...any) {
	v := &Violation{
		Check: check,
		Msg:   fmt.Sprintf(format, args...),
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		v.File = file
		v.Line = line
	}

	mu.Lock()
	h := handler
	mu.Unlock()
	if h != nil {
		h(v)
	}
	panic(v)
}

// Assert panics with a *Violation if cond is false.
func Assert(cond bool, check string) {
	if !cond {
		fail(check, "assertion failed")
	}
}

// Assertf is Assert with a formatted message.
func Assertf(cond bool, check, format string, args ...any) {
	if !cond {
		fail(check, format, args...)
	}
}

// Fail reports an unconditional violation.
func Fail(check, format string, args ...any) {
	fail(check, format, args...)
}

// CheckBounds asserts 0 <= i < n.
func CheckBounds(i, n int) {
	if i < 0 || i >= n {
		fail("0 <= i < n", "index %d out of range [0, %d)", i, n)
	}
}

// Recover runs fn and returns the *Violation it panicked with, or nil if fn
// completed normally. Panics that are not contract violations propagate.
// It exists for tests that assert on fail-fast behavior.
func Recover(fn func()) (v *Violation) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if v, ok = r.(*Violation); !ok {
				panic(r)
			}
		}
	}()
	fn()
	return nil
}
