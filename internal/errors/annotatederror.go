// Package errors wraps the standard library errors package with errors that carry [slog.Attr] annotations and the
// source location where they were created.
//
// Use [Wrap] where you would use fmt.Errorf("context: %w", err) and [SlogError] when logging the error.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Re-exported from the standard library so that callers only need to import this package.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

// annotatedError is an error with a message, optional wrapped cause, annotations, and a program counter pointing to
// the place it was created.
type annotatedError struct {
	msg         string
	cause       error
	annotations []slog.Attr
	pc          uintptr
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// callerPC returns the program counter of the function calling the exported constructor.
func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	// skip runtime.Callers, callerPC and the constructor.
	if runtime.Callers(skip+3, pcs[:]) == 0 { //nolint:mnd // see comment above.
		return 0
	}
	return pcs[0]
}

// NewSentinel creates an error meant to be declared as a package level variable and compared with [Is].
//
// Sentinels don't record a source location since it would point to the package initialisation.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, cause: nil, annotations: nil, pc: 0}
}

// New creates an error with the source location of the caller.
func New(msg string, annotations ...slog.Attr) error {
	return &annotatedError{msg: msg, cause: nil, annotations: annotations, pc: callerPC(0)}
}

// Wrap adds context and annotations to err. The resulting message is "msg: err".
//
// Wrapping a nil error returns an error with only msg so that the call site still shows up in the logs.
func Wrap(err error, msg string, annotations ...slog.Attr) error {
	return &annotatedError{msg: msg, cause: err, annotations: annotations, pc: callerPC(0)}
}

// DecoratePanic converts a recovered panic value into an error pointing to the panicking line.
//
// Call it directly from the deferred function that calls recover.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	pcs := make([]uintptr, 32) //nolint:mnd // deep enough to find the panic site.
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	var (
		pc           uintptr
		afterGopanic bool
	)
	for {
		frame, more := frames.Next()
		if afterGopanic {
			pc = frame.PC
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterGopanic = true
		}
		if !more {
			break
		}
	}
	if cause, ok := excp.(error); ok {
		return &annotatedError{msg: "panic", cause: cause, annotations: nil, pc: pc}
	}
	return &annotatedError{msg: fmt.Sprintf("panic: %v", excp), cause: nil, annotations: nil, pc: pc}
}

// SlogError renders err as an "error" group with the message, every annotation found in the chain, and the source
// location of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		pc          uintptr
	)
	collect(err, func(ae *annotatedError) {
		for _, a := range ae.annotations {
			annotations = append(annotations, a)
		}
		if ae.pc != 0 {
			pc = ae.pc
		}
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source := sourceLocation(pc); source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// collect walks the error tree depth first, including joined errors.
func collect(err error, fn func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // we walk the chain manually.
		fn(ae)
	}
	switch x := err.(type) { //nolint:errorlint // we walk the chain manually.
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			collect(e, fn)
		}
	case interface{ Unwrap() error }:
		collect(x.Unwrap(), fn)
	}
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	file := frame.File
	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}
	return file + ":" + strconv.Itoa(frame.Line)
}
