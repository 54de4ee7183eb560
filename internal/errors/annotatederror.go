package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError includes more context than a plain error that is useful for troubleshooting.
type AnnotatedError struct {
	// msg is the error message.
	msg string
	// cause is the wrapped error, nil for errors created with New.
	cause error
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
}

func callerPC() uintptr {
	var pcs [1]uintptr
	// Skip runtime.Callers, this function and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return pcs[0]
}

// New creates a new AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &AnnotatedError{
		msg:   msg,
		cause: nil,
		pc:    callerPC(),
		attrs: attrs,
	}
}

// Wrap annotates err with a message describing what was attempted and optional attributes.
//
// Returns nil if err is nil so that it is safe to use in return statements.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &AnnotatedError{
		msg:   msg,
		cause: err,
		pc:    callerPC(),
		attrs: attrs,
	}
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be detected
// with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Mark tags err with sentinel so that errors.Is(err, sentinel) holds while the original chain stays intact.
func Mark(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Error implements error interface.
func (err *AnnotatedError) Error() string {
	if err.cause == nil {
		return err.msg
	}
	return err.msg + ": " + err.cause.Error()
}

// Unwrap returns the wrapped error.
func (err *AnnotatedError) Unwrap() error {
	return err.cause
}

func (err *AnnotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{err.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// LogValue formats the error for useful logging.
func (err *AnnotatedError) LogValue() slog.Value {
	attrs := append(
		[]slog.Attr{slog.String("source", err.source())},
		err.attrs...,
	)
	return slog.GroupValue(attrs...)
}

// SlogError renders err as a slog attribute under the key "error".
//
// Attributes of every AnnotatedError in the chain are collected. The source points to the innermost annotated error
// which is where the failure originated.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	var (
		attrs  []slog.Attr
		source string
	)
	walk(err, func(e error) {
		if annotated, ok := e.(*AnnotatedError); ok { //nolint:errorlint // only the current link is inspected
			attrs = append(attrs, annotated.attrs...)
			source = annotated.source()
		}
	})
	group := []slog.Attr{slog.String("message", err.Error())}
	if source != "" {
		group = append(group, slog.String("source", source))
	}
	group = append(group, attrs...)
	return slog.Attr{Key: "error", Value: slog.GroupValue(group...)}
}

// walk visits err and every error it wraps, depth first.
func walk(err error, visit func(error)) {
	if err == nil {
		return
	}
	visit(err)
	switch e := err.(type) { //nolint:errorlint // we need the concrete unwrap interfaces here
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walk(inner, visit)
		}
	case interface{ Unwrap() error }:
		walk(e.Unwrap(), visit)
	}
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
