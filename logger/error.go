package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// AnnotateError wraps an error with structured logging attributes (slog key-value pairs).
// When the returned error is logged through a handler created by NewErrorHandler,
// the attributes are extracted and included in the log output.
//
// Example:
//
//	return logger.AnnotateError(err, "step", 2, "index", 17)
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "", 0)
	r.Add(args...)

	var errAttrs []slog.Attr

	r.Attrs(func(attr slog.Attr) bool {
		errAttrs = append(errAttrs, attr)

		return true
	})

	return &slogError{
		err:   err,
		attrs: errAttrs,
	}
}

// ErrorAttrs returns the attributes attached to err, or to any annotated
// error in its chain, outermost first.
func ErrorAttrs(err error) []slog.Attr {
	var attrs []slog.Attr

	for err != nil {
		var se *slogError
		if !errors.As(err, &se) {
			break
		}

		attrs = append(attrs, se.attrs...)
		err = se.err
	}

	return attrs
}

type slogError struct {
	err   error
	attrs []slog.Attr
}

func (s *slogError) Error() string {
	return s.err.Error()
}

func (s *slogError) Unwrap() error {
	return s.err
}

var _ error = (*slogError)(nil)

// errorHandler is a slog.Handler decorator that expands annotated errors
// into their attributes before delegating to the inner handler.
type errorHandler struct {
	inner slog.Handler
}

// NewErrorHandler decorates inner so that errors built with AnnotateError
// contribute their attributes to the record they are logged in.
func NewErrorHandler(inner slog.Handler) slog.Handler {
	return &errorHandler{inner: inner}
}

var _ slog.Handler = (*errorHandler)(nil)

func (s *errorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.inner.Enabled(ctx, level)
}

func (s *errorHandler) Handle(ctx context.Context, record slog.Record) error {
	var (
		baseAttrs []slog.Attr
		errAttrs  []slog.Attr
	)

	record.Attrs(func(attr slog.Attr) bool {
		err, isErr := attr.Value.Any().(error)
		if !isErr {
			baseAttrs = append(baseAttrs, attr)

			return true
		}

		extra := ErrorAttrs(err)
		if len(extra) == 0 {
			baseAttrs = append(baseAttrs, attr)

			return true
		}

		baseAttrs = append(baseAttrs, slog.Any(attr.Key, innermost(err)))
		errAttrs = append(errAttrs, extra...)

		return true
	})

	if len(errAttrs) == 0 {
		return s.inner.Handle(ctx, record)
	}

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(baseAttrs...)
	r.AddAttrs(errAttrs...)

	return s.inner.Handle(ctx, r)
}

func (s *errorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorHandler{inner: s.inner.WithAttrs(attrs)}
}

func (s *errorHandler) WithGroup(name string) slog.Handler {
	return &errorHandler{inner: s.inner.WithGroup(name)}
}

// innermost strips annotations wrapped directly around err. Annotations
// further down a wrapped chain are left in place.
func innermost(err error) error {
	for {
		next, ok := err.(*slogError) //nolint:errorlint
		if !ok {
			return err
		}

		err = next.err
	}
}
