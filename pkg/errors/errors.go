// Package errors carries the structured error shared by every layer of
// KeyIP-Lifecycle. An AppError has a catalogued code; the code decides the HTTP
// status, the message that may leave the process, and whether the error is a
// validation, not-found or conflict failure.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const stackDepth = 32

// captureStack renders the caller frames above the factory that called it.
// Runtime frames are dropped.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for f, more := frames.Next(); ; f, more = frames.Next() {
		if !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			return sb.String()
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the error value returned across package boundaries.
//
//	return errors.New(errors.ErrCodePatentNotFound, "patent not found").WithDetail("id=" + id)
//	return errors.Wrap(err, errors.ErrCodeMessagingError, "publish lifecycle event")
type AppError struct {
	Code    ErrorCode
	Message string
	// Detail holds ids and versions useful when debugging. It is returned to
	// clients for 4xx codes only.
	Detail string
	Cause  error
	// Stack is captured at construction and never part of Error().
	Stack string
}

// Error formats as "[code] message" or "[code] message: detail".
func (e *AppError) Error() string {
	if e.Detail == "" {
		return "[" + string(e.Code) + "] " + e.Message
	}
	return "[" + string(e.Code) + "] " + e.Message + ": " + e.Detail
}

// Unwrap returns the cause so errors.Is and errors.As see through an AppError.
func (e *AppError) Unwrap() error { return e.Cause }

// Kind reports the caller-facing classification of the error's code.
func (e *AppError) Kind() Kind { return KindForCode(e.Code) }

// WithDetail returns a copy with Detail replaced. Nil stays nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	out := *e
	out.Detail = detail
	return &out
}

// WithCause returns a copy with Cause replaced. Nil stays nil.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	out := *e
	out.Cause = err
	return &out
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// build is shared by every exported constructor so captureStack skips the
// same number of frames.
func build(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause, Stack: captureStack(2)}
}

// New creates an AppError with no cause. The stack is captured at the caller.
//
// Usage:
//
//	if p == nil {
//	    return errors.New(errors.ErrCodePatentNotFound, "patent not found").WithDetail("id=" + id)
//	}
func New(code ErrorCode, message string) *AppError {
	return build(code, message, nil)
}

// Wrap attaches code and message to err, keeping err as the Cause. It returns
// nil for a nil err. With CodeUnknown the code of the outermost AppError in
// err's chain is kept.
//
// Usage:
//
//	if err := w.WriteMessages(ctx, msg); err != nil {
//	    return errors.Wrap(err, errors.ErrCodeMessagingError, "publish lifecycle event")
//	}
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		code = GetCode(err)
	}
	return build(code, message, err)
}

// NotFound uses the generic code. Domain lookups use New with
// ErrCodePatentNotFound, ErrCodeStageNotFound or ErrCodeTemplateNotFound.
func NotFound(message string) *AppError { return build(CodeNotFound, message, nil) }

// InvalidParam reports a malformed request: bad JSON, query or header.
func InvalidParam(message string) *AppError { return build(CodeInvalidParam, message, nil) }

// Validation builds a validation failure. A code that is not of
// KindValidation is replaced by ErrCodeValidation.
func Validation(code ErrorCode, message string) *AppError {
	if KindForCode(code) != KindValidation {
		code = ErrCodeValidation
	}
	return build(code, message, nil)
}

// Conflict reports a write that lost to a concurrent change. Stale versions
// and lock contention have their own codes, ErrCodeVersionConflict and
// ErrCodeLockNotAcquired.
//
// Usage:
//
//	return errors.Conflict("stage template already registered").WithDetail("key=" + key)
func Conflict(message string) *AppError { return build(CodeConflict, message, nil) }

// Internal reports a failure the caller cannot act on. The HTTP layer replaces
// the message with the catalogue text and never returns Detail.
//
// Usage:
//
//	return errors.Internal("stored patent is inconsistent").WithCause(err)
func Internal(message string) *AppError { return build(CodeInternal, message, nil) }

// ─────────────────────────────────────────────────────────────────────────────
// Inspection
// ─────────────────────────────────────────────────────────────────────────────

// walk calls visit for every AppError in err's chain, outermost first, until
// visit returns true.
func walk(err error, visit func(*AppError) bool) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		if visit(ae) {
			return true
		}
		err = ae.Cause
	}
	return false
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	return walk(err, func(ae *AppError) bool { return ae.Code == code })
}

// KindOf returns the first non-other kind in err's chain. A not-found
// wrapped by an internal error is still a not-found.
func KindOf(err error) Kind {
	kind := KindOther
	walk(err, func(ae *AppError) bool {
		kind = ae.Kind()
		return kind != KindOther
	})
	return kind
}

// IsNotFound reports whether err is a missing patent, stage or template.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is a rejected input.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsConflict includes stale versions and lock contention.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// GetCode returns the code of the outermost AppError, CodeOK for nil and
// CodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// As forwards to the standard library so callers import one package.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is forwards to the standard library.
func Is(err, target error) bool { return errors.Is(err, target) }

//Personal.AI order the ending
