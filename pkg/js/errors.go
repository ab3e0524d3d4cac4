package js

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures raised by the bridge.
type ErrorKind string

const (
	// KindArgument is a wrong arity or wrong argument type on a scripted call.
	KindArgument ErrorKind = "argument"
	// KindNativeUnavailable means the host does not provide the native entry point.
	KindNativeUnavailable ErrorKind = "native_unavailable"
	// KindNativeOperation is a failure reported by an asynchronous native call.
	KindNativeOperation ErrorKind = "native_operation"
)

// ErrContextDisposed is returned by Go-facing calls on a context that was torn down.
var ErrContextDisposed = errors.New("js: context disposed")

// BridgeError is the structured error type of the bridge.
type BridgeError struct {
	Kind    ErrorKind
	Op      string // e.g. "setAttribute", "toBlob"
	Message string
	Cause   error
}

func (e *BridgeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *BridgeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *BridgeError by kind, so errors.Is(err, &BridgeError{Kind: KindArgument})
// answers "is this an argument error".
func (e *BridgeError) Is(target error) bool {
	t, ok := target.(*BridgeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

func argumentError(op, format string, args ...any) *BridgeError {
	return &BridgeError{Kind: KindArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

func nativeUnavailable(op, message string) *BridgeError {
	return &BridgeError{Kind: KindNativeUnavailable, Op: op, Message: message}
}

func nativeOperationError(op string, cause error) *BridgeError {
	msg := "native operation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &BridgeError{Kind: KindNativeOperation, Op: op, Message: msg, Cause: cause}
}

// IsKind reports whether err is a *BridgeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
