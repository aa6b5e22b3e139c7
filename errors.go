package jnigo

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotInitialized indicates the thread-attachment provider has not been
	// initialized with a VM.
	ErrNotInitialized = errors.New("jnigo: provider not initialized; call jnigo.Init first")

	// ErrNotLoaded indicates libjvm has not been loaded.
	ErrNotLoaded = errors.New("jnigo: JVM library not loaded")

	// ErrLibraryNotFound indicates libjvm could not be located.
	ErrLibraryNotFound = errors.New("jnigo: JVM library not found")

	// ErrUnsupported indicates the platform cannot host the real JVM binding.
	ErrUnsupported = errors.New("jnigo: platform not supported")

	// ErrIndexOutOfRange is reported by bounds-checked array access.
	ErrIndexOutOfRange = errors.New("jnigo: index out of range")

	// ErrFrameNotPushed indicates a local frame was popped twice.
	ErrFrameNotPushed = errors.New("jnigo: local frame not pushed")

	// ErrBadNative indicates a Go function cannot be bound as a native method.
	ErrBadNative = errors.New("jnigo: unsupported native method signature")
)

// Problem is a failure detected on the native side of the boundary, such as
// a lookup that found nothing or a JNI status other than JNI_OK.
type Problem struct {
	Message  string // Human-readable message
	Location string // file:line that raised the problem
	Code     int32  // JNI status code, 0 when not applicable
	Cause    error  // pending Java exception that accompanied the failure
}

// Error implements the error interface.
func (p *Problem) Error() string {
	msg := "jnigo: " + p.Message
	if p.Location != "" {
		msg += " at " + p.Location
	}
	if p.Cause != nil {
		msg += ": " + p.Cause.Error()
	}
	return msg
}

// Unwrap returns the accompanying Java exception, if any.
func (p *Problem) Unwrap() error { return p.Cause }

// NewStatusError converts a JNI status code into an error.
// Returns nil if code is JNI_OK.
func NewStatusError(code int32, op string) error {
	if code == OK {
		return nil
	}
	return &Problem{Message: fmt.Sprintf("%s: %s (error %d)", op, statusString(code), code), Code: code}
}

func statusString(code int32) string {
	switch code {
	case ErrCode:
		return "unknown error"
	case EDetached:
		return "thread detached from the VM"
	case EVersion:
		return "JNI version error"
	case -4:
		return "not enough memory"
	case -5:
		return "VM already created"
	case -6:
		return "invalid arguments"
	}
	return "failure"
}

// IsProblem reports whether err is a native-side Problem.
func IsProblem(err error) bool {
	var p *Problem
	return errors.As(err, &p)
}

// IsJavaException reports whether err carries a Java throwable.
func IsJavaException(err error) bool {
	var je *JavaException
	return errors.As(err, &je)
}

// StatusCode returns the JNI status carried by err, or 0.
func StatusCode(err error) int32 {
	var p *Problem
	if errors.As(err, &p) {
		return p.Code
	}
	return 0
}
