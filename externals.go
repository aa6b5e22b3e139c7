package jnigo

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// ProblemFunc builds the error reported for an internal problem. location is
// the file:line that detected it.
type ProblemFunc func(location, message string) error

// LogFunc receives failures that cannot be returned to anyone, such as a
// reference release that failed.
type LogFunc func(err error, message string)

var (
	logger     *zap.Logger
	loggerOnce sync.Once

	hooksMu     sync.RWMutex
	problemHook ProblemFunc
	logHook     LogFunc
	terminate   func(error)
)

// Logger returns the package logger. Until SetLogger is called it is a
// production logger writing to stderr, or a no-op logger if that cannot be
// built.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			l, err := zap.NewProduction()
			if err != nil {
				l = zap.NewNop()
			}
			logger = l
		}
	})
	return logger
}

// SetLogger configures the package logger.
// This must be called before any other jnigo operation.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

// SetExternals installs the problem and log hooks. A nil hook restores the
// default: problems become *Problem values and log messages go to Logger().
func SetExternals(problem ProblemFunc, log LogFunc) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	problemHook = problem
	logHook = log
}

// SetTerminate replaces the function called on unrecoverable failures. The
// default logs at fatal level, which exits the process. A replacement that
// returns causes the failing operation to panic with the error.
func SetTerminate(fn func(error)) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	terminate = fn
}

// throwProblem builds the error for a problem detected by its caller.
func throwProblem(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	loc := callerLocation(1)

	hooksMu.RLock()
	hook := problemHook
	hooksMu.RUnlock()
	if hook != nil {
		if err := hook(loc, msg); err != nil {
			return err
		}
	}
	return &Problem{Message: msg, Location: loc}
}

func logError(err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	hooksMu.RLock()
	hook := logHook
	hooksMu.RUnlock()
	if hook != nil {
		hook(err, msg)
		return
	}
	Logger().Error(msg, zap.Error(err))
}

// fatal logs err and terminates. It only returns if a replacement terminate
// hook returned, in which case it panics.
func fatal(err error) {
	logError(err, "fatal boundary failure")

	hooksMu.RLock()
	fn := terminate
	hooksMu.RUnlock()
	if fn == nil {
		Logger().Fatal("terminating", zap.Error(err))
		os.Exit(1)
	}
	fn(err)
	panic(err)
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", shortFile(file), line)
}

func shortFile(file string) string {
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			return file[i+1:]
		}
	}
	return file
}
