package jnigo

import (
	"errors"
	"sync"

	"go.uber.org/multierr"
)

// JavaException is a Java throwable caught on the native side. It holds a
// global reference to the throwable, so it can cross goroutines and be
// rethrown later with Translate.
type JavaException struct {
	throwable Ref[JThrowable, Global]

	once sync.Once
	msg  string
}

// Check converts a pending Java exception into a *JavaException and clears
// it. It returns nil when no exception is pending.
func Check(env Env) error {
	t := env.ExceptionOccurred()
	if t == 0 {
		return nil
	}
	env.ExceptionClear()
	local := AttachLocal[JThrowable](env, t)
	defer local.Release()
	return &JavaException{throwable: Acquire[Global](env, local)}
}

// NewJavaException wraps a throwable in a JavaException, acquiring a global
// reference to it.
func NewJavaException(env Env, throwable Reference) *JavaException {
	return &JavaException{throwable: NewGlobalRef[JThrowable](env, throwable.Raw())}
}

// Throwable returns a view of the captured throwable.
func (e *JavaException) Throwable() Ref[JThrowable, Auto] {
	return e.throwable.Borrow()
}

// Error renders the exception through Throwable.toString. The text is
// computed once, through Provider.Do: the goroutine is locked to its OS
// thread for the call, and a thread the provider had to attach for it is
// detached again afterwards.
func (e *JavaException) Error() string {
	e.once.Do(func() {
		e.msg = "jnigo: java exception"
		p := Current()
		if p == nil || e.throwable.IsNil() {
			return
		}
		p.Do(func(env Env) error {
			s, err := ToString(env, e.throwable)
			if err != nil {
				return err
			}
			e.msg += ": " + s
			return nil
		})
	})
	return e.msg
}

// Release deletes the global reference to the throwable.
func (e *JavaException) Release() {
	e.throwable.Release()
}

// Raise makes throwable the pending exception of env.
func Raise(env Env, throwable Reference) error {
	if env.Throw(throwable.Raw()) != OK {
		return throwProblem("cannot throw java exception")
	}
	return nil
}

// Translate raises err as a Java exception on env: a *JavaException is
// rethrown as is, any other error becomes a java.lang.Throwable carrying
// err.Error(). A nil err does nothing. Failing to raise is fatal, since the
// native frame is about to return to Java with no way to report the error.
func Translate(env Env, err error) {
	if err == nil {
		return
	}
	var je *JavaException
	if errors.As(err, &je) && !je.throwable.IsNil() {
		if rerr := Raise(env, je.throwable); rerr != nil {
			fatal(rerr)
		}
		return
	}
	t, terr := newThrowable(env, err.Error())
	if terr != nil {
		fatal(multierr.Combine(err, terr))
		return
	}
	defer t.Release()
	if rerr := Raise(env, t); rerr != nil {
		fatal(rerr)
	}
}
