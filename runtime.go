package jnigo

import (
	"strings"
	"sync"
)

// GetClass resolves the class of T by name. A class that cannot be found is
// reported as the pending NoClassDefFoundError when there is one, otherwise
// as a *Problem.
func GetClass[T Type](env Env) (Ref[JClass, Local], error) {
	var tag T
	name := tag.ClassName()
	cls := env.FindClass(internalName(name))
	if cls == 0 {
		if err := Check(env); err != nil {
			return Ref[JClass, Local]{}, err
		}
		return Ref[JClass, Local]{}, throwProblem("failed to locate %s", name)
	}
	return AttachLocal[JClass](env, cls), nil
}

// FindClass resolves the class of T by name, returning a nil reference and
// clearing the pending exception when it does not exist.
func FindClass[T Type](env Env) Ref[JClass, Local] {
	var tag T
	cls := env.FindClass(internalName(tag.ClassName()))
	if cls == 0 {
		env.ExceptionClear()
		return Ref[JClass, Local]{}
	}
	return AttachLocal[JClass](env, cls)
}

func internalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// Runtime caches the java.lang members the package itself relies on:
// Object.toString to render exceptions and the Throwable(String) constructor
// to raise Go errors in Java.
type Runtime struct {
	object    Class[JObject]
	toString  ObjectMethod[JString]
	throwable Class[JThrowable]
	ctor      Constructor[JThrowable]
}

var (
	runtimeMu sync.Mutex
	rt        *Runtime
)

// InitRuntime resolves the core classes. It is called lazily by the first
// operation that needs them; calling it explicitly reports lookup failures
// early. Calling it again is a no-op.
func InitRuntime(env Env) error {
	_, err := coreRuntime(env)
	return err
}

// TermRuntime releases the core classes.
func TermRuntime() {
	runtimeMu.Lock()
	r := rt
	rt = nil
	runtimeMu.Unlock()
	if r != nil {
		r.object.Close()
		r.throwable.Close()
	}
}

func coreRuntime(env Env) (*Runtime, error) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if rt != nil {
		return rt, nil
	}
	r, err := newRuntime(env)
	if err != nil {
		return nil, err
	}
	rt = r
	return r, nil
}

func newRuntime(env Env) (*Runtime, error) {
	var r Runtime
	var err error
	if r.object, err = LoadClass[JObject](env); err != nil {
		return nil, err
	}
	if r.toString, err = LookupObjectMethod[JString](env, r.object, "toString"); err != nil {
		r.object.Close()
		return nil, err
	}
	if r.throwable, err = LoadClass[JThrowable](env); err != nil {
		r.object.Close()
		return nil, err
	}
	if r.ctor, err = LookupConstructor[JThrowable](env, r.throwable, Sig[JString]()); err != nil {
		r.object.Close()
		r.throwable.Close()
		return nil, err
	}
	return &r, nil
}

// ToString calls obj.toString() and converts the result to a Go string.
func ToString(env Env, obj Reference) (string, error) {
	r, err := coreRuntime(env)
	if err != nil {
		return "", err
	}
	s, err := r.toString.Call(env, obj)
	if err != nil {
		return "", err
	}
	defer s.Release()
	return GoString(env, s)
}

func newThrowable(env Env, msg string) (Ref[JThrowable, Local], error) {
	r, err := coreRuntime(env)
	if err != nil {
		return Ref[JThrowable, Local]{}, err
	}
	s, err := NewString(env, msg)
	if err != nil {
		return Ref[JThrowable, Local]{}, err
	}
	defer s.Release()
	return r.ctor.New(env, r.throwable, s.Value())
}
