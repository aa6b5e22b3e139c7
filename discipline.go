package jnigo

import "runtime"

// RefKind names a reference discipline.
type RefKind int

const (
	AutoRef RefKind = iota
	LocalRef
	GlobalRef
	WeakRef
)

func (k RefKind) String() string {
	switch k {
	case AutoRef:
		return "auto"
	case LocalRef:
		return "local"
	case GlobalRef:
		return "global"
	case WeakRef:
		return "weak"
	}
	return "unknown"
}

// Discipline is the ownership strategy of a Ref. The four implementations
// are Auto, Local, Global and Weak; the set is closed.
type Discipline interface {
	Kind() RefKind
	dup(env Env, obj Jobject) Jobject
	del(env Env, obj Jobject)
}

// Auto is the borrowed discipline: the handle is owned by someone else, for
// example the JVM for the arguments of a native method. Duplicating and
// releasing are no-ops.
type Auto struct{}

// Local owns a local reference, valid on the creating thread until the
// enclosing native frame returns or the reference is released.
type Local struct{}

// Global owns a global reference, valid on any thread until released.
type Global struct{}

// Weak owns a weak global reference. The referent may be collected at any
// time; use Promote to obtain a strong reference.
type Weak struct{}

func (Auto) Kind() RefKind   { return AutoRef }
func (Local) Kind() RefKind  { return LocalRef }
func (Global) Kind() RefKind { return GlobalRef }
func (Weak) Kind() RefKind   { return WeakRef }

func (Auto) dup(_ Env, obj Jobject) Jobject     { return obj }
func (Local) dup(env Env, obj Jobject) Jobject  { return env.NewLocalRef(obj) }
func (Global) dup(env Env, obj Jobject) Jobject { return env.NewGlobalRef(obj) }
func (Weak) dup(env Env, obj Jobject) Jobject   { return env.NewWeakGlobalRef(obj) }

func (Auto) del(Env, Jobject)            {}
func (Local) del(env Env, obj Jobject)  { env.DeleteLocalRef(obj) }
func (Global) del(env Env, obj Jobject) { env.DeleteGlobalRef(obj) }
func (Weak) del(env Env, obj Jobject)   { env.DeleteWeakGlobalRef(obj) }

// acquire duplicates obj under discipline D. A nil env is resolved through
// the provider, with the goroutine locked to its OS thread until the call
// returns. Failure is fatal: a reference that cannot be duplicated
// leaves no consistent state to return to.
func acquire[D Discipline](env Env, obj Jobject) Jobject {
	var d D
	if obj == 0 || d.Kind() == AutoRef {
		return obj
	}
	if env == nil {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		env = CurrentEnv()
	}
	out := d.dup(env, obj)
	if out == 0 && env.ExceptionCheck() {
		fatal(&Problem{Message: "cannot create " + d.Kind().String() + " reference", Location: callerLocation(1)})
	}
	if out != 0 {
		stats.acquired(d.Kind())
	}
	return out
}

// adopt records ownership of a handle created elsewhere.
func adopt[D Discipline](obj Jobject) Jobject {
	var d D
	if obj != 0 && d.Kind() != AutoRef {
		stats.acquired(d.Kind())
	}
	return obj
}

// release deletes obj under discipline D. Failures are logged, never
// returned.
func release[D Discipline](env Env, obj Jobject) {
	var d D
	if obj == 0 || d.Kind() == AutoRef {
		return
	}
	if env == nil {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		var err error
		if env, err = currentEnv(); err != nil {
			logError(err, "cannot release %s reference", d.Kind())
			return
		}
	}
	d.del(env, obj)
	stats.released(d.Kind())
}
