// Package jnitest is an in-process stand-in for a Java virtual machine,
// implementing jnigo.VM and jnigo.Env.
//
// It models what the jnigo layer relies on: reference tables with exact
// counts per kind, local frames, pending exceptions, thread attachment,
// classes with fields and methods, strings, arrays with copy-on-access
// elements, direct buffers and native method registration. Java code is
// written as Go functions attached to classes with DefineMethod; native
// methods declared with DefineNative dispatch to the functions registered
// through RegisterNatives, the same way a JVM calls into native code.
//
// It is not a JVM: there is no bytecode, no class loading from disk and no
// real garbage collection. GC marks objects unreachable from strong
// references as collected, which is enough to observe weak reference
// semantics.
package jnitest

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/obinnaokechukwu/jnigo"
	"github.com/obinnaokechukwu/jnigo/internal/handles"
)

// VM is a fake Java virtual machine. The zero value is not usable; call
// NewVM.
type VM struct {
	mu      sync.Mutex
	refs    *handles.Table[*ref]
	methods *handles.Table[*Method]
	fields  *handles.Table[*Field]
	classes map[string]*Class
	threads map[uint64]*Env
	pins    map[unsafe.Pointer]*pin
	nextObj uint64
	misuse  []string
	message *Field

	attached  int
	detached  int
	destroyed bool

	failThrow   atomic.Bool
	maxCapacity int32
}

type ref struct {
	obj  *Object
	kind jnigo.RefType
	env  *Env // owner of a local reference
}

type pin struct {
	obj   *Object
	words []uint64
	chars []uint16
}

// NewVM returns a VM with the java.lang classes jnigo needs already
// defined.
func NewVM() *VM {
	vm := &VM{
		refs:        handles.New[*ref](1, 1),
		methods:     handles.New[*Method](1, 1),
		fields:      handles.New[*Field](1, 1),
		classes:     make(map[string]*Class),
		threads:     make(map[uint64]*Env),
		pins:        make(map[unsafe.Pointer]*pin),
		maxCapacity: 1 << 16,
	}
	vm.defineBuiltins()
	return vm
}

// NewEnv returns an env that is not bound to any thread, as handed to a
// native method.
func (vm *VM) NewEnv() *Env {
	return newEnv(vm, 0)
}

// FailThrow makes Throw and ThrowNew fail while set.
func (vm *VM) FailThrow(fail bool) { vm.failThrow.Store(fail) }

// LiveRefs returns the number of live references of the given type.
func (vm *VM) LiveRefs(kind jnigo.RefType) int {
	n := 0
	vm.refs.Range(func(_ uintptr, r *ref) bool {
		if r.kind == kind {
			n++
		}
		return true
	})
	return n
}

// Misuse returns the API misuse detected so far, such as deleting a
// reference twice.
func (vm *VM) Misuse() []string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]string(nil), vm.misuse...)
}

// Attached returns how many threads were attached through the invocation
// interface.
func (vm *VM) Attached() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.attached
}

// Detached returns how many threads were detached.
func (vm *VM) Detached() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.detached
}

// Pinned returns the number of array element and string character buffers
// handed out and not yet released.
func (vm *VM) Pinned() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.pins)
}

// GC marks every object that is not reachable from a local or global
// reference, a class or a static field as collected. Weak references to
// collected objects behave as null.
func (vm *VM) GC() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	live := make(map[*Object]bool)
	var mark func(o *Object)
	mark = func(o *Object) {
		if o == nil || live[o] {
			return
		}
		live[o] = true
		for _, s := range o.fields {
			mark(s.o)
		}
		for _, e := range o.elems {
			mark(e)
		}
	}
	for _, c := range vm.classes {
		mark(c.obj)
		for _, f := range c.fields {
			mark(f.value.o)
		}
	}
	var weak []*Object
	vm.refs.Range(func(_ uintptr, r *ref) bool {
		if r.kind == jnigo.RefTypeWeakGlobal {
			weak = append(weak, r.obj)
		} else {
			mark(r.obj)
		}
		return true
	})
	for _, o := range weak {
		if o != nil && !live[o] {
			o.dead = true
		}
	}
}

// GetEnv implements jnigo.VM.
func (vm *VM) GetEnv(version int32) (jnigo.Env, int32) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.destroyed {
		return nil, jnigo.ErrCode
	}
	if version > jnigo.Version1_8 {
		return nil, jnigo.EVersion
	}
	env, ok := vm.threads[jnigo.ThreadID()]
	if !ok {
		return nil, jnigo.EDetached
	}
	return env, jnigo.OK
}

// AttachCurrentThread implements jnigo.VM.
func (vm *VM) AttachCurrentThread() (jnigo.Env, int32) {
	return vm.attach(false)
}

// AttachCurrentThreadAsDaemon implements jnigo.VM.
func (vm *VM) AttachCurrentThreadAsDaemon() (jnigo.Env, int32) {
	return vm.attach(true)
}

func (vm *VM) attach(daemon bool) (jnigo.Env, int32) {
	tid := jnigo.ThreadID()
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.destroyed {
		return nil, jnigo.ErrCode
	}
	if env, ok := vm.threads[tid]; ok {
		return env, jnigo.OK
	}
	env := newEnv(vm, tid)
	env.daemon = daemon
	vm.threads[tid] = env
	vm.attached++
	return env, jnigo.OK
}

// DetachCurrentThread implements jnigo.VM. Local references of the thread
// are freed.
func (vm *VM) DetachCurrentThread() int32 {
	tid := jnigo.ThreadID()
	vm.mu.Lock()
	env, ok := vm.threads[tid]
	if !ok {
		vm.mu.Unlock()
		return jnigo.EDetached
	}
	delete(vm.threads, tid)
	vm.detached++
	vm.mu.Unlock()

	for len(env.frames) > 0 {
		env.popFrame()
	}
	env.mu.Lock()
	env.frames = [][]jnigo.Jobject{nil}
	env.pending = nil
	env.mu.Unlock()
	return jnigo.OK
}

// DestroyJavaVM implements jnigo.VM.
func (vm *VM) DestroyJavaVM() int32 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.destroyed = true
	return jnigo.OK
}

// IsAttached reports whether the calling OS thread is attached.
func (vm *VM) IsAttached() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := vm.threads[jnigo.ThreadID()]
	return ok
}

func (vm *VM) misused(format string, args ...any) {
	vm.mu.Lock()
	vm.misuse = append(vm.misuse, fmt.Sprintf(format, args...))
	vm.mu.Unlock()
}

// newRef registers a reference to o. Null objects get the null reference.
func (vm *VM) newRef(o *Object, kind jnigo.RefType, owner *Env) jnigo.Jobject {
	if o == nil {
		return 0
	}
	id := jnigo.Jobject(vm.refs.Register(&ref{obj: o, kind: kind, env: owner}))
	if kind == jnigo.RefTypeLocal && owner != nil {
		owner.track(id)
	}
	return id
}

// resolve returns the object behind a reference, nil for null references
// and for weak references to collected objects.
func (vm *VM) resolve(obj jnigo.Jobject) *Object {
	if obj == 0 {
		return nil
	}
	r, ok := vm.refs.Lookup(uintptr(obj))
	if !ok {
		vm.misused("use of invalid reference %#x", uintptr(obj))
		return nil
	}
	if r.obj.dead {
		return nil
	}
	return r.obj
}

func (vm *VM) deleteRef(obj jnigo.Jobject, kind jnigo.RefType) {
	if obj == 0 {
		return
	}
	r, ok := vm.refs.Lookup(uintptr(obj))
	if !ok {
		vm.misused("delete of invalid %s reference %#x", refTypeName(kind), uintptr(obj))
		return
	}
	if r.kind != kind {
		vm.misused("delete of %s reference %#x as %s", refTypeName(r.kind), uintptr(obj), refTypeName(kind))
		return
	}
	vm.refs.Unregister(uintptr(obj))
	if r.env != nil {
		r.env.untrack(obj)
	}
}

func refTypeName(k jnigo.RefType) string {
	switch k {
	case jnigo.RefTypeLocal:
		return "local"
	case jnigo.RefTypeGlobal:
		return "global"
	case jnigo.RefTypeWeakGlobal:
		return "weak global"
	}
	return "invalid"
}

func (vm *VM) newObject(c *Class) *Object {
	vm.mu.Lock()
	vm.nextObj++
	id := vm.nextObj
	vm.mu.Unlock()
	return &Object{id: id, class: c, fields: make(map[*Field]slot)}
}

// Class returns the class named name, in binary form with dots, or nil.
func (vm *VM) Class(name string) *Class {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.classes[strings.ReplaceAll(name, "/", ".")]
}

// arrayClass returns the class of arrays described by desc, creating it on
// first use.
func (vm *VM) arrayClass(desc string) *Class {
	if c := vm.Class(desc); c != nil {
		return c
	}
	return vm.DefineClass(desc, "java.lang.Object")
}
