package jnigo

import (
	"reflect"
	"sync"
)

// Class is a shared handle to the java.lang.Class of tag type T.
//
// Classes are cached process-wide per tag type. The first LoadClass resolves
// the class and pins it with a global reference; later calls share that
// reference for as long as at least one Class[T] is open. When the last one
// is closed the global reference is deleted and the next LoadClass resolves
// the class again.
type Class[T Type] struct {
	h *classHolder
}

type classHolder struct {
	key  reflect.Type
	ref  Ref[JClass, Global]
	refs int // guarded by classCache.mu
}

var classCache = struct {
	mu      sync.Mutex
	holders map[reflect.Type]*classHolder
	loading map[reflect.Type]*sync.Mutex // one per tag type, never removed
}{
	holders: make(map[reflect.Type]*classHolder),
	loading: make(map[reflect.Type]*sync.Mutex),
}

// loadLock returns the mutex serializing loads of the class keyed by key.
func loadLock(key reflect.Type) *sync.Mutex {
	classCache.mu.Lock()
	defer classCache.mu.Unlock()
	l, ok := classCache.loading[key]
	if !ok {
		l = new(sync.Mutex)
		classCache.loading[key] = l
	}
	return l
}

// lookupHolder retains and returns the cached holder for key, if any.
func lookupHolder(key reflect.Type) *classHolder {
	classCache.mu.Lock()
	defer classCache.mu.Unlock()
	h, ok := classCache.holders[key]
	if ok {
		h.refs++
	}
	return h
}

// ClassLoader resolves a class, returning an owned local reference.
type ClassLoader func(env Env) (Ref[JClass, Local], error)

// LoadClass returns the cached class of T, resolving it by name on a miss.
func LoadClass[T Type](env Env) (Class[T], error) {
	return LoadClassWith[T](env, GetClass[T])
}

// LoadClassWith is LoadClass with a custom loader, for classes that are not
// reachable by name from the calling thread's class loader.
func LoadClassWith[T Type](env Env, load ClassLoader) (Class[T], error) {
	key := reflect.TypeFor[T]()
	if h := lookupHolder(key); h != nil {
		return Class[T]{h: h}, nil
	}

	// load runs without classCache.mu held; only loads of the same class
	// are serialized.
	l := loadLock(key)
	l.Lock()
	defer l.Unlock()
	if h := lookupHolder(key); h != nil {
		return Class[T]{h: h}, nil
	}
	local, err := load(env)
	if err != nil {
		return Class[T]{}, err
	}
	defer local.Release()
	h := &classHolder{key: key, ref: Acquire[Global](env, local), refs: 1}

	classCache.mu.Lock()
	classCache.holders[key] = h
	classCache.mu.Unlock()
	return Class[T]{h: h}, nil
}

// Raw returns the class handle.
func (c Class[T]) Raw() Jobject {
	if c.h == nil {
		return 0
	}
	return c.h.ref.Raw()
}

// IsNil reports whether c holds no class.
func (c Class[T]) IsNil() bool { return c.h == nil }

// Ref returns a non-owning view of the class reference.
func (c Class[T]) Ref() Ref[JClass, Auto] {
	return Borrow[JClass](c.Raw())
}

// Retain returns another handle sharing the same cached class.
func (c Class[T]) Retain() Class[T] {
	if c.h == nil {
		return c
	}
	classCache.mu.Lock()
	c.h.refs++
	classCache.mu.Unlock()
	return c
}

// Close gives up this handle. Closing the last handle evicts the class from
// the cache and deletes its global reference.
func (c *Class[T]) Close() error {
	h := c.h
	if h == nil {
		return nil
	}
	c.h = nil

	classCache.mu.Lock()
	h.refs--
	last := h.refs == 0
	if last && classCache.holders[h.key] == h {
		delete(classCache.holders, h.key)
	}
	classCache.mu.Unlock()

	if last {
		h.ref.Release()
	}
	return nil
}

// IsInstanceOf reports whether obj is an instance of the class.
func (c Class[T]) IsInstanceOf(env Env, obj Reference) bool {
	return env.IsInstanceOf(obj.Raw(), c.Raw())
}

// RegisterNatives binds Go functions to the class's native methods.
func (c Class[T]) RegisterNatives(env Env, methods ...NativeMethod) error {
	if code := env.RegisterNatives(c.Raw(), methods); code != OK {
		if err := Check(env); err != nil {
			return &Problem{Message: "unable to register native methods", Code: code, Cause: err}
		}
		return throwProblem("unable to register native methods, error %d", code)
	}
	return nil
}

// UnregisterNatives removes all native bindings of the class.
func (c Class[T]) UnregisterNatives(env Env) error {
	return NewStatusError(env.UnregisterNatives(c.Raw()), "UnregisterNatives")
}

// cachedClasses returns the number of classes in the cache.
func cachedClasses() int {
	classCache.mu.Lock()
	defer classCache.mu.Unlock()
	return len(classCache.holders)
}
