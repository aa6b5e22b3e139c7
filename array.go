package jnigo

import (
	"iter"
	"unsafe"
)

// ArrayLength returns the length of a Java array. A null array has length 0.
func ArrayLength(env Env, arr Reference) (int, error) {
	if arr.Raw() == 0 {
		return 0, nil
	}
	n := env.GetArrayLength(arr.Raw())
	if err := Check(env); err != nil {
		return 0, err
	}
	return int(n), nil
}

// NewArray creates a primitive array of length n.
func NewArray[E Primitive](env Env, n int) (Ref[JArrayOf[E], Local], error) {
	obj := env.NewPrimitiveArray(kindOf[E](), int32(n))
	if obj == 0 {
		if err := Check(env); err != nil {
			return Ref[JArrayOf[E], Local]{}, err
		}
		return Ref[JArrayOf[E], Local]{}, throwProblem("cannot create java array")
	}
	return AttachLocal[JArrayOf[E]](env, obj), nil
}

// NewArrayFrom creates a primitive array holding a copy of data.
func NewArrayFrom[E Primitive](env Env, data []E) (Ref[JArrayOf[E], Local], error) {
	arr, err := NewArray[E](env, len(data))
	if err != nil {
		return arr, err
	}
	if err := SetArrayRegion(env, arr, 0, data); err != nil {
		arr.Release()
		return arr, err
	}
	return arr, nil
}

// GetArrayRegion copies len(buf) elements starting at start into buf.
func GetArrayRegion[E Primitive, D Discipline](env Env, arr Ref[JArrayOf[E], D], start int, buf []E) error {
	if len(buf) == 0 {
		return nil
	}
	env.GetArrayRegion(kindOf[E](), arr.Raw(), int32(start), int32(len(buf)), unsafe.Pointer(&buf[0]))
	return Check(env)
}

// SetArrayRegion copies data into the array starting at start.
func SetArrayRegion[E Primitive, D Discipline](env Env, arr Ref[JArrayOf[E], D], start int, data []E) error {
	if len(data) == 0 {
		return nil
	}
	env.SetArrayRegion(kindOf[E](), arr.Raw(), int32(start), int32(len(data)), unsafe.Pointer(&data[0]))
	return Check(env)
}

// ArrayAccess exposes the elements of a primitive array as a Go slice.
//
// The JVM may hand out a copy of the elements. Release discards changes made
// through Data; Commit writes them back.
type ArrayAccess[E Primitive] struct {
	env  Env
	arr  Jobject
	data unsafe.Pointer
	n    int
}

// AccessArray pins the elements of arr. A null array yields an empty access.
// Release must be called when done, usually deferred.
func AccessArray[E Primitive, D Discipline](env Env, arr Ref[JArrayOf[E], D]) (*ArrayAccess[E], error) {
	a := &ArrayAccess[E]{env: env, arr: arr.Raw()}
	if arr.IsNil() {
		return a, nil
	}
	n, err := ArrayLength(env, arr)
	if err != nil {
		return nil, err
	}
	data := env.GetArrayElements(kindOf[E](), arr.Raw())
	if data == nil {
		if err := Check(env); err != nil {
			return nil, err
		}
		return nil, throwProblem("cannot access java array")
	}
	a.data, a.n = data, n
	return a, nil
}

// Len returns the number of elements.
func (a *ArrayAccess[E]) Len() int { return a.n }

// Data returns the elements. It returns nil once the access has been
// committed with done or released.
func (a *ArrayAccess[E]) Data() []E {
	if a.data == nil {
		return nil
	}
	return unsafe.Slice((*E)(a.data), a.n)
}

// At returns element i, or ErrIndexOutOfRange.
func (a *ArrayAccess[E]) At(i int) (E, error) {
	if i < 0 || i >= a.Len() || a.data == nil {
		var zero E
		return zero, ErrIndexOutOfRange
	}
	return a.Data()[i], nil
}

// Commit writes changes back to the array. With done the access is
// finished and Data returns nil afterwards; otherwise it stays usable.
func (a *ArrayAccess[E]) Commit(done bool) {
	if a.data == nil {
		return
	}
	if done {
		a.env.ReleaseArrayElements(kindOf[E](), a.arr, a.data, ReleaseCommit)
		a.data, a.n = nil, 0
		return
	}
	a.env.ReleaseArrayElements(kindOf[E](), a.arr, a.data, ReleaseCommitKeep)
}

// Release ends the access without writing changes back.
func (a *ArrayAccess[E]) Release() {
	if a.data == nil {
		return
	}
	a.env.ReleaseArrayElements(kindOf[E](), a.arr, a.data, ReleaseAbort)
	a.data, a.n = nil, 0
}

// NewObjectArray creates an array of n references to E, each set to init
// (which may be a nil Ref). cls is the element class.
func NewObjectArray[E Type](env Env, n int, cls, init Reference) (Ref[JObjectArray[E], Local], error) {
	var raw Jobject
	if init != nil {
		raw = init.Raw()
	}
	obj := env.NewObjectArray(int32(n), cls.Raw(), raw)
	if obj == 0 {
		if err := Check(env); err != nil {
			return Ref[JObjectArray[E], Local]{}, err
		}
		return Ref[JObjectArray[E], Local]{}, throwProblem("cannot create java array")
	}
	return AttachLocal[JObjectArray[E]](env, obj), nil
}

// ObjectArrayAccess reads and writes the elements of an object array.
type ObjectArrayAccess[E Type] struct {
	env Env
	arr Jobject
	n   int
}

// AccessObjectArray prepares element access to arr. A null array has no
// elements.
func AccessObjectArray[E Type, D Discipline](env Env, arr Ref[JObjectArray[E], D]) (*ObjectArrayAccess[E], error) {
	n, err := ArrayLength(env, arr)
	if err != nil {
		return nil, err
	}
	return &ObjectArrayAccess[E]{env: env, arr: arr.Raw(), n: n}, nil
}

// Len returns the number of elements.
func (a *ObjectArrayAccess[E]) Len() int { return a.n }

// Get returns element i as an owned local reference. Indexes are checked by
// the JVM.
func (a *ObjectArrayAccess[E]) Get(i int) (Ref[E, Local], error) {
	obj := a.env.GetObjectArrayElement(a.arr, int32(i))
	if err := Check(a.env); err != nil {
		return Ref[E, Local]{}, err
	}
	return AttachLocal[E](a.env, obj), nil
}

// Set stores v at index i. A nil v stores null.
func (a *ObjectArrayAccess[E]) Set(i int, v Reference) error {
	a.env.SetObjectArrayElement(a.arr, int32(i), rawOf(v))
	return Check(a.env)
}

// At is Get with a bounds check on the native side.
func (a *ObjectArrayAccess[E]) At(i int) (Ref[E, Local], error) {
	if i < 0 || i >= a.n {
		return Ref[E, Local]{}, ErrIndexOutOfRange
	}
	return a.Get(i)
}

// Elem returns a proxy for element i.
func (a *ObjectArrayAccess[E]) Elem(i int) Elem[E] {
	return Elem[E]{a: a, i: i}
}

// All iterates over the elements. Each element is a view of a local
// reference that is deleted when the loop body returns; keep one with
// Acquire. Iteration stops at the first error, which is yielded.
func (a *ObjectArrayAccess[E]) All() iter.Seq2[Ref[E, Auto], error] {
	return func(yield func(Ref[E, Auto], error) bool) {
		for i := 0; i < a.n; i++ {
			r, err := a.Get(i)
			if err != nil {
				yield(Ref[E, Auto]{}, err)
				return
			}
			more := yield(r.Borrow(), nil)
			r.Release()
			if !more {
				return
			}
		}
	}
}

// Elem is a reference to one element of an object array.
type Elem[E Type] struct {
	a *ObjectArrayAccess[E]
	i int
}

// Load reads the element.
func (e Elem[E]) Load() (Ref[E, Local], error) { return e.a.Get(e.i) }

// Store writes the element.
func (e Elem[E]) Store(v Reference) error { return e.a.Set(e.i, v) }

// NewStringArray creates a String[] holding the given strings.
func NewStringArray(env Env, values []string) (Ref[JObjectArray[JString], Local], error) {
	cls, err := LoadClass[JString](env)
	if err != nil {
		return Ref[JObjectArray[JString], Local]{}, err
	}
	defer cls.Close()
	arr, err := NewObjectArray[JString](env, len(values), cls, nil)
	if err != nil {
		return arr, err
	}
	access, err := AccessObjectArray(env, arr)
	if err != nil {
		arr.Release()
		return arr, err
	}
	for i, v := range values {
		s, err := NewString(env, v)
		if err == nil {
			err = access.Set(i, s)
			s.Release()
		}
		if err != nil {
			arr.Release()
			return arr, err
		}
	}
	return arr, nil
}

// GoStrings converts a String[] to Go strings. Null elements become "".
func GoStrings[D Discipline](env Env, arr Ref[JObjectArray[JString], D]) ([]string, error) {
	access, err := AccessObjectArray(env, arr)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, access.Len())
	for s, err := range access.All() {
		if err != nil {
			return nil, err
		}
		v, err := GoString(env, s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
