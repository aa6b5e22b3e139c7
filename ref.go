package jnigo

// Ref is a typed handle to a managed object under ownership discipline D.
//
// The zero Ref is the null reference for every discipline. Refs are values;
// copying one with assignment copies the raw handle without acquiring, so an
// owning Ref must be passed on with Move or duplicated with Clone. Release
// the reference when done, typically with defer:
//
//	s, err := jnigo.NewString(env, "hello")
//	if err != nil {
//		return err
//	}
//	defer s.Release()
type Ref[T Type, D Discipline] struct {
	obj Jobject
	env Env // set for Local only
}

// Reference is implemented by every Ref.
type Reference interface {
	Raw() Jobject
}

// rawOf returns the handle of r, or null for a nil r.
func rawOf(r Reference) Jobject {
	if r == nil {
		return 0
	}
	return r.Raw()
}

// Borrow wraps a raw handle owned by someone else. It is the only way to
// build a Ref from a raw handle without naming an acquire or attach
// operation.
func Borrow[T Type](obj Jobject) Ref[T, Auto] {
	return Ref[T, Auto]{obj: obj}
}

// NewLocalRef creates a new local reference to obj.
func NewLocalRef[T Type](env Env, obj Jobject) Ref[T, Local] {
	return Ref[T, Local]{obj: acquire[Local](env, obj), env: env}
}

// NewGlobalRef creates a new global reference to obj.
func NewGlobalRef[T Type](env Env, obj Jobject) Ref[T, Global] {
	return Ref[T, Global]{obj: acquire[Global](env, obj)}
}

// NewWeakRef creates a new weak global reference to obj.
func NewWeakRef[T Type](env Env, obj Jobject) Ref[T, Weak] {
	return Ref[T, Weak]{obj: acquire[Weak](env, obj)}
}

// AttachLocal takes ownership of a local reference returned by a JNI call.
func AttachLocal[T Type](env Env, obj Jobject) Ref[T, Local] {
	return Ref[T, Local]{obj: adopt[Local](obj), env: env}
}

// AttachGlobal takes ownership of an existing global reference.
func AttachGlobal[T Type](obj Jobject) Ref[T, Global] {
	return Ref[T, Global]{obj: adopt[Global](obj)}
}

// AttachWeak takes ownership of an existing weak global reference.
func AttachWeak[T Type](obj Jobject) Ref[T, Weak] {
	return Ref[T, Weak]{obj: adopt[Weak](obj)}
}

// Acquire duplicates src under discipline D2. src keeps its own reference.
// env is required when D2 is Local; for Global and Weak a nil env means the
// calling thread's env from the provider.
func Acquire[D2 Discipline, T Type, D1 Discipline](env Env, src Ref[T, D1]) Ref[T, D2] {
	var d D2
	out := Ref[T, D2]{obj: acquire[D2](env, src.obj)}
	if d.Kind() == LocalRef {
		out.env = env
	}
	return out
}

// Promote obtains a local reference from a weak one. It reports false when
// the referent has been collected.
func Promote[T Type](env Env, w Ref[T, Weak]) (Ref[T, Local], bool) {
	if w.obj == 0 {
		return Ref[T, Local]{}, false
	}
	local := env.NewLocalRef(w.obj)
	if local == 0 {
		return Ref[T, Local]{}, false
	}
	return AttachLocal[T](env, local), true
}

// Raw returns the underlying handle without giving up ownership.
func (r Ref[T, D]) Raw() Jobject { return r.obj }

// IsNil reports whether r is the null reference.
func (r Ref[T, D]) IsNil() bool { return r.obj == 0 }

// Value returns r as a call argument.
func (r Ref[T, D]) Value() Value { return Obj(r.obj) }

// Kind returns the discipline of r.
func (r Ref[T, D]) Kind() RefKind {
	var d D
	return d.Kind()
}

// Borrow returns a non-owning view of r.
func (r Ref[T, D]) Borrow() Ref[T, Auto] {
	return Ref[T, Auto]{obj: r.obj}
}

// Clone duplicates the reference under the same discipline.
func (r Ref[T, D]) Clone() Ref[T, D] {
	return Ref[T, D]{obj: acquire[D](r.env, r.obj), env: r.env}
}

// Move transfers ownership to the returned Ref and leaves r null.
func (r *Ref[T, D]) Move() Ref[T, D] {
	out := *r
	*r = Ref[T, D]{}
	return out
}

// Leak gives up ownership and returns the raw handle, for example to return
// a local reference from a native method.
func (r *Ref[T, D]) Leak() Jobject {
	obj := r.obj
	if obj != 0 {
		stats.released(r.Kind())
	}
	*r = Ref[T, D]{}
	return obj
}

// Swap exchanges the handles of r and o.
func (r *Ref[T, D]) Swap(o *Ref[T, D]) {
	*r, *o = *o, *r
}

// Release deletes the reference and sets r to null. Releasing a null Ref is
// a no-op.
func (r *Ref[T, D]) Release() {
	if r.obj == 0 {
		return
	}
	release[D](r.env, r.obj)
	*r = Ref[T, D]{}
}

// Reset releases the current reference and adopts obj in its place.
func (r *Ref[T, D]) Reset(obj Jobject) {
	env := r.env
	r.Release()
	r.obj = adopt[D](obj)
	if r.Kind() == LocalRef {
		r.env = env
	}
}

func (r Ref[T, D]) descriptor() string { return Sig[T]() }
