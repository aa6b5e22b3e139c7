package jnigo

// Method wrappers resolve their MethodID once, at lookup, and keep it for
// the lifetime of the wrapper. A lookup failure is reported as a *Problem
// naming the method and its descriptor; the pending NoSuchMethodError, if
// any, becomes its Cause.
//
// Calls check for a pending exception only when the result does not already
// prove success: a null reference or a zero primitive, and always for void.

func lookupMethod(env Env, cls Reference, static bool, name, sig string) (MethodID, error) {
	var id MethodID
	if static {
		id = env.GetStaticMethodID(cls.Raw(), name, sig)
	} else {
		id = env.GetMethodID(cls.Raw(), name, sig)
	}
	if id != 0 {
		return id, nil
	}
	cause := Check(env)
	kind := "method"
	if static {
		kind = "static method"
	}
	return 0, &Problem{
		Message:  "Unable to get " + kind + " " + name + " with signature " + sig,
		Location: callerLocation(2),
		Cause:    cause,
	}
}

func checkPrimitive[R Primitive](env Env, v Value) (R, error) {
	r := fromValue[R](v)
	var zero R
	if r == zero {
		if err := Check(env); err != nil {
			return zero, err
		}
	}
	return r, nil
}

func checkObject[R Type](env Env, v Value) (Ref[R, Local], error) {
	obj := v.Object()
	if obj == 0 {
		return Ref[R, Local]{}, Check(env)
	}
	return AttachLocal[R](env, obj), nil
}

// Method is an instance method returning the primitive R.
type Method[R Primitive] struct {
	id MethodID
}

// LookupMethod resolves an instance method of cls returning R. args are the
// argument descriptors.
func LookupMethod[R Primitive](env Env, cls Reference, name string, args ...string) (Method[R], error) {
	id, err := lookupMethod(env, cls, false, name, MethodSig(Sig[R](), args...))
	return Method[R]{id: id}, err
}

// ID returns the resolved method id.
func (m Method[R]) ID() MethodID { return m.id }

// Call invokes the method virtually on obj.
func (m Method[R]) Call(env Env, obj Reference, args ...Value) (R, error) {
	return checkPrimitive[R](env, env.CallMethod(kindOf[R](), obj.Raw(), m.id, args))
}

// CallNonvirtual invokes the implementation declared by cls, bypassing
// overrides.
func (m Method[R]) CallNonvirtual(env Env, obj, cls Reference, args ...Value) (R, error) {
	return checkPrimitive[R](env, env.CallNonvirtualMethod(kindOf[R](), obj.Raw(), cls.Raw(), m.id, args))
}

// ObjectMethod is an instance method returning a reference of type R.
type ObjectMethod[R Type] struct {
	id MethodID
}

// LookupObjectMethod resolves an instance method of cls returning R.
func LookupObjectMethod[R Type](env Env, cls Reference, name string, args ...string) (ObjectMethod[R], error) {
	id, err := lookupMethod(env, cls, false, name, MethodSig(Sig[R](), args...))
	return ObjectMethod[R]{id: id}, err
}

// ID returns the resolved method id.
func (m ObjectMethod[R]) ID() MethodID { return m.id }

// Call invokes the method virtually. The result is an owned local
// reference; a null result without exception is returned as a nil Ref.
func (m ObjectMethod[R]) Call(env Env, obj Reference, args ...Value) (Ref[R, Local], error) {
	return checkObject[R](env, env.CallMethod(KindObject, obj.Raw(), m.id, args))
}

// CallNonvirtual invokes the implementation declared by cls.
func (m ObjectMethod[R]) CallNonvirtual(env Env, obj, cls Reference, args ...Value) (Ref[R, Local], error) {
	return checkObject[R](env, env.CallNonvirtualMethod(KindObject, obj.Raw(), cls.Raw(), m.id, args))
}

// VoidMethod is an instance method returning nothing.
type VoidMethod struct {
	id MethodID
}

// LookupVoidMethod resolves an instance method of cls returning void.
func LookupVoidMethod(env Env, cls Reference, name string, args ...string) (VoidMethod, error) {
	id, err := lookupMethod(env, cls, false, name, MethodSig("V", args...))
	return VoidMethod{id: id}, err
}

// ID returns the resolved method id.
func (m VoidMethod) ID() MethodID { return m.id }

// Call invokes the method virtually.
func (m VoidMethod) Call(env Env, obj Reference, args ...Value) error {
	env.CallMethod(KindVoid, obj.Raw(), m.id, args)
	return Check(env)
}

// CallNonvirtual invokes the implementation declared by cls.
func (m VoidMethod) CallNonvirtual(env Env, obj, cls Reference, args ...Value) error {
	env.CallNonvirtualMethod(KindVoid, obj.Raw(), cls.Raw(), m.id, args)
	return Check(env)
}

// StaticMethod is a static method returning the primitive R.
type StaticMethod[R Primitive] struct {
	id MethodID
}

// LookupStaticMethod resolves a static method of cls returning R.
func LookupStaticMethod[R Primitive](env Env, cls Reference, name string, args ...string) (StaticMethod[R], error) {
	id, err := lookupMethod(env, cls, true, name, MethodSig(Sig[R](), args...))
	return StaticMethod[R]{id: id}, err
}

// ID returns the resolved method id.
func (m StaticMethod[R]) ID() MethodID { return m.id }

// Call invokes the static method on cls.
func (m StaticMethod[R]) Call(env Env, cls Reference, args ...Value) (R, error) {
	return checkPrimitive[R](env, env.CallStaticMethod(kindOf[R](), cls.Raw(), m.id, args))
}

// StaticObjectMethod is a static method returning a reference of type R.
type StaticObjectMethod[R Type] struct {
	id MethodID
}

// LookupStaticObjectMethod resolves a static method of cls returning R.
func LookupStaticObjectMethod[R Type](env Env, cls Reference, name string, args ...string) (StaticObjectMethod[R], error) {
	id, err := lookupMethod(env, cls, true, name, MethodSig(Sig[R](), args...))
	return StaticObjectMethod[R]{id: id}, err
}

// ID returns the resolved method id.
func (m StaticObjectMethod[R]) ID() MethodID { return m.id }

// Call invokes the static method on cls. The result is an owned local
// reference.
func (m StaticObjectMethod[R]) Call(env Env, cls Reference, args ...Value) (Ref[R, Local], error) {
	return checkObject[R](env, env.CallStaticMethod(KindObject, cls.Raw(), m.id, args))
}

// StaticVoidMethod is a static method returning nothing.
type StaticVoidMethod struct {
	id MethodID
}

// LookupStaticVoidMethod resolves a static method of cls returning void.
func LookupStaticVoidMethod(env Env, cls Reference, name string, args ...string) (StaticVoidMethod, error) {
	id, err := lookupMethod(env, cls, true, name, MethodSig("V", args...))
	return StaticVoidMethod{id: id}, err
}

// ID returns the resolved method id.
func (m StaticVoidMethod) ID() MethodID { return m.id }

// Call invokes the static method on cls.
func (m StaticVoidMethod) Call(env Env, cls Reference, args ...Value) error {
	env.CallStaticMethod(KindVoid, cls.Raw(), m.id, args)
	return Check(env)
}

// Constructor creates instances of T.
type Constructor[T Type] struct {
	id MethodID
}

// LookupConstructor resolves the constructor of cls taking args.
func LookupConstructor[T Type](env Env, cls Reference, args ...string) (Constructor[T], error) {
	id, err := lookupMethod(env, cls, false, "<init>", MethodSig("V", args...))
	return Constructor[T]{id: id}, err
}

// ID returns the resolved method id.
func (c Constructor[T]) ID() MethodID { return c.id }

// New allocates an instance of cls and runs the constructor on it.
func (c Constructor[T]) New(env Env, cls Reference, args ...Value) (Ref[T, Local], error) {
	obj := env.NewObject(cls.Raw(), c.id, args)
	if obj == 0 {
		if err := Check(env); err != nil {
			return Ref[T, Local]{}, err
		}
		return Ref[T, Local]{}, throwProblem("cannot construct %s", Sig[T]())
	}
	return AttachLocal[T](env, obj), nil
}
