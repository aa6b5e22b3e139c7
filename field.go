package jnigo

func lookupField(env Env, cls Reference, static bool, name, sig string) (FieldID, error) {
	var id FieldID
	if static {
		id = env.GetStaticFieldID(cls.Raw(), name, sig)
	} else {
		id = env.GetFieldID(cls.Raw(), name, sig)
	}
	if id != 0 {
		return id, nil
	}
	cause := Check(env)
	kind := "field"
	if static {
		kind = "static field"
	}
	return 0, &Problem{
		Message:  "Unable to get " + kind + " " + name + " with signature " + sig,
		Location: callerLocation(2),
		Cause:    cause,
	}
}

// Field is an instance field of primitive type R.
type Field[R Primitive] struct {
	id FieldID
}

// LookupField resolves an instance field of cls.
func LookupField[R Primitive](env Env, cls Reference, name string) (Field[R], error) {
	id, err := lookupField(env, cls, false, name, Sig[R]())
	return Field[R]{id: id}, err
}

// ID returns the resolved field id.
func (f Field[R]) ID() FieldID { return f.id }

// Get reads the field of obj.
func (f Field[R]) Get(env Env, obj Reference) (R, error) {
	return checkPrimitive[R](env, env.GetField(kindOf[R](), obj.Raw(), f.id))
}

// Set writes v to the field of obj.
func (f Field[R]) Set(env Env, obj Reference, v R) error {
	env.SetField(kindOf[R](), obj.Raw(), f.id, toValue(v))
	return Check(env)
}

// ObjectField is an instance field holding a reference of type R.
type ObjectField[R Type] struct {
	id FieldID
}

// LookupObjectField resolves an instance field of cls holding an R.
func LookupObjectField[R Type](env Env, cls Reference, name string) (ObjectField[R], error) {
	id, err := lookupField(env, cls, false, name, Sig[R]())
	return ObjectField[R]{id: id}, err
}

// ID returns the resolved field id.
func (f ObjectField[R]) ID() FieldID { return f.id }

// Get returns a new local reference to the field's value of obj.
func (f ObjectField[R]) Get(env Env, obj Reference) (Ref[R, Local], error) {
	return checkObject[R](env, env.GetField(KindObject, obj.Raw(), f.id))
}

// Set stores v in the field of obj. A nil v stores null.
func (f ObjectField[R]) Set(env Env, obj, v Reference) error {
	env.SetField(KindObject, obj.Raw(), f.id, Obj(rawOf(v)))
	return Check(env)
}

// StaticField is a static field of primitive type R declared by class C.
// It keeps the class open until Close.
type StaticField[R Primitive, C Type] struct {
	id  FieldID
	cls Class[C]
}

// LookupStaticField resolves a static field of cls.
func LookupStaticField[R Primitive, C Type](env Env, cls Class[C], name string) (StaticField[R, C], error) {
	id, err := lookupField(env, cls, true, name, Sig[R]())
	if err != nil {
		return StaticField[R, C]{}, err
	}
	return StaticField[R, C]{id: id, cls: cls.Retain()}, nil
}

// ID returns the resolved field id.
func (f StaticField[R, C]) ID() FieldID { return f.id }

// Get reads the static field.
func (f StaticField[R, C]) Get(env Env) (R, error) {
	return checkPrimitive[R](env, env.GetStaticField(kindOf[R](), f.cls.Raw(), f.id))
}

// Set writes v to the static field.
func (f StaticField[R, C]) Set(env Env, v R) error {
	env.SetStaticField(kindOf[R](), f.cls.Raw(), f.id, toValue(v))
	return Check(env)
}

// Close releases the field's hold on its class.
func (f *StaticField[R, C]) Close() error { return f.cls.Close() }

// StaticObjectField is a static field holding a reference of type R.
type StaticObjectField[R Type, C Type] struct {
	id  FieldID
	cls Class[C]
}

// LookupStaticObjectField resolves a static field of cls holding an R.
func LookupStaticObjectField[R Type, C Type](env Env, cls Class[C], name string) (StaticObjectField[R, C], error) {
	id, err := lookupField(env, cls, true, name, Sig[R]())
	if err != nil {
		return StaticObjectField[R, C]{}, err
	}
	return StaticObjectField[R, C]{id: id, cls: cls.Retain()}, nil
}

// ID returns the resolved field id.
func (f StaticObjectField[R, C]) ID() FieldID { return f.id }

// Get returns a new local reference to the static field's value.
func (f StaticObjectField[R, C]) Get(env Env) (Ref[R, Local], error) {
	return checkObject[R](env, env.GetStaticField(KindObject, f.cls.Raw(), f.id))
}

// Set stores v in the static field. A nil v stores null.
func (f StaticObjectField[R, C]) Set(env Env, v Reference) error {
	env.SetStaticField(KindObject, f.cls.Raw(), f.id, Obj(rawOf(v)))
	return Check(env)
}

// Close releases the field's hold on its class.
func (f *StaticObjectField[R, C]) Close() error { return f.cls.Close() }
