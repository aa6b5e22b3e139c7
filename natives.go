package jnigo

import (
	"fmt"
	"reflect"
)

// NativeMethod binds a Go function to a Java method declared native.
//
// The Go function receives the calling thread's Env, the receiver (or the
// class, for static methods) as a borrowed Ref, and the Java arguments:
//
//	func(env jnigo.Env, this jnigo.Ref[Derived, jnigo.Auto], x int32) (int32, error)
//
// Arguments are Primitive values or borrowed Refs. The result is optional
// and is a Primitive, a Ref[T, Local] whose ownership passes to Java, or a
// borrowed Ref. A trailing error result, and any panic, is raised as a Java
// exception when the function returns.
type NativeMethod struct {
	Name      string
	Signature string

	fn     reflect.Value
	this   reflect.Type
	args   []reflect.Type
	kinds  []Kind
	ret    Kind
	retRef bool
	hasErr bool
}

type nativeRef interface {
	Reference
	Kind() RefKind
	descriptor() string
	wrap(obj Jobject) any
}

func (r Ref[T, D]) wrap(obj Jobject) any { return Ref[T, D]{obj: obj} }

var (
	envType   = reflect.TypeFor[Env]()
	errorType = reflect.TypeFor[error]()
	refType   = reflect.TypeFor[nativeRef]()
)

// Bind derives the JNI signature of fn and returns a NativeMethod named
// name.
func Bind(name string, fn any) (NativeMethod, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return NativeMethod{}, fmt.Errorf("%w: %s is %s, not a function", ErrBadNative, name, t)
	}
	if t.NumIn() < 2 || t.In(0) != envType {
		return NativeMethod{}, fmt.Errorf("%w: %s must take (jnigo.Env, receiver, ...)", ErrBadNative, name)
	}
	m := NativeMethod{Name: name, fn: v, this: t.In(1), ret: KindVoid}
	if !isBorrowed(m.this) {
		return NativeMethod{}, fmt.Errorf("%w: %s receiver %s is not a borrowed Ref", ErrBadNative, name, m.this)
	}

	var descs []string
	for i := 2; i < t.NumIn(); i++ {
		at := t.In(i)
		kind, desc, ok := argKind(at)
		if !ok {
			return NativeMethod{}, fmt.Errorf("%w: %s argument %d has type %s", ErrBadNative, name, i-2, at)
		}
		m.args = append(m.args, at)
		m.kinds = append(m.kinds, kind)
		descs = append(descs, desc)
	}

	outs := t.NumOut()
	if outs > 0 && t.Out(outs-1) == errorType {
		m.hasErr = true
		outs--
	}
	retDesc := "V"
	switch outs {
	case 0:
	case 1:
		rt := t.Out(0)
		if rt.Implements(refType) {
			r := reflect.Zero(rt).Interface().(nativeRef)
			if r.Kind() != LocalRef && r.Kind() != AutoRef {
				return NativeMethod{}, fmt.Errorf("%w: %s returns a %s reference", ErrBadNative, name, r.Kind())
			}
			m.ret, m.retRef, retDesc = KindObject, true, r.descriptor()
			break
		}
		kind, desc, ok := primitiveKind(rt)
		if !ok {
			return NativeMethod{}, fmt.Errorf("%w: %s returns %s", ErrBadNative, name, rt)
		}
		m.ret, retDesc = kind, desc
	default:
		return NativeMethod{}, fmt.Errorf("%w: %s has too many results", ErrBadNative, name)
	}
	m.Signature = MethodSig(retDesc, descs...)
	return m, nil
}

// MustBind is Bind that panics on error, for package-level tables.
func MustBind(name string, fn any) NativeMethod {
	m, err := Bind(name, fn)
	if err != nil {
		panic(err)
	}
	return m
}

// ArgKinds returns the kinds of the Java arguments.
func (m NativeMethod) ArgKinds() []Kind { return m.kinds }

// ReturnKind returns the kind of the Java result, KindVoid for none.
func (m NativeMethod) ReturnKind() Kind { return m.ret }

// Invoke calls the bound function with raw JNI arguments and returns the raw
// result. Errors and panics are raised on env as Java exceptions and the
// zero Value is returned.
func (m NativeMethod) Invoke(env Env, this Jobject, args []Value) (ret Value) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("jnigo: native method %s panicked: %v", m.Name, r)
			}
			Translate(env, err)
			ret = 0
		}
	}()
	if len(args) != len(m.args) {
		Translate(env, fmt.Errorf("jnigo: native method %s takes %d arguments, got %d", m.Name, len(m.args), len(args)))
		return 0
	}

	in := make([]reflect.Value, 0, 2+len(args))
	in = append(in, reflect.ValueOf(&env).Elem(), wrapRef(m.this, this))
	for i, a := range args {
		in = append(in, fromJava(m.args[i], m.kinds[i], a))
	}
	out := m.fn.Call(in)

	if m.hasErr {
		if e := out[len(out)-1]; !e.IsNil() {
			Translate(env, e.Interface().(error))
			return 0
		}
	}
	if m.ret == KindVoid {
		return 0
	}
	if m.retRef {
		r := out[0].Interface().(nativeRef)
		if r.Kind() == LocalRef {
			stats.released(LocalRef)
		}
		return Obj(r.Raw())
	}
	return toJava(out[0], m.ret)
}

func isBorrowed(t reflect.Type) bool {
	if !t.Implements(refType) {
		return false
	}
	return reflect.Zero(t).Interface().(nativeRef).Kind() == AutoRef
}

func wrapRef(t reflect.Type, obj Jobject) reflect.Value {
	return reflect.ValueOf(reflect.Zero(t).Interface().(nativeRef).wrap(obj))
}

func argKind(t reflect.Type) (Kind, string, bool) {
	if isBorrowed(t) {
		return KindObject, reflect.Zero(t).Interface().(nativeRef).descriptor(), true
	}
	return primitiveKind(t)
}

func primitiveKind(t reflect.Type) (Kind, string, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return KindBoolean, "Z", true
	case reflect.Int8:
		return KindByte, "B", true
	case reflect.Uint16:
		return KindChar, "C", true
	case reflect.Int16:
		return KindShort, "S", true
	case reflect.Int32:
		return KindInt, "I", true
	case reflect.Int64:
		return KindLong, "J", true
	case reflect.Float32:
		return KindFloat, "F", true
	case reflect.Float64:
		return KindDouble, "D", true
	}
	return 0, "", false
}

func fromJava(t reflect.Type, kind Kind, v Value) reflect.Value {
	var x any
	switch kind {
	case KindObject:
		return wrapRef(t, v.Object())
	case KindBoolean:
		x = v.Bool()
	case KindByte:
		x = v.Byte()
	case KindChar:
		x = v.Char()
	case KindShort:
		x = v.Short()
	case KindInt:
		x = v.Int()
	case KindLong:
		x = v.Long()
	case KindFloat:
		x = v.Float()
	case KindDouble:
		x = v.Double()
	}
	return reflect.ValueOf(x).Convert(t)
}

func toJava(v reflect.Value, kind Kind) Value {
	switch kind {
	case KindBoolean:
		return Bool(v.Bool())
	case KindByte:
		return Byte(int8(v.Int()))
	case KindChar:
		return Char(uint16(v.Uint()))
	case KindShort:
		return Short(int16(v.Int()))
	case KindInt:
		return Int(int32(v.Int()))
	case KindLong:
		return Long(v.Int())
	case KindFloat:
		return Float(float32(v.Float()))
	case KindDouble:
		return Double(v.Float())
	}
	return 0
}
