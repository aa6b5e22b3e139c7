//go:build !ios && !android && (amd64 || arm64)

package jnigo

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/jnigo/internal/bindings"
	"github.com/obinnaokechukwu/jnigo/internal/jni"
)

// VMOptions configures CreateJavaVM.
type VMOptions struct {
	// LibraryPath is the libjvm to load. When empty, JNIGO_LIBJVM, the
	// directories of JAVA_HOME and the platform library paths are searched.
	LibraryPath string

	// Options are passed to the VM verbatim, for example
	// "-Djava.class.path=app.jar" or "-Xmx256m".
	Options []string

	// Version is the requested JNI version; Version1_8 when zero.
	Version int32

	// IgnoreUnrecognized makes the VM skip unknown non-standard options.
	IgnoreUnrecognized bool
}

// LoadJVM loads libjvm without creating a VM. An empty path searches the
// default locations. It is safe to call multiple times.
func LoadJVM(path string) error {
	if err := bindings.Load(path); err != nil {
		if errors.Is(err, bindings.ErrLibraryNotFound) {
			return fmt.Errorf("%w: %v", ErrLibraryNotFound, err)
		}
		return err
	}
	return nil
}

// CreateJavaVM loads libjvm, starts a VM and installs the provider and the
// core classes for it. The calling goroutine is locked to its OS thread,
// which the VM adopts as its main thread.
func CreateJavaVM(opts VMOptions) (VM, Env, error) {
	if err := LoadJVM(opts.LibraryPath); err != nil {
		return nil, nil, err
	}
	version := opts.Version
	if version == 0 {
		version = Version1_8
	}

	runtime.LockOSThread()
	rawVM, rawEnv, code, err := jni.CreateJavaVM(version, opts.Options, opts.IgnoreUnrecognized)
	if err != nil || code != OK {
		runtime.UnlockOSThread()
		if err == nil {
			err = NewStatusError(code, "JNI_CreateJavaVM")
		}
		return nil, nil, err
	}

	vm, env := nativeVM{rawVM}, nativeEnv{rawEnv}
	if err := start(vm, env); err != nil {
		return nil, nil, err
	}
	Logger().Info("java vm created",
		zap.String("library", bindings.LibraryPath()),
		zap.Strings("options", opts.Options),
		zap.Int32("version", version))
	return vm, env, nil
}

// start installs the provider and core classes for a VM just created on the
// calling thread. On failure the package is shut down, the VM destroyed and
// the thread unlocked.
func start(vm VM, env Env) error {
	_, err := Init(vm)
	if err == nil {
		err = InitRuntime(env)
	}
	if err != nil {
		err = multierr.Append(err, DestroyJavaVM(vm))
	}
	return err
}

// CreatedJavaVM returns the VM already running in this process, such as the
// one that loaded a Go shared library.
func CreatedJavaVM() (VM, error) {
	if err := LoadJVM(""); err != nil {
		return nil, err
	}
	vms, code, err := jni.CreatedJavaVMs()
	if err != nil {
		return nil, err
	}
	if code != OK {
		return nil, NewStatusError(code, "JNI_GetCreatedJavaVMs")
	}
	if len(vms) == 0 {
		return nil, throwProblem("no Java VM is running in this process")
	}
	return nativeVM{vms[0]}, nil
}

// DestroyJavaVM shuts the package down and destroys vm. It must be called on
// the thread that created the VM.
func DestroyJavaVM(vm VM) error {
	err := Shutdown()
	if code := vm.DestroyJavaVM(); code != OK {
		err = multierr.Append(err, NewStatusError(code, "DestroyJavaVM"))
	}
	runtime.UnlockOSThread()
	return err
}

// FromJNIEnv wraps a JNIEnv pointer received from Java, for example the
// first argument of JNI_OnLoad's GetEnv or of a native method exported from
// a c-shared library.
func FromJNIEnv(p unsafe.Pointer) (Env, error) {
	if p == nil {
		return nil, throwProblem("null JNIEnv")
	}
	return nativeEnv{jni.Env(uintptr(p))}, nil
}

// FromJavaVM wraps a JavaVM pointer, such as the argument of JNI_OnLoad.
func FromJavaVM(p unsafe.Pointer) (VM, error) {
	if p == nil {
		return nil, throwProblem("null JavaVM")
	}
	return nativeVM{jni.VM(uintptr(p))}, nil
}

// nativeVM is the invocation interface of a real JVM.
type nativeVM struct{ vm jni.VM }

func (v nativeVM) GetEnv(version int32) (Env, int32) {
	env, code := v.vm.GetEnv(version)
	if code != OK {
		return nil, code
	}
	return nativeEnv{env}, code
}

func (v nativeVM) AttachCurrentThread() (Env, int32) { return v.attach(false) }

func (v nativeVM) AttachCurrentThreadAsDaemon() (Env, int32) { return v.attach(true) }

func (v nativeVM) attach(daemon bool) (Env, int32) {
	env, code := v.vm.AttachCurrentThread(daemon)
	if code != OK {
		return nil, code
	}
	return nativeEnv{env}, code
}

func (v nativeVM) DetachCurrentThread() int32 { return v.vm.DetachCurrentThread() }
func (v nativeVM) DestroyJavaVM() int32       { return v.vm.DestroyJavaVM() }

// nativeEnv is the JNIEnv of a real JVM thread.
type nativeEnv struct{ env jni.Env }

func jvalues(args []Value) []uint64 {
	if len(args) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&args[0])), len(args))
}

func (e nativeEnv) GetVersion() int32 { return e.env.GetVersion() }

func (e nativeEnv) GetJavaVM() (VM, int32) {
	vm, code := e.env.GetJavaVM()
	return nativeVM{vm}, code
}

func (e nativeEnv) FindClass(name string) Jobject {
	return Jobject(e.env.FindClass(name))
}

func (e nativeEnv) GetSuperclass(cls Jobject) Jobject {
	return Jobject(e.env.GetSuperclass(uintptr(cls)))
}

func (e nativeEnv) IsAssignableFrom(sub, sup Jobject) bool {
	return e.env.IsAssignableFrom(uintptr(sub), uintptr(sup))
}

func (e nativeEnv) GetObjectClass(obj Jobject) Jobject {
	return Jobject(e.env.GetObjectClass(uintptr(obj)))
}

func (e nativeEnv) IsInstanceOf(obj, cls Jobject) bool {
	return e.env.IsInstanceOf(uintptr(obj), uintptr(cls))
}

func (e nativeEnv) IsSameObject(a, b Jobject) bool {
	return e.env.IsSameObject(uintptr(a), uintptr(b))
}

func (e nativeEnv) Throw(throwable Jobject) int32 { return e.env.Throw(uintptr(throwable)) }

func (e nativeEnv) ThrowNew(cls Jobject, msg string) int32 {
	return e.env.ThrowNew(uintptr(cls), msg)
}

func (e nativeEnv) ExceptionOccurred() Jobject { return Jobject(e.env.ExceptionOccurred()) }
func (e nativeEnv) ExceptionClear()            { e.env.ExceptionClear() }
func (e nativeEnv) ExceptionCheck() bool       { return e.env.ExceptionCheck() }

func (e nativeEnv) PushLocalFrame(capacity int32) int32 { return e.env.PushLocalFrame(capacity) }

func (e nativeEnv) PopLocalFrame(result Jobject) Jobject {
	return Jobject(e.env.PopLocalFrame(uintptr(result)))
}

func (e nativeEnv) NewLocalRef(obj Jobject) Jobject  { return Jobject(e.env.NewLocalRef(uintptr(obj))) }
func (e nativeEnv) DeleteLocalRef(obj Jobject)       { e.env.DeleteLocalRef(uintptr(obj)) }
func (e nativeEnv) NewGlobalRef(obj Jobject) Jobject { return Jobject(e.env.NewGlobalRef(uintptr(obj))) }
func (e nativeEnv) DeleteGlobalRef(obj Jobject)      { e.env.DeleteGlobalRef(uintptr(obj)) }

func (e nativeEnv) NewWeakGlobalRef(obj Jobject) Jobject {
	return Jobject(e.env.NewWeakGlobalRef(uintptr(obj)))
}

func (e nativeEnv) DeleteWeakGlobalRef(obj Jobject) { e.env.DeleteWeakGlobalRef(uintptr(obj)) }

func (e nativeEnv) GetObjectRefType(obj Jobject) RefType {
	return RefType(e.env.GetObjectRefType(uintptr(obj)))
}

func (e nativeEnv) GetMethodID(cls Jobject, name, sig string) MethodID {
	return MethodID(e.env.GetMethodID(uintptr(cls), name, sig))
}

func (e nativeEnv) GetStaticMethodID(cls Jobject, name, sig string) MethodID {
	return MethodID(e.env.GetStaticMethodID(uintptr(cls), name, sig))
}

func (e nativeEnv) GetFieldID(cls Jobject, name, sig string) FieldID {
	return FieldID(e.env.GetFieldID(uintptr(cls), name, sig))
}

func (e nativeEnv) GetStaticFieldID(cls Jobject, name, sig string) FieldID {
	return FieldID(e.env.GetStaticFieldID(uintptr(cls), name, sig))
}

func (e nativeEnv) NewObject(cls Jobject, ctor MethodID, args []Value) Jobject {
	return Jobject(e.env.NewObject(uintptr(cls), uintptr(ctor), jvalues(args)))
}

func (e nativeEnv) CallMethod(kind Kind, obj Jobject, m MethodID, args []Value) Value {
	return Value(e.env.CallMethod(int(kind), uintptr(obj), uintptr(m), jvalues(args)))
}

func (e nativeEnv) CallNonvirtualMethod(kind Kind, obj, cls Jobject, m MethodID, args []Value) Value {
	return Value(e.env.CallNonvirtualMethod(int(kind), uintptr(obj), uintptr(cls), uintptr(m), jvalues(args)))
}

func (e nativeEnv) CallStaticMethod(kind Kind, cls Jobject, m MethodID, args []Value) Value {
	return Value(e.env.CallStaticMethod(int(kind), uintptr(cls), uintptr(m), jvalues(args)))
}

func (e nativeEnv) GetField(kind Kind, obj Jobject, f FieldID) Value {
	return Value(e.env.GetField(int(kind), uintptr(obj), uintptr(f)))
}

func (e nativeEnv) SetField(kind Kind, obj Jobject, f FieldID, v Value) {
	e.env.SetField(int(kind), uintptr(obj), uintptr(f), uint64(v))
}

func (e nativeEnv) GetStaticField(kind Kind, cls Jobject, f FieldID) Value {
	return Value(e.env.GetStaticField(int(kind), uintptr(cls), uintptr(f)))
}

func (e nativeEnv) SetStaticField(kind Kind, cls Jobject, f FieldID, v Value) {
	e.env.SetStaticField(int(kind), uintptr(cls), uintptr(f), uint64(v))
}

func (e nativeEnv) NewString(chars []uint16) Jobject { return Jobject(e.env.NewString(chars)) }

func (e nativeEnv) GetStringLength(s Jobject) int32 { return e.env.GetStringLength(uintptr(s)) }

func (e nativeEnv) GetStringRegion(s Jobject, start int32, buf []uint16) {
	e.env.GetStringRegion(uintptr(s), start, buf)
}

func (e nativeEnv) GetStringChars(s Jobject) unsafe.Pointer {
	return e.env.GetStringChars(uintptr(s))
}

func (e nativeEnv) ReleaseStringChars(s Jobject, chars unsafe.Pointer) {
	e.env.ReleaseStringChars(uintptr(s), chars)
}

func (e nativeEnv) GetArrayLength(arr Jobject) int32 { return e.env.GetArrayLength(uintptr(arr)) }

func (e nativeEnv) NewPrimitiveArray(kind Kind, length int32) Jobject {
	return Jobject(e.env.NewPrimitiveArray(int(kind), length))
}

func (e nativeEnv) NewObjectArray(length int32, cls, init Jobject) Jobject {
	return Jobject(e.env.NewObjectArray(length, uintptr(cls), uintptr(init)))
}

func (e nativeEnv) GetObjectArrayElement(arr Jobject, index int32) Jobject {
	return Jobject(e.env.GetObjectArrayElement(uintptr(arr), index))
}

func (e nativeEnv) SetObjectArrayElement(arr Jobject, index int32, v Jobject) {
	e.env.SetObjectArrayElement(uintptr(arr), index, uintptr(v))
}

func (e nativeEnv) GetArrayElements(kind Kind, arr Jobject) unsafe.Pointer {
	return e.env.GetArrayElements(int(kind), uintptr(arr))
}

func (e nativeEnv) ReleaseArrayElements(kind Kind, arr Jobject, elems unsafe.Pointer, mode ReleaseMode) {
	e.env.ReleaseArrayElements(int(kind), uintptr(arr), elems, int32(mode))
}

func (e nativeEnv) GetArrayRegion(kind Kind, arr Jobject, start, length int32, buf unsafe.Pointer) {
	e.env.GetArrayRegion(int(kind), uintptr(arr), start, length, buf)
}

func (e nativeEnv) SetArrayRegion(kind Kind, arr Jobject, start, length int32, buf unsafe.Pointer) {
	e.env.SetArrayRegion(int(kind), uintptr(arr), start, length, buf)
}

func (e nativeEnv) NewDirectByteBuffer(addr unsafe.Pointer, capacity int64) Jobject {
	return Jobject(e.env.NewDirectByteBuffer(addr, capacity))
}

func (e nativeEnv) GetDirectBufferAddress(buf Jobject) unsafe.Pointer {
	return e.env.GetDirectBufferAddress(uintptr(buf))
}

func (e nativeEnv) GetDirectBufferCapacity(buf Jobject) int64 {
	return e.env.GetDirectBufferCapacity(uintptr(buf))
}

func (e nativeEnv) RegisterNatives(cls Jobject, methods []NativeMethod) int32 {
	natives := make([]jni.Native, len(methods))
	for i, m := range methods {
		natives[i] = jni.Native{Name: m.Name, Signature: m.Signature, Fn: trampoline(m)}
	}
	return e.env.RegisterNatives(uintptr(cls), natives)
}

func (e nativeEnv) UnregisterNatives(cls Jobject) int32 {
	return e.env.UnregisterNatives(uintptr(cls))
}

// C types of the native method arguments and results, by Kind.
var cTypes = [...]reflect.Type{
	KindObject:  reflect.TypeFor[uintptr](),
	KindBoolean: reflect.TypeFor[bool](),
	KindByte:    reflect.TypeFor[int8](),
	KindChar:    reflect.TypeFor[uint16](),
	KindShort:   reflect.TypeFor[int16](),
	KindInt:     reflect.TypeFor[int32](),
	KindLong:    reflect.TypeFor[int64](),
	KindFloat:   reflect.TypeFor[float32](),
	KindDouble:  reflect.TypeFor[float64](),
}

// purego keeps a fixed number of callback slots for the life of the
// process; trampolines are cached per NativeMethod binding so that
// registering the same table again reuses them.
var trampolines struct {
	sync.Mutex
	byFunc map[trampolineKey]uintptr
}

type trampolineKey struct {
	name, sig string
	fn        reflect.Value
}

// trampoline returns a C function pointer with the native method's JNI
// signature, (JNIEnv*, jobject|jclass, args...), that calls m.Invoke.
func trampoline(m NativeMethod) uintptr {
	key := trampolineKey{m.Name, m.Signature, m.fn}
	trampolines.Lock()
	defer trampolines.Unlock()
	if p, ok := trampolines.byFunc[key]; ok {
		return p
	}

	fn := nativeFunc(m, func(p uintptr) Env { return nativeEnv{jni.Env(p)} })
	p := purego.NewCallback(fn.Interface())
	if trampolines.byFunc == nil {
		trampolines.byFunc = make(map[trampolineKey]uintptr)
	}
	trampolines.byFunc[key] = p
	return p
}

// nativeFunc builds a Go function typed after the C signature of m, taking
// the env and receiver as pointers followed by the Java arguments.
func nativeFunc(m NativeMethod, wrapEnv func(uintptr) Env) reflect.Value {
	in := []reflect.Type{cTypes[KindObject], cTypes[KindObject]}
	for _, k := range m.kinds {
		in = append(in, cTypes[k])
	}
	var out []reflect.Type
	if m.ret != KindVoid {
		out = append(out, cTypes[m.ret])
	}
	return reflect.MakeFunc(reflect.FuncOf(in, out, false), func(args []reflect.Value) []reflect.Value {
		vals := make([]Value, len(m.kinds))
		for i, k := range m.kinds {
			vals[i] = cArg(k, args[2+i])
		}
		r := m.Invoke(wrapEnv(uintptr(args[0].Uint())), Jobject(args[1].Uint()), vals)
		if m.ret == KindVoid {
			return nil
		}
		return []reflect.Value{cResult(m.ret, r)}
	})
}

func cArg(k Kind, v reflect.Value) Value {
	switch k {
	case KindObject:
		return Obj(Jobject(v.Uint()))
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

func cResult(k Kind, v Value) reflect.Value {
	var x any
	switch k {
	case KindObject:
		x = uintptr(v.Object())
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
	return reflect.ValueOf(x)
}
