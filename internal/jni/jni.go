//go:build !ios && !android && (amd64 || arm64)

// Package jni calls the JNIEnv and JavaVM function tables of a loaded JVM.
//
// Integer results and arguments go through purego.SyscallN. Functions that
// return or take jfloat/jdouble, and functions that write through an
// out-parameter, are bound with purego.RegisterFunc once per function
// pointer: SyscallN only moves integer registers, and a Go pointer must reach
// C as a pointer so that it is kept on the heap for the call.
package jni

import (
	"math"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/jnigo/internal/bindings"
)

// Env is a JNIEnv pointer.
type Env uintptr

// VM is a JavaVM pointer.
type VM uintptr

// JNIEnv function table indices.
const (
	fnGetVersion              = 4
	fnFindClass               = 6
	fnGetSuperclass           = 10
	fnIsAssignableFrom        = 11
	fnThrow                   = 13
	fnThrowNew                = 14
	fnExceptionOccurred       = 15
	fnExceptionClear          = 17
	fnPushLocalFrame          = 19
	fnPopLocalFrame           = 20
	fnNewGlobalRef            = 21
	fnDeleteGlobalRef         = 22
	fnDeleteLocalRef          = 23
	fnIsSameObject            = 24
	fnNewLocalRef             = 25
	fnNewObjectA              = 30
	fnGetObjectClass          = 31
	fnIsInstanceOf            = 32
	fnGetMethodID             = 33
	fnCallMethodA             = 36  // + 3*kind
	fnCallNonvirtualMethodA   = 66  // + 3*kind
	fnGetFieldID              = 94
	fnGetField                = 95  // + kind
	fnSetField                = 104 // + kind
	fnGetStaticMethodID       = 113
	fnCallStaticMethodA       = 116 // + 3*kind
	fnGetStaticFieldID        = 144
	fnGetStaticField          = 145 // + kind
	fnSetStaticField          = 154 // + kind
	fnNewString               = 163
	fnGetStringLength         = 164
	fnGetStringChars          = 165
	fnReleaseStringChars      = 166
	fnGetArrayLength          = 171
	fnNewObjectArray          = 172
	fnGetObjectArrayElement   = 173
	fnSetObjectArrayElement   = 174
	fnNewArray                = 174 // + kind, boolean is 1
	fnGetArrayElements        = 182 // + kind
	fnReleaseArrayElements    = 190 // + kind
	fnGetArrayRegion          = 198 // + kind
	fnSetArrayRegion          = 206 // + kind
	fnRegisterNatives         = 215
	fnUnregisterNatives       = 216
	fnGetJavaVM               = 219
	fnGetStringRegion         = 220
	fnNewWeakGlobalRef        = 226
	fnDeleteWeakGlobalRef     = 227
	fnExceptionCheck          = 228
	fnNewDirectByteBuffer     = 229
	fnGetDirectBufferAddress  = 230
	fnGetDirectBufferCapacity = 231
	fnGetObjectRefType        = 232
	envTableSize              = 233
)

// JavaVM function table indices.
const (
	fnDestroyJavaVM               = 3
	fnAttachCurrentThread         = 4
	fnDetachCurrentThread         = 5
	fnGetEnv                      = 6
	fnAttachCurrentThreadAsDaemon = 7
	vmTableSize                   = 8
)

// Kind numbers match the order of the typed families in the function
// table: Object, Boolean, Byte, Char, Short, Int, Long, Float, Double, Void.
const (
	KindObject = iota
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindVoid
)

func (e Env) fn(i int) uintptr {
	table := *(**[envTableSize]uintptr)(unsafe.Pointer(e))
	return table[i]
}

func (e Env) call(i int, args ...uintptr) uintptr {
	r, _, _ := purego.SyscallN(e.fn(i), append([]uintptr{uintptr(e)}, args...)...)
	return r
}

var typed sync.Map // function pointer -> Go func bound by RegisterFunc

func bind[F any](ptr uintptr) F {
	if f, ok := typed.Load(ptr); ok {
		return f.(F)
	}
	var f F
	purego.RegisterFunc(&f, ptr)
	v, _ := typed.LoadOrStore(ptr, f)
	return v.(F)
}

func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func ptr(b []byte) uintptr { return uintptr(unsafe.Pointer(&b[0])) }

func boolOf(r uintptr) bool { return uint8(r) != 0 }

// args returns the address of a jvalue array, 0 for none.
func args(v []uint64) uintptr {
	if len(v) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&v[0]))
}

func (e Env) GetVersion() int32 { return int32(e.call(fnGetVersion)) }

func (e Env) GetJavaVM() (VM, int32) {
	var vm uintptr
	code := bind[func(env uintptr, pvm *uintptr) int32](e.fn(fnGetJavaVM))(uintptr(e), &vm)
	return VM(vm), code
}

func (e Env) FindClass(name string) uintptr {
	b := cstring(name)
	r := e.call(fnFindClass, ptr(b))
	runtime.KeepAlive(b)
	return r
}

func (e Env) GetSuperclass(cls uintptr) uintptr { return e.call(fnGetSuperclass, cls) }

func (e Env) IsAssignableFrom(sub, sup uintptr) bool {
	return boolOf(e.call(fnIsAssignableFrom, sub, sup))
}

func (e Env) GetObjectClass(obj uintptr) uintptr { return e.call(fnGetObjectClass, obj) }

func (e Env) IsInstanceOf(obj, cls uintptr) bool {
	return boolOf(e.call(fnIsInstanceOf, obj, cls))
}

func (e Env) IsSameObject(a, b uintptr) bool { return boolOf(e.call(fnIsSameObject, a, b)) }

func (e Env) Throw(t uintptr) int32 { return int32(e.call(fnThrow, t)) }

func (e Env) ThrowNew(cls uintptr, msg string) int32 {
	b := cstring(msg)
	r := int32(e.call(fnThrowNew, cls, ptr(b)))
	runtime.KeepAlive(b)
	return r
}

func (e Env) ExceptionOccurred() uintptr { return e.call(fnExceptionOccurred) }
func (e Env) ExceptionClear()            { e.call(fnExceptionClear) }
func (e Env) ExceptionCheck() bool       { return boolOf(e.call(fnExceptionCheck)) }

func (e Env) PushLocalFrame(capacity int32) int32 {
	return int32(e.call(fnPushLocalFrame, uintptr(capacity)))
}

func (e Env) PopLocalFrame(result uintptr) uintptr { return e.call(fnPopLocalFrame, result) }
func (e Env) NewLocalRef(obj uintptr) uintptr      { return e.call(fnNewLocalRef, obj) }
func (e Env) DeleteLocalRef(obj uintptr)           { e.call(fnDeleteLocalRef, obj) }
func (e Env) NewGlobalRef(obj uintptr) uintptr     { return e.call(fnNewGlobalRef, obj) }
func (e Env) DeleteGlobalRef(obj uintptr)          { e.call(fnDeleteGlobalRef, obj) }
func (e Env) NewWeakGlobalRef(obj uintptr) uintptr { return e.call(fnNewWeakGlobalRef, obj) }
func (e Env) DeleteWeakGlobalRef(obj uintptr)      { e.call(fnDeleteWeakGlobalRef, obj) }
func (e Env) GetObjectRefType(obj uintptr) int32   { return int32(e.call(fnGetObjectRefType, obj)) }

func (e Env) memberID(i int, cls uintptr, name, sig string) uintptr {
	n, s := cstring(name), cstring(sig)
	r := e.call(i, cls, ptr(n), ptr(s))
	runtime.KeepAlive(n)
	runtime.KeepAlive(s)
	return r
}

func (e Env) GetMethodID(cls uintptr, name, sig string) uintptr {
	return e.memberID(fnGetMethodID, cls, name, sig)
}

func (e Env) GetStaticMethodID(cls uintptr, name, sig string) uintptr {
	return e.memberID(fnGetStaticMethodID, cls, name, sig)
}

func (e Env) GetFieldID(cls uintptr, name, sig string) uintptr {
	return e.memberID(fnGetFieldID, cls, name, sig)
}

func (e Env) GetStaticFieldID(cls uintptr, name, sig string) uintptr {
	return e.memberID(fnGetStaticFieldID, cls, name, sig)
}

func (e Env) NewObject(cls, ctor uintptr, a []uint64) uintptr {
	r := e.call(fnNewObjectA, cls, ctor, args(a))
	runtime.KeepAlive(a)
	return r
}

// callA calls one of the Call<Kind>MethodA families. target is the object
// (and class, for nonvirtual calls) or the class for static calls.
func (e Env) callA(i, kind int, target []uintptr, id uintptr, a []uint64) uint64 {
	fn := e.fn(i + 3*kind)
	var r uint64
	switch kind {
	case KindFloat, KindDouble:
		r = e.callFloat(fn, kind, target, id, a)
	default:
		in := append([]uintptr{uintptr(e)}, target...)
		in = append(in, id, args(a))
		v, _, _ := purego.SyscallN(fn, in...)
		r = uint64(v)
	}
	runtime.KeepAlive(a)
	return r
}

func (e Env) callFloat(fn uintptr, kind int, target []uintptr, id uintptr, a []uint64) uint64 {
	p := args(a)
	if len(target) == 2 {
		if kind == KindFloat {
			f := bind[func(env, obj, cls, id, args uintptr) float32](fn)
			return uint64(math.Float32bits(f(uintptr(e), target[0], target[1], id, p)))
		}
		f := bind[func(env, obj, cls, id, args uintptr) float64](fn)
		return math.Float64bits(f(uintptr(e), target[0], target[1], id, p))
	}
	if kind == KindFloat {
		f := bind[func(env, obj, id, args uintptr) float32](fn)
		return uint64(math.Float32bits(f(uintptr(e), target[0], id, p)))
	}
	f := bind[func(env, obj, id, args uintptr) float64](fn)
	return math.Float64bits(f(uintptr(e), target[0], id, p))
}

func (e Env) CallMethod(kind int, obj, id uintptr, a []uint64) uint64 {
	return e.callA(fnCallMethodA, kind, []uintptr{obj}, id, a)
}

func (e Env) CallNonvirtualMethod(kind int, obj, cls, id uintptr, a []uint64) uint64 {
	return e.callA(fnCallNonvirtualMethodA, kind, []uintptr{obj, cls}, id, a)
}

func (e Env) CallStaticMethod(kind int, cls, id uintptr, a []uint64) uint64 {
	return e.callA(fnCallStaticMethodA, kind, []uintptr{cls}, id, a)
}

func (e Env) getField(i, kind int, target, id uintptr) uint64 {
	fn := e.fn(i + kind)
	switch kind {
	case KindFloat:
		return uint64(math.Float32bits(bind[func(env, target, id uintptr) float32](fn)(uintptr(e), target, id)))
	case KindDouble:
		return math.Float64bits(bind[func(env, target, id uintptr) float64](fn)(uintptr(e), target, id))
	}
	r, _, _ := purego.SyscallN(fn, uintptr(e), target, id)
	return uint64(r)
}

func (e Env) setField(i, kind int, target, id uintptr, v uint64) {
	fn := e.fn(i + kind)
	switch kind {
	case KindFloat:
		bind[func(env, target, id uintptr, v float32)](fn)(uintptr(e), target, id, math.Float32frombits(uint32(v)))
	case KindDouble:
		bind[func(env, target, id uintptr, v float64)](fn)(uintptr(e), target, id, math.Float64frombits(v))
	default:
		purego.SyscallN(fn, uintptr(e), target, id, uintptr(v))
	}
}

func (e Env) GetField(kind int, obj, id uintptr) uint64 { return e.getField(fnGetField, kind, obj, id) }

func (e Env) SetField(kind int, obj, id uintptr, v uint64) { e.setField(fnSetField, kind, obj, id, v) }

func (e Env) GetStaticField(kind int, cls, id uintptr) uint64 {
	return e.getField(fnGetStaticField, kind, cls, id)
}

func (e Env) SetStaticField(kind int, cls, id uintptr, v uint64) {
	e.setField(fnSetStaticField, kind, cls, id, v)
}

func (e Env) NewString(chars []uint16) uintptr {
	if len(chars) == 0 {
		return bind[func(env uintptr, chars *uint16, n int32) uintptr](e.fn(fnNewString))(uintptr(e), new(uint16), 0)
	}
	r := e.call(fnNewString, uintptr(unsafe.Pointer(&chars[0])), uintptr(len(chars)))
	runtime.KeepAlive(chars)
	return r
}

func (e Env) GetStringLength(s uintptr) int32 { return int32(e.call(fnGetStringLength, s)) }

func (e Env) GetStringRegion(s uintptr, start int32, buf []uint16) {
	if len(buf) == 0 {
		e.call(fnGetStringRegion, s, uintptr(start), 0, 0)
		return
	}
	e.call(fnGetStringRegion, s, uintptr(start), uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
}

func (e Env) GetStringChars(s uintptr) unsafe.Pointer {
	return unsafe.Pointer(e.call(fnGetStringChars, s, 0))
}

func (e Env) ReleaseStringChars(s uintptr, chars unsafe.Pointer) {
	e.call(fnReleaseStringChars, s, uintptr(chars))
}

func (e Env) GetArrayLength(arr uintptr) int32 { return int32(e.call(fnGetArrayLength, arr)) }

func (e Env) NewPrimitiveArray(kind int, length int32) uintptr {
	return e.call(fnNewArray+kind, uintptr(length))
}

func (e Env) NewObjectArray(length int32, cls, init uintptr) uintptr {
	return e.call(fnNewObjectArray, uintptr(length), cls, init)
}

func (e Env) GetObjectArrayElement(arr uintptr, index int32) uintptr {
	return e.call(fnGetObjectArrayElement, arr, uintptr(index))
}

func (e Env) SetObjectArrayElement(arr uintptr, index int32, v uintptr) {
	e.call(fnSetObjectArrayElement, arr, uintptr(index), v)
}

func (e Env) GetArrayElements(kind int, arr uintptr) unsafe.Pointer {
	return unsafe.Pointer(e.call(fnGetArrayElements+kind, arr, 0))
}

func (e Env) ReleaseArrayElements(kind int, arr uintptr, elems unsafe.Pointer, mode int32) {
	e.call(fnReleaseArrayElements+kind, arr, uintptr(elems), uintptr(mode))
}

func (e Env) GetArrayRegion(kind int, arr uintptr, start, length int32, buf unsafe.Pointer) {
	e.call(fnGetArrayRegion+kind, arr, uintptr(start), uintptr(length), uintptr(buf))
}

func (e Env) SetArrayRegion(kind int, arr uintptr, start, length int32, buf unsafe.Pointer) {
	e.call(fnSetArrayRegion+kind, arr, uintptr(start), uintptr(length), uintptr(buf))
}

func (e Env) NewDirectByteBuffer(addr unsafe.Pointer, capacity int64) uintptr {
	return e.call(fnNewDirectByteBuffer, uintptr(addr), uintptr(capacity))
}

func (e Env) GetDirectBufferAddress(buf uintptr) unsafe.Pointer {
	return unsafe.Pointer(e.call(fnGetDirectBufferAddress, buf))
}

func (e Env) GetDirectBufferCapacity(buf uintptr) int64 {
	return int64(e.call(fnGetDirectBufferCapacity, buf))
}

// Native is one entry of a RegisterNatives call.
type Native struct {
	Name      string
	Signature string
	Fn        uintptr // C function pointer
}

type nativeMethod struct {
	name      *byte
	signature *byte
	fn        uintptr
}

func (e Env) RegisterNatives(cls uintptr, natives []Native) int32 {
	if len(natives) == 0 {
		return 0
	}
	strs := make([][]byte, 0, 2*len(natives))
	table := make([]nativeMethod, len(natives))
	for i, n := range natives {
		name, sig := cstring(n.Name), cstring(n.Signature)
		strs = append(strs, name, sig)
		table[i] = nativeMethod{name: &name[0], signature: &sig[0], fn: n.Fn}
	}
	r := int32(e.call(fnRegisterNatives, cls, uintptr(unsafe.Pointer(&table[0])), uintptr(len(table))))
	runtime.KeepAlive(strs)
	runtime.KeepAlive(table)
	return r
}

func (e Env) UnregisterNatives(cls uintptr) int32 { return int32(e.call(fnUnregisterNatives, cls)) }

func (v VM) fn(i int) uintptr {
	table := *(**[vmTableSize]uintptr)(unsafe.Pointer(v))
	return table[i]
}

func (v VM) call(i int, args ...uintptr) int32 {
	r, _, _ := purego.SyscallN(v.fn(i), append([]uintptr{uintptr(v)}, args...)...)
	return int32(r)
}

func (v VM) GetEnv(version int32) (Env, int32) {
	var env uintptr
	code := bind[func(vm uintptr, penv *uintptr, version int32) int32](v.fn(fnGetEnv))(uintptr(v), &env, version)
	return Env(env), code
}

func (v VM) AttachCurrentThread(daemon bool) (Env, int32) {
	i := fnAttachCurrentThread
	if daemon {
		i = fnAttachCurrentThreadAsDaemon
	}
	var env uintptr
	code := bind[func(vm uintptr, penv *uintptr, args unsafe.Pointer) int32](v.fn(i))(uintptr(v), &env, nil)
	return Env(env), code
}

func (v VM) DetachCurrentThread() int32 { return v.call(fnDetachCurrentThread) }
func (v VM) DestroyJavaVM() int32       { return v.call(fnDestroyJavaVM) }

// initArgs is JavaVMInitArgs.
type initArgs struct {
	version            int32
	nOptions           int32
	options            *option
	ignoreUnrecognized uint8
}

// option is JavaVMOption.
type option struct {
	optionString *byte
	extraInfo    unsafe.Pointer
}

// CreateJavaVM creates a VM with the given -X/-D style options. The calling
// thread becomes attached and env is its JNIEnv.
func CreateJavaVM(version int32, options []string, ignoreUnrecognized bool) (VM, Env, int32, error) {
	strs := make([][]byte, len(options))
	opts := make([]option, len(options))
	for i, o := range options {
		strs[i] = cstring(o)
		opts[i].optionString = &strs[i][0]
	}
	a := initArgs{version: version, nOptions: int32(len(opts))}
	if len(opts) > 0 {
		a.options = &opts[0]
	}
	if ignoreUnrecognized {
		a.ignoreUnrecognized = 1
	}
	vm, env, code, err := bindings.CreateJavaVM(unsafe.Pointer(&a))
	runtime.KeepAlive(strs)
	runtime.KeepAlive(opts)
	return VM(vm), Env(env), code, err
}

// CreatedJavaVMs returns the VM already running in this process, if any.
func CreatedJavaVMs() ([]VM, int32, error) {
	raw, code, err := bindings.CreatedJavaVMs()
	vms := make([]VM, len(raw))
	for i, v := range raw {
		vms[i] = VM(v)
	}
	return vms, code, err
}
