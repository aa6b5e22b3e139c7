package jnigo

import (
	"math"
	"unsafe"
)

// Jobject is an opaque managed reference as handed out by the JVM. Zero is
// the null reference.
type Jobject uintptr

// MethodID identifies a resolved method. Zero means lookup failure.
type MethodID uintptr

// FieldID identifies a resolved field. Zero means lookup failure.
type FieldID uintptr

// Value is the 64-bit jvalue union used to pass arguments and return
// results across the boundary.
type Value uint64

// Bool returns a jboolean value.
func Bool(b bool) Value {
	if b {
		return 1
	}
	return 0
}

func Byte(v int8) Value      { return Value(uint8(v)) }
func Char(v uint16) Value    { return Value(v) }
func Short(v int16) Value    { return Value(uint16(v)) }
func Int(v int32) Value      { return Value(uint32(v)) }
func Long(v int64) Value     { return Value(v) }
func Float(v float32) Value  { return Value(math.Float32bits(v)) }
func Double(v float64) Value { return Value(math.Float64bits(v)) }
func Obj(o Jobject) Value    { return Value(o) }

func (v Value) Bool() bool        { return uint8(v) != 0 }
func (v Value) Byte() int8        { return int8(v) }
func (v Value) Char() uint16      { return uint16(v) }
func (v Value) Short() int16      { return int16(v) }
func (v Value) Int() int32        { return int32(v) }
func (v Value) Long() int64       { return int64(v) }
func (v Value) Float() float32    { return math.Float32frombits(uint32(v)) }
func (v Value) Double() float64   { return math.Float64frombits(uint64(v)) }
func (v Value) Object() Jobject   { return Jobject(v) }

// Kind selects the typed variant of a JNI function family (Call<Kind>Method,
// Get<Kind>Field, New<Kind>Array and so on).
type Kind int

const (
	KindObject Kind = iota
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

var kindNames = [...]string{"Object", "Boolean", "Byte", "Char", "Short", "Int", "Long", "Float", "Double", "Void"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Size returns the element size in bytes of a primitive kind.
func (k Kind) Size() int {
	switch k {
	case KindBoolean, KindByte:
		return 1
	case KindChar, KindShort:
		return 2
	case KindInt, KindFloat:
		return 4
	case KindLong, KindDouble, KindObject:
		return 8
	}
	return 0
}

// JNI versions and status codes.
const (
	Version1_6 int32 = 0x00010006
	Version1_8 int32 = 0x00010008

	OK        int32 = 0
	ErrCode   int32 = -1
	EDetached int32 = -2
	EVersion  int32 = -3
)

// ReleaseMode is the mode argument of Release<Kind>ArrayElements.
type ReleaseMode int32

const (
	// ReleaseCommit copies back and frees the native buffer.
	ReleaseCommit ReleaseMode = 0
	// ReleaseCommitKeep copies back and keeps the native buffer valid.
	ReleaseCommitKeep ReleaseMode = 1
	// ReleaseAbort frees the native buffer without copying back.
	ReleaseAbort ReleaseMode = 2
)

// RefType is the answer of GetObjectRefType.
type RefType int32

const (
	RefTypeInvalid RefType = iota
	RefTypeLocal
	RefTypeGlobal
	RefTypeWeakGlobal
)

// Env is the per-thread JNI function table. Implementations must only be
// used from the OS thread they were obtained on.
//
// Calls that can fail by raising a Java exception report that solely through
// the pending exception; callers follow up with Check.
type Env interface {
	GetVersion() int32
	GetJavaVM() (VM, int32)

	FindClass(name string) Jobject
	GetSuperclass(cls Jobject) Jobject
	IsAssignableFrom(sub, sup Jobject) bool
	GetObjectClass(obj Jobject) Jobject
	IsInstanceOf(obj, cls Jobject) bool
	IsSameObject(a, b Jobject) bool

	Throw(throwable Jobject) int32
	ThrowNew(cls Jobject, msg string) int32
	ExceptionOccurred() Jobject
	ExceptionClear()
	ExceptionCheck() bool

	PushLocalFrame(capacity int32) int32
	PopLocalFrame(result Jobject) Jobject
	NewLocalRef(obj Jobject) Jobject
	DeleteLocalRef(obj Jobject)
	NewGlobalRef(obj Jobject) Jobject
	DeleteGlobalRef(obj Jobject)
	NewWeakGlobalRef(obj Jobject) Jobject
	DeleteWeakGlobalRef(obj Jobject)
	GetObjectRefType(obj Jobject) RefType

	GetMethodID(cls Jobject, name, sig string) MethodID
	GetStaticMethodID(cls Jobject, name, sig string) MethodID
	GetFieldID(cls Jobject, name, sig string) FieldID
	GetStaticFieldID(cls Jobject, name, sig string) FieldID

	NewObject(cls Jobject, ctor MethodID, args []Value) Jobject
	CallMethod(kind Kind, obj Jobject, m MethodID, args []Value) Value
	CallNonvirtualMethod(kind Kind, obj, cls Jobject, m MethodID, args []Value) Value
	CallStaticMethod(kind Kind, cls Jobject, m MethodID, args []Value) Value
	GetField(kind Kind, obj Jobject, f FieldID) Value
	SetField(kind Kind, obj Jobject, f FieldID, v Value)
	GetStaticField(kind Kind, cls Jobject, f FieldID) Value
	SetStaticField(kind Kind, cls Jobject, f FieldID, v Value)

	NewString(chars []uint16) Jobject
	GetStringLength(s Jobject) int32
	GetStringRegion(s Jobject, start int32, buf []uint16)
	GetStringChars(s Jobject) unsafe.Pointer
	ReleaseStringChars(s Jobject, chars unsafe.Pointer)

	GetArrayLength(arr Jobject) int32
	NewPrimitiveArray(kind Kind, length int32) Jobject
	NewObjectArray(length int32, cls, init Jobject) Jobject
	GetObjectArrayElement(arr Jobject, index int32) Jobject
	SetObjectArrayElement(arr Jobject, index int32, v Jobject)
	GetArrayElements(kind Kind, arr Jobject) unsafe.Pointer
	ReleaseArrayElements(kind Kind, arr Jobject, elems unsafe.Pointer, mode ReleaseMode)
	GetArrayRegion(kind Kind, arr Jobject, start, length int32, buf unsafe.Pointer)
	SetArrayRegion(kind Kind, arr Jobject, start, length int32, buf unsafe.Pointer)

	NewDirectByteBuffer(addr unsafe.Pointer, capacity int64) Jobject
	GetDirectBufferAddress(buf Jobject) unsafe.Pointer
	GetDirectBufferCapacity(buf Jobject) int64

	RegisterNatives(cls Jobject, methods []NativeMethod) int32
	UnregisterNatives(cls Jobject) int32
}

// VM is the JNI invocation interface.
type VM interface {
	GetEnv(version int32) (Env, int32)
	AttachCurrentThread() (Env, int32)
	AttachCurrentThreadAsDaemon() (Env, int32)
	DetachCurrentThread() int32
	DestroyJavaVM() int32
}
