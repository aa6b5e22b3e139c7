package jnigo

// Type is implemented by the zero-size tag types that name a managed
// reference type. ClassName is the binary name as accepted by Class.forName,
// with dots ("java.lang.String"), or an array descriptor ("[I").
//
// A tag declares its direct supertype with a Super method returning the
// parent tag; Widen uses it to allow upcasts at compile time:
//
//	type Base struct{}
//
//	func (Base) ClassName() string   { return "com.example.Base" }
//	func (Base) Super() jnigo.JObject { return jnigo.JObject{} }
type Type interface {
	ClassName() string
}

// JObject is java.lang.Object, the root of every reference type.
type JObject struct{}

func (JObject) ClassName() string { return "java.lang.Object" }

// JString is java.lang.String.
type JString struct{}

func (JString) ClassName() string { return "java.lang.String" }
func (JString) Super() JObject    { return JObject{} }

// JClass is java.lang.Class.
type JClass struct{}

func (JClass) ClassName() string { return "java.lang.Class" }
func (JClass) Super() JObject    { return JObject{} }

// JThrowable is java.lang.Throwable.
type JThrowable struct{}

func (JThrowable) ClassName() string { return "java.lang.Throwable" }
func (JThrowable) Super() JObject    { return JObject{} }

// JByteBuffer is java.nio.ByteBuffer, the type of direct buffers.
type JByteBuffer struct{}

func (JByteBuffer) ClassName() string { return "java.nio.ByteBuffer" }
func (JByteBuffer) Super() JObject    { return JObject{} }

// JArray is the common supertype of all array tags. It has no class of its
// own and resolves to java.lang.Object.
type JArray struct{}

func (JArray) ClassName() string { return "java.lang.Object" }
func (JArray) Super() JObject    { return JObject{} }

// JArrayOf is an array of the primitive E, for example JArrayOf[int32] is
// int[].
type JArrayOf[E Primitive] struct{}

func (JArrayOf[E]) ClassName() string { return "[" + Sig[E]() }
func (JArrayOf[E]) Super() JArray     { return JArray{} }

// Primitive array tags.
type (
	JBooleanArray = JArrayOf[bool]
	JByteArray    = JArrayOf[int8]
	JCharArray    = JArrayOf[uint16]
	JShortArray   = JArrayOf[int16]
	JIntArray     = JArrayOf[int32]
	JLongArray    = JArrayOf[int64]
	JFloatArray   = JArrayOf[float32]
	JDoubleArray  = JArrayOf[float64]
)

// JObjectArray is an array whose elements are references of type E.
type JObjectArray[E Type] struct{}

func (JObjectArray[E]) ClassName() string { return "[" + Sig[E]() }
func (JObjectArray[E]) Super() JArray     { return JArray{} }
