package jnigo

import (
	"fmt"
	"strings"
)

// Void is the return type of methods returning nothing.
type Void struct{}

// Primitive is the set of Go types that map onto JNI primitive types:
// bool=jboolean, int8=jbyte, uint16=jchar, int16=jshort, int32=jint,
// int64=jlong, float32=jfloat, float64=jdouble.
type Primitive interface {
	bool | int8 | uint16 | int16 | int32 | int64 | float32 | float64
}

type descriptorer interface {
	descriptor() string
}

// Sig returns the JNI type descriptor of T. T is a Primitive, Void, a Type
// tag or a Ref. Any other T is a programming error and panics.
func Sig[T any]() string {
	var zero T
	switch v := any(zero).(type) {
	case bool:
		return "Z"
	case int8:
		return "B"
	case uint16:
		return "C"
	case int16:
		return "S"
	case int32:
		return "I"
	case int64:
		return "J"
	case float32:
		return "F"
	case float64:
		return "D"
	case Void:
		return "V"
	case descriptorer:
		return v.descriptor()
	case Type:
		return ClassSig(v.ClassName())
	}
	panic(fmt.Sprintf("jnigo: no JNI descriptor for %T", zero))
}

// ClassSig converts a binary class name into a type descriptor:
// "java.lang.String" becomes "Ljava/lang/String;". Array descriptors are
// returned with dots converted to slashes.
func ClassSig(name string) string {
	name = strings.ReplaceAll(name, ".", "/")
	if strings.HasPrefix(name, "[") {
		return name
	}
	return "L" + name + ";"
}

// ArraySig returns the descriptor of an array of elem.
func ArraySig(elem string) string {
	return "[" + elem
}

// MethodSig builds a method descriptor from a return descriptor and argument
// descriptors.
func MethodSig(ret string, args ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, a := range args {
		b.WriteString(a)
	}
	b.WriteByte(')')
	b.WriteString(ret)
	return b.String()
}

func kindOf[T Primitive]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return KindBoolean
	case int8:
		return KindByte
	case uint16:
		return KindChar
	case int16:
		return KindShort
	case int32:
		return KindInt
	case int64:
		return KindLong
	case float32:
		return KindFloat
	default:
		return KindDouble
	}
}

func toValue[T Primitive](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return Bool(x)
	case int8:
		return Byte(x)
	case uint16:
		return Char(x)
	case int16:
		return Short(x)
	case int32:
		return Int(x)
	case int64:
		return Long(x)
	case float32:
		return Float(x)
	case float64:
		return Double(x)
	}
	return 0
}

func fromValue[T Primitive](v Value) T {
	var out any
	var zero T
	switch any(zero).(type) {
	case bool:
		out = v.Bool()
	case int8:
		out = v.Byte()
	case uint16:
		out = v.Char()
	case int16:
		out = v.Short()
	case int32:
		out = v.Int()
	case int64:
		out = v.Long()
	case float32:
		out = v.Float()
	case float64:
		out = v.Double()
	}
	return out.(T)
}
