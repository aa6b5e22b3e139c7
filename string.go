package jnigo

import (
	"unsafe"

	"github.com/obinnaokechukwu/jnigo/utf"
)

// NewString creates a java.lang.String from a Go string. Invalid UTF-8 is
// replaced with U+FFFD.
func NewString(env Env, s string) (Ref[JString, Local], error) {
	return NewStringUTF16(env, utf.StringToUTF16(s))
}

// NewStringUTF16 creates a java.lang.String from UTF-16 code units.
func NewStringUTF16(env Env, chars []uint16) (Ref[JString, Local], error) {
	obj := env.NewString(chars)
	if obj == 0 {
		if err := Check(env); err != nil {
			return Ref[JString, Local]{}, err
		}
		return Ref[JString, Local]{}, throwProblem("cannot create java string")
	}
	return AttachLocal[JString](env, obj), nil
}

// StringLength returns the length of str in UTF-16 code units. A null
// string has length 0.
func StringLength(env Env, str Reference) (int, error) {
	if str == nil || str.Raw() == 0 {
		return 0, nil
	}
	n := env.GetStringLength(str.Raw())
	if err := Check(env); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, throwProblem("invalid string size")
	}
	return int(n), nil
}

// StringRegion copies len(buf) code units of str starting at start.
func StringRegion(env Env, str Reference, start int, buf []uint16) error {
	env.GetStringRegion(str.Raw(), int32(start), buf)
	return Check(env)
}

// StringUTF16 returns the UTF-16 contents of str.
func StringUTF16(env Env, str Reference) ([]uint16, error) {
	n, err := StringLength(env, str)
	if err != nil || n == 0 {
		return nil, err
	}
	buf := make([]uint16, n)
	if err := StringRegion(env, str, 0, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// GoString converts str to a Go string. Unpaired surrogates become U+FFFD.
// A null string converts to "".
func GoString(env Env, str Reference) (string, error) {
	chars, err := StringUTF16(env, str)
	if err != nil {
		return "", err
	}
	return utf.UTF16ToString(chars), nil
}

// StringAccess pins the characters of a string.
type StringAccess struct {
	env   Env
	str   Jobject
	chars unsafe.Pointer
	n     int
}

// AccessString pins the UTF-16 characters of str. A null string yields an
// empty access. Release must be called when done.
func AccessString(env Env, str Reference) (*StringAccess, error) {
	a := &StringAccess{env: env}
	if str == nil || str.Raw() == 0 {
		return a, nil
	}
	n, err := StringLength(env, str)
	if err != nil {
		return nil, err
	}
	chars := env.GetStringChars(str.Raw())
	if chars == nil {
		if err := Check(env); err != nil {
			return nil, err
		}
		return nil, throwProblem("cannot access java string")
	}
	a.str, a.chars, a.n = str.Raw(), chars, n
	return a, nil
}

// Len returns the number of code units.
func (a *StringAccess) Len() int { return a.n }

// Chars returns the pinned code units. The slice is invalid after Release.
func (a *StringAccess) Chars() []uint16 {
	if a.chars == nil {
		return nil
	}
	return unsafe.Slice((*uint16)(a.chars), a.n)
}

// At returns the code unit at i, or ErrIndexOutOfRange.
func (a *StringAccess) At(i int) (uint16, error) {
	if i < 0 || i >= a.n {
		return 0, ErrIndexOutOfRange
	}
	return a.Chars()[i], nil
}

// String converts the pinned characters to a Go string.
func (a *StringAccess) String() string {
	return utf.UTF16ToString(a.Chars())
}

// Release unpins the characters.
func (a *StringAccess) Release() {
	if a.chars == nil {
		return
	}
	a.env.ReleaseStringChars(a.str, a.chars)
	a.chars, a.n = nil, 0
}
