package jnitest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/obinnaokechukwu/jnigo"
)

// MethodFunc is the Go body of a Java method. this is the receiver, or the
// class for static methods, as a local reference valid during the call.
// Object results are local references created on env.
type MethodFunc func(env *Env, this jnigo.Jobject, args []jnigo.Value) jnigo.Value

// Class is a Java class of the fake VM.
type Class struct {
	vm    *VM
	name  string
	super *Class
	obj   *Object

	mu      sync.Mutex
	methods []*Method
	fields  []*Field
}

// Method is a method of a Class.
type Method struct {
	class  *Class
	id     jnigo.MethodID
	name   string
	sig    string
	static bool
	native bool
	fn     MethodFunc
	kinds  []jnigo.Kind
	ret    jnigo.Kind

	bound *jnigo.NativeMethod
}

// Field is a field of a Class. Static fields hold their value.
type Field struct {
	class  *Class
	id     jnigo.FieldID
	name   string
	sig    string
	static bool
	kind   jnigo.Kind
	value  slot
}

// DefineClass adds a class named name, in binary form with dots, extending
// super. An empty super means java.lang.Object. Defining an existing class
// returns it.
func (vm *VM) DefineClass(name, super string) *Class {
	name = strings.ReplaceAll(name, "/", ".")
	var parent *Class
	if name != "java.lang.Object" {
		if super == "" {
			super = "java.lang.Object"
		}
		parent = vm.Class(super)
		if parent == nil {
			panic(fmt.Sprintf("jnitest: superclass %s of %s is not defined", super, name))
		}
	}

	vm.mu.Lock()
	if c, ok := vm.classes[name]; ok {
		vm.mu.Unlock()
		return c
	}
	c := &Class{vm: vm, name: name, super: parent}
	vm.classes[name] = c
	vm.mu.Unlock()

	// java.lang.Class itself may not exist yet while the builtins are set up.
	c.obj = vm.newObject(vm.Class("java.lang.Class"))
	c.obj.meta = c
	return c
}

// Name returns the binary name of the class.
func (c *Class) Name() string { return c.name }

// DefineMethod adds an instance method implemented by fn.
func (c *Class) DefineMethod(name, sig string, fn MethodFunc) *Class {
	c.addMethod(name, sig, false, false, fn)
	return c
}

// DefineStaticMethod adds a static method implemented by fn.
func (c *Class) DefineStaticMethod(name, sig string, fn MethodFunc) *Class {
	c.addMethod(name, sig, true, false, fn)
	return c
}

// DefineNative declares an instance native method. Calling it before
// RegisterNatives binds it raises UnsatisfiedLinkError.
func (c *Class) DefineNative(name, sig string) *Class {
	c.addMethod(name, sig, false, true, nil)
	return c
}

// DefineStaticNative declares a static native method.
func (c *Class) DefineStaticNative(name, sig string) *Class {
	c.addMethod(name, sig, true, true, nil)
	return c
}

// DefineField adds an instance field.
func (c *Class) DefineField(name, sig string) *Class {
	c.addField(name, sig, false, slot{})
	return c
}

// DefineStaticField adds a static field holding the primitive value v.
func (c *Class) DefineStaticField(name, sig string, v jnigo.Value) *Class {
	c.addField(name, sig, true, slot{v: v})
	return c
}

func (c *Class) addMethod(name, sig string, static, native bool, fn MethodFunc) {
	kinds, ret, err := parseMethodSig(sig)
	if err != nil {
		panic(fmt.Sprintf("jnitest: %s.%s: %v", c.name, name, err))
	}
	m := &Method{class: c, name: name, sig: sig, static: static, native: native, fn: fn, kinds: kinds, ret: ret}
	m.id = jnigo.MethodID(c.vm.methods.Register(m))
	c.mu.Lock()
	c.methods = append(c.methods, m)
	c.mu.Unlock()
}

func (c *Class) addField(name, sig string, static bool, v slot) {
	kind, rest, err := parseType(sig)
	if err != nil || rest != "" {
		panic(fmt.Sprintf("jnitest: %s.%s: bad field signature %q", c.name, name, sig))
	}
	f := &Field{class: c, name: name, sig: sig, static: static, kind: kind, value: v}
	f.id = jnigo.FieldID(c.vm.fields.Register(f))
	c.mu.Lock()
	c.fields = append(c.fields, f)
	c.mu.Unlock()
}

// method finds a method by name and signature in c or its superclasses.
func (c *Class) method(name, sig string, static bool) *Method {
	for k := c; k != nil; k = k.super {
		k.mu.Lock()
		for _, m := range k.methods {
			if m.name == name && m.sig == sig && m.static == static {
				k.mu.Unlock()
				return m
			}
		}
		k.mu.Unlock()
		if name == "<init>" {
			break
		}
	}
	return nil
}

func (c *Class) field(name, sig string, static bool) *Field {
	for k := c; k != nil; k = k.super {
		k.mu.Lock()
		for _, f := range k.fields {
			if f.name == name && f.sig == sig && f.static == static {
				k.mu.Unlock()
				return f
			}
		}
		k.mu.Unlock()
	}
	return nil
}

func (c *Class) fieldNamed(name string) *Field {
	for k := c; k != nil; k = k.super {
		k.mu.Lock()
		for _, f := range k.fields {
			if f.name == name && !f.static {
				k.mu.Unlock()
				return f
			}
		}
		k.mu.Unlock()
	}
	return nil
}

func (c *Class) isSubclassOf(sup *Class) bool {
	if sup != nil && sup.name == "java.lang.Object" {
		return true
	}
	for k := c; k != nil; k = k.super {
		if k == sup {
			return true
		}
	}
	return false
}

// descriptor returns the field descriptor naming c.
func (c *Class) descriptor() string {
	if strings.HasPrefix(c.name, "[") {
		return strings.ReplaceAll(c.name, ".", "/")
	}
	return "L" + strings.ReplaceAll(c.name, ".", "/") + ";"
}

func parseMethodSig(sig string) ([]jnigo.Kind, jnigo.Kind, error) {
	if !strings.HasPrefix(sig, "(") {
		return nil, 0, fmt.Errorf("bad method signature %q", sig)
	}
	rest := sig[1:]
	var kinds []jnigo.Kind
	for !strings.HasPrefix(rest, ")") {
		if rest == "" {
			return nil, 0, fmt.Errorf("bad method signature %q", sig)
		}
		k, r, err := parseType(rest)
		if err != nil {
			return nil, 0, err
		}
		kinds = append(kinds, k)
		rest = r
	}
	rest = rest[1:]
	if rest == "V" {
		return kinds, jnigo.KindVoid, nil
	}
	ret, r, err := parseType(rest)
	if err != nil || r != "" {
		return nil, 0, fmt.Errorf("bad method signature %q", sig)
	}
	return kinds, ret, nil
}

// parseType consumes one field descriptor.
func parseType(s string) (jnigo.Kind, string, error) {
	if s == "" {
		return 0, "", fmt.Errorf("empty type")
	}
	switch s[0] {
	case 'Z':
		return jnigo.KindBoolean, s[1:], nil
	case 'B':
		return jnigo.KindByte, s[1:], nil
	case 'C':
		return jnigo.KindChar, s[1:], nil
	case 'S':
		return jnigo.KindShort, s[1:], nil
	case 'I':
		return jnigo.KindInt, s[1:], nil
	case 'J':
		return jnigo.KindLong, s[1:], nil
	case 'F':
		return jnigo.KindFloat, s[1:], nil
	case 'D':
		return jnigo.KindDouble, s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return 0, "", fmt.Errorf("unterminated class type %q", s)
		}
		return jnigo.KindObject, s[end+1:], nil
	case '[':
		_, rest, err := parseType(s[1:])
		return jnigo.KindObject, rest, err
	}
	return 0, "", fmt.Errorf("bad type %q", s)
}

// primitiveDesc maps a primitive kind to its descriptor.
func primitiveDesc(k jnigo.Kind) string {
	return string("?ZBCSIJFD"[k])
}
