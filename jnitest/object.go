package jnitest

import (
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/jnigo"
)

// Object is a Java object of the fake VM.
type Object struct {
	id     uint64
	class  *Class
	meta   *Class // the class a java.lang.Class instance stands for
	fields map[*Field]slot
	dead   bool

	chars []uint16 // java.lang.String

	array    bool
	kind     jnigo.Kind
	length   int
	words    []uint64 // primitive array storage
	elems    []*Object
	elem     *Class
	addr     unsafe.Pointer // direct buffer
	capacity int64
	direct   bool
}

type slot struct {
	v jnigo.Value
	o *Object
}

func (o *Object) bytes() []byte {
	if len(o.words) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&o.words[0])), o.length*o.kind.Size())
}

func wordsFor(length int, kind jnigo.Kind) []uint64 {
	return make([]uint64, (length*kind.Size()+7)/8)
}

func (vm *VM) newString(chars []uint16) *Object {
	o := vm.newObject(vm.Class("java.lang.String"))
	o.chars = append([]uint16{}, chars...)
	return o
}

func (vm *VM) newPrimitiveArray(kind jnigo.Kind, n int) *Object {
	o := vm.newObject(vm.arrayClass("[" + primitiveDesc(kind)))
	o.array, o.kind, o.length = true, kind, n
	o.words = wordsFor(n, kind)
	return o
}

func (vm *VM) newObjectArray(elem *Class, n int, init *Object) *Object {
	o := vm.newObject(vm.arrayClass("[" + elem.descriptor()))
	o.array, o.kind, o.length = true, jnigo.KindObject, n
	o.elem = elem
	o.elems = make([]*Object, n)
	for i := range o.elems {
		o.elems[i] = init
	}
	return o
}

func (o *Object) String() string {
	switch {
	case o == nil:
		return "null"
	case o.chars != nil || o.class.name == "java.lang.String":
		return string(utf16Decode(o.chars))
	case o.meta != nil:
		return "class " + o.meta.name
	}
	return fmt.Sprintf("%s@%x", o.class.name, o.id)
}

func utf16Decode(s []uint16) []rune {
	out := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		if c >= 0xD800 && c < 0xDC00 && i+1 < len(s) && s[i+1] >= 0xDC00 && s[i+1] < 0xE000 {
			c = (c-0xD800)<<10 + (rune(s[i+1]) - 0xDC00) + 0x10000
			i++
		}
		out = append(out, c)
	}
	return out
}

func utf16Encode(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}

// defineBuiltins sets up the classes the jnigo runtime resolves.
func (vm *VM) defineBuiltins() {
	object := vm.DefineClass("java.lang.Object", "")
	vm.DefineClass("java.lang.Class", "")
	object.obj.class = vm.Class("java.lang.Class")
	vm.Class("java.lang.Class").obj.class = vm.Class("java.lang.Class")

	object.DefineMethod("<init>", "()V", func(*Env, jnigo.Jobject, []jnigo.Value) jnigo.Value { return 0 })
	object.DefineMethod("toString", "()Ljava/lang/String;", func(env *Env, this jnigo.Jobject, _ []jnigo.Value) jnigo.Value {
		o := env.vm.resolve(this)
		return jnigo.Obj(env.NewStringUTF(o.String()))
	})
	object.DefineMethod("hashCode", "()I", func(env *Env, this jnigo.Jobject, _ []jnigo.Value) jnigo.Value {
		return jnigo.Int(int32(env.vm.resolve(this).id))
	})

	vm.DefineClass("java.lang.String", "")
	vm.DefineClass("java.nio.Buffer", "")
	vm.DefineClass("java.nio.ByteBuffer", "java.nio.Buffer")

	throwable := vm.DefineClass("java.lang.Throwable", "")
	throwable.DefineField("detailMessage", "Ljava/lang/String;")
	message := throwable.field("detailMessage", "Ljava/lang/String;", false)
	vm.message = message
	throwable.DefineMethod("<init>", "()V", func(*Env, jnigo.Jobject, []jnigo.Value) jnigo.Value { return 0 })
	throwable.DefineMethod("<init>", "(Ljava/lang/String;)V", func(env *Env, this jnigo.Jobject, args []jnigo.Value) jnigo.Value {
		env.vm.resolve(this).fields[message] = slot{o: env.vm.resolve(args[0].Object())}
		return 0
	})
	throwable.DefineMethod("getMessage", "()Ljava/lang/String;", func(env *Env, this jnigo.Jobject, _ []jnigo.Value) jnigo.Value {
		msg := env.vm.resolve(this).fields[message].o
		return jnigo.Obj(env.vm.newRef(msg, jnigo.RefTypeLocal, env))
	})
	throwable.DefineMethod("toString", "()Ljava/lang/String;", func(env *Env, this jnigo.Jobject, _ []jnigo.Value) jnigo.Value {
		o := env.vm.resolve(this)
		s := o.class.name
		if msg := o.fields[message].o; msg != nil {
			s += ": " + msg.String()
		}
		return jnigo.Obj(env.NewStringUTF(s))
	})

	for _, c := range [][2]string{
		{"java.lang.Exception", "java.lang.Throwable"},
		{"java.lang.RuntimeException", "java.lang.Exception"},
		{"java.lang.IllegalArgumentException", "java.lang.RuntimeException"},
		{"java.lang.NullPointerException", "java.lang.RuntimeException"},
		{"java.lang.IndexOutOfBoundsException", "java.lang.RuntimeException"},
		{"java.lang.ArrayIndexOutOfBoundsException", "java.lang.IndexOutOfBoundsException"},
		{"java.lang.StringIndexOutOfBoundsException", "java.lang.IndexOutOfBoundsException"},
		{"java.lang.ArrayStoreException", "java.lang.RuntimeException"},
		{"java.lang.NegativeArraySizeException", "java.lang.RuntimeException"},
		{"java.lang.Error", "java.lang.Throwable"},
		{"java.lang.OutOfMemoryError", "java.lang.Error"},
		{"java.lang.LinkageError", "java.lang.Error"},
		{"java.lang.NoClassDefFoundError", "java.lang.LinkageError"},
		{"java.lang.UnsatisfiedLinkError", "java.lang.LinkageError"},
		{"java.lang.IncompatibleClassChangeError", "java.lang.LinkageError"},
		{"java.lang.NoSuchMethodError", "java.lang.IncompatibleClassChangeError"},
		{"java.lang.NoSuchFieldError", "java.lang.IncompatibleClassChangeError"},
	} {
		vm.DefineClass(c[0], c[1])
	}
}
