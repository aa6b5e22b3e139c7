package jnitest

import (
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/jnigo"
)

// Env is the fake JNI function table of one thread. It implements
// jnigo.Env.
type Env struct {
	vm     *VM
	tid    uint64
	daemon bool

	mu      sync.Mutex
	frames  [][]jnigo.Jobject
	pending *Object
}

var _ jnigo.Env = (*Env)(nil)
var _ jnigo.VM = (*VM)(nil)

func newEnv(vm *VM, tid uint64) *Env {
	return &Env{vm: vm, tid: tid, frames: [][]jnigo.Jobject{nil}}
}

// VM returns the VM owning the env.
func (e *Env) VM() *VM { return e.vm }

// Daemon reports whether the env belongs to a thread attached as a daemon.
func (e *Env) Daemon() bool { return e.daemon }

// FrameDepth returns the number of local frames pushed on top of the base
// frame.
func (e *Env) FrameDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.frames) - 1
}

// LocalCount returns the number of live local references of the env.
func (e *Env) LocalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, f := range e.frames {
		n += len(f)
	}
	return n
}

// NewStringUTF creates a string from Go text and returns a local reference.
func (e *Env) NewStringUTF(s string) jnigo.Jobject {
	return e.vm.newRef(e.vm.newString(utf16Encode(s)), jnigo.RefTypeLocal, e)
}

// NewInstance allocates an object of c without running a constructor.
func (e *Env) NewInstance(c *Class) jnigo.Jobject {
	return e.vm.newRef(e.vm.newObject(c), jnigo.RefTypeLocal, e)
}

// ClassRef returns a local reference to the class object of c.
func (e *Env) ClassRef(c *Class) jnigo.Jobject {
	return e.vm.newRef(c.obj, jnigo.RefTypeLocal, e)
}

// Describe returns the Java toString form of obj without running Java code.
func (e *Env) Describe(obj jnigo.Jobject) string {
	return e.vm.resolve(obj).String()
}

// FieldValue reads the instance field name of obj. Object fields are
// returned as new local references.
func (e *Env) FieldValue(obj jnigo.Jobject, name string) jnigo.Value {
	o := e.vm.resolve(obj)
	f := o.class.fieldNamed(name)
	if f == nil {
		panic("jnitest: no field " + name + " in " + o.class.name)
	}
	return e.load(f.kind, o.fields[f])
}

// SetFieldValue writes the instance field name of obj.
func (e *Env) SetFieldValue(obj jnigo.Jobject, name string, v jnigo.Value) {
	o := e.vm.resolve(obj)
	f := o.class.fieldNamed(name)
	if f == nil {
		panic("jnitest: no field " + name + " in " + o.class.name)
	}
	o.fields[f] = e.store(f.kind, v)
}

// Throwing raises a new exception of the named class, as Java code would.
func (e *Env) Throwing(class, msg string) {
	e.throwNew(e.vm.Class(class), msg)
}

func (e *Env) track(obj jnigo.Jobject) {
	e.mu.Lock()
	top := len(e.frames) - 1
	e.frames[top] = append(e.frames[top], obj)
	e.mu.Unlock()
}

func (e *Env) untrack(obj jnigo.Jobject) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.frames) - 1; i >= 0; i-- {
		f := e.frames[i]
		for j, id := range f {
			if id == obj {
				e.frames[i] = append(f[:j], f[j+1:]...)
				return
			}
		}
	}
}

func (e *Env) popFrame() {
	e.mu.Lock()
	top := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	e.mu.Unlock()
	for _, id := range top {
		e.vm.refs.Unregister(uintptr(id))
	}
}

func (e *Env) throwNew(c *Class, msg string) {
	o := e.vm.newObject(c)
	o.fields[e.vm.message] = slot{o: e.vm.newString(utf16Encode(msg))}
	e.mu.Lock()
	e.pending = o
	e.mu.Unlock()
}

// classOf resolves a class reference.
func (e *Env) classOf(cls jnigo.Jobject) *Class {
	o := e.vm.resolve(cls)
	if o == nil || o.meta == nil {
		e.vm.misused("%#x is not a class reference", uintptr(cls))
		return nil
	}
	return o.meta
}

func (e *Env) local(o *Object) jnigo.Jobject {
	return e.vm.newRef(o, jnigo.RefTypeLocal, e)
}

func (e *Env) GetVersion() int32 { return jnigo.Version1_8 }

func (e *Env) GetJavaVM() (jnigo.VM, int32) { return e.vm, jnigo.OK }

func (e *Env) FindClass(name string) jnigo.Jobject {
	c := e.vm.Class(name)
	if c == nil && len(name) > 1 && name[0] == '[' {
		if _, rest, err := parseType(name); err == nil && rest == "" {
			c = e.vm.arrayClass(name)
		}
	}
	if c == nil {
		e.Throwing("java.lang.NoClassDefFoundError", name)
		return 0
	}
	return e.local(c.obj)
}

func (e *Env) GetSuperclass(cls jnigo.Jobject) jnigo.Jobject {
	c := e.classOf(cls)
	if c == nil || c.super == nil {
		return 0
	}
	return e.local(c.super.obj)
}

func (e *Env) IsAssignableFrom(sub, sup jnigo.Jobject) bool {
	a, b := e.classOf(sub), e.classOf(sup)
	return a != nil && b != nil && a.isSubclassOf(b)
}

func (e *Env) GetObjectClass(obj jnigo.Jobject) jnigo.Jobject {
	o := e.vm.resolve(obj)
	if o == nil {
		e.vm.misused("GetObjectClass on null")
		return 0
	}
	return e.local(o.class.obj)
}

func (e *Env) IsInstanceOf(obj, cls jnigo.Jobject) bool {
	c := e.classOf(cls)
	o := e.vm.resolve(obj)
	if o == nil {
		return true
	}
	return c != nil && o.class.isSubclassOf(c)
}

func (e *Env) IsSameObject(a, b jnigo.Jobject) bool {
	return e.vm.resolve(a) == e.vm.resolve(b)
}

func (e *Env) Throw(throwable jnigo.Jobject) int32 {
	if e.vm.failThrow.Load() {
		return jnigo.ErrCode
	}
	o := e.vm.resolve(throwable)
	if o == nil {
		return jnigo.ErrCode
	}
	e.mu.Lock()
	e.pending = o
	e.mu.Unlock()
	return jnigo.OK
}

func (e *Env) ThrowNew(cls jnigo.Jobject, msg string) int32 {
	if e.vm.failThrow.Load() {
		return jnigo.ErrCode
	}
	c := e.classOf(cls)
	if c == nil {
		return jnigo.ErrCode
	}
	e.throwNew(c, msg)
	return jnigo.OK
}

func (e *Env) ExceptionOccurred() jnigo.Jobject {
	e.mu.Lock()
	p := e.pending
	e.mu.Unlock()
	return e.local(p)
}

func (e *Env) ExceptionClear() {
	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
}

func (e *Env) ExceptionCheck() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

func (e *Env) PushLocalFrame(capacity int32) int32 {
	if capacity < 0 || capacity > e.vm.maxCapacity {
		e.Throwing("java.lang.OutOfMemoryError", "could not reserve local references")
		return jnigo.ErrCode
	}
	e.mu.Lock()
	e.frames = append(e.frames, nil)
	e.mu.Unlock()
	return jnigo.OK
}

func (e *Env) PopLocalFrame(result jnigo.Jobject) jnigo.Jobject {
	o := e.vm.resolve(result)
	if e.FrameDepth() == 0 {
		e.vm.misused("PopLocalFrame without PushLocalFrame")
		return 0
	}
	e.popFrame()
	return e.local(o)
}

func (e *Env) NewLocalRef(obj jnigo.Jobject) jnigo.Jobject {
	return e.local(e.vm.resolve(obj))
}

func (e *Env) DeleteLocalRef(obj jnigo.Jobject) {
	e.vm.deleteRef(obj, jnigo.RefTypeLocal)
}

func (e *Env) NewGlobalRef(obj jnigo.Jobject) jnigo.Jobject {
	return e.vm.newRef(e.vm.resolve(obj), jnigo.RefTypeGlobal, nil)
}

func (e *Env) DeleteGlobalRef(obj jnigo.Jobject) {
	e.vm.deleteRef(obj, jnigo.RefTypeGlobal)
}

func (e *Env) NewWeakGlobalRef(obj jnigo.Jobject) jnigo.Jobject {
	return e.vm.newRef(e.vm.resolve(obj), jnigo.RefTypeWeakGlobal, nil)
}

func (e *Env) DeleteWeakGlobalRef(obj jnigo.Jobject) {
	e.vm.deleteRef(obj, jnigo.RefTypeWeakGlobal)
}

func (e *Env) GetObjectRefType(obj jnigo.Jobject) jnigo.RefType {
	r, ok := e.vm.refs.Lookup(uintptr(obj))
	if !ok {
		return jnigo.RefTypeInvalid
	}
	return r.kind
}

func (e *Env) GetMethodID(cls jnigo.Jobject, name, sig string) jnigo.MethodID {
	return e.methodID(cls, name, sig, false)
}

func (e *Env) GetStaticMethodID(cls jnigo.Jobject, name, sig string) jnigo.MethodID {
	return e.methodID(cls, name, sig, true)
}

func (e *Env) methodID(cls jnigo.Jobject, name, sig string, static bool) jnigo.MethodID {
	c := e.classOf(cls)
	if c == nil {
		e.Throwing("java.lang.NullPointerException", "class")
		return 0
	}
	m := c.method(name, sig, static)
	if m == nil {
		e.Throwing("java.lang.NoSuchMethodError", name)
		return 0
	}
	return m.id
}

func (e *Env) GetFieldID(cls jnigo.Jobject, name, sig string) jnigo.FieldID {
	return e.fieldID(cls, name, sig, false)
}

func (e *Env) GetStaticFieldID(cls jnigo.Jobject, name, sig string) jnigo.FieldID {
	return e.fieldID(cls, name, sig, true)
}

func (e *Env) fieldID(cls jnigo.Jobject, name, sig string, static bool) jnigo.FieldID {
	c := e.classOf(cls)
	if c == nil {
		e.Throwing("java.lang.NullPointerException", "class")
		return 0
	}
	f := c.field(name, sig, static)
	if f == nil {
		e.Throwing("java.lang.NoSuchFieldError", name)
		return 0
	}
	return f.id
}

func (e *Env) method(id jnigo.MethodID, kind jnigo.Kind, static bool) *Method {
	m, ok := e.vm.methods.Lookup(uintptr(id))
	if !ok {
		e.vm.misused("invalid method id %#x", uintptr(id))
		return nil
	}
	if m.static != static {
		e.vm.misused("%s.%s called with the wrong static-ness", m.class.name, m.name)
	}
	if kind != m.ret && !(m.name == "<init>" && kind == jnigo.KindObject) {
		e.vm.misused("%s.%s%s called as %s method", m.class.name, m.name, m.sig, kind)
	}
	return m
}

func (e *Env) NewObject(cls jnigo.Jobject, ctor jnigo.MethodID, args []jnigo.Value) jnigo.Jobject {
	c := e.classOf(cls)
	m := e.method(ctor, jnigo.KindObject, false)
	if c == nil || m == nil {
		return 0
	}
	obj := e.local(e.vm.newObject(c))
	e.invoke(m, obj, args)
	if e.ExceptionCheck() {
		e.DeleteLocalRef(obj)
		return 0
	}
	return obj
}

func (e *Env) CallMethod(kind jnigo.Kind, obj jnigo.Jobject, id jnigo.MethodID, args []jnigo.Value) jnigo.Value {
	m := e.method(id, kind, false)
	o := e.vm.resolve(obj)
	if m == nil {
		return 0
	}
	if o == nil {
		e.Throwing("java.lang.NullPointerException", m.name)
		return 0
	}
	if impl := o.class.method(m.name, m.sig, false); impl != nil {
		m = impl
	}
	return e.invoke(m, obj, args)
}

func (e *Env) CallNonvirtualMethod(kind jnigo.Kind, obj, cls jnigo.Jobject, id jnigo.MethodID, args []jnigo.Value) jnigo.Value {
	m := e.method(id, kind, false)
	if m == nil {
		return 0
	}
	if e.vm.resolve(obj) == nil {
		e.Throwing("java.lang.NullPointerException", m.name)
		return 0
	}
	if c := e.classOf(cls); c != nil {
		if impl := c.method(m.name, m.sig, false); impl != nil {
			m = impl
		}
	}
	return e.invoke(m, obj, args)
}

func (e *Env) CallStaticMethod(kind jnigo.Kind, cls jnigo.Jobject, id jnigo.MethodID, args []jnigo.Value) jnigo.Value {
	m := e.method(id, kind, true)
	if m == nil {
		return 0
	}
	return e.invoke(m, cls, args)
}

// invoke runs a method body. Native methods run in a fresh local frame with
// their own references to the receiver and object arguments, as a JVM calls
// them.
func (e *Env) invoke(m *Method, this jnigo.Jobject, args []jnigo.Value) jnigo.Value {
	if len(args) != len(m.kinds) {
		e.vm.misused("%s.%s%s called with %d arguments", m.class.name, m.name, m.sig, len(args))
		return 0
	}
	if !m.native {
		if m.fn == nil {
			e.Throwing("java.lang.UnsatisfiedLinkError", m.name)
			return 0
		}
		return m.fn(e, this, args)
	}

	m.class.mu.Lock()
	nm := m.bound
	m.class.mu.Unlock()
	if nm == nil {
		e.Throwing("java.lang.UnsatisfiedLinkError", m.class.name+"."+m.name+m.sig)
		return 0
	}

	if e.PushLocalFrame(int32(len(args)+1)) != jnigo.OK {
		return 0
	}
	local := make([]jnigo.Value, len(args))
	for i, a := range args {
		if m.kinds[i] == jnigo.KindObject {
			a = jnigo.Obj(e.NewLocalRef(a.Object()))
		}
		local[i] = a
	}
	ret := nm.Invoke(e, e.NewLocalRef(this), local)
	if m.ret == jnigo.KindObject {
		return jnigo.Obj(e.PopLocalFrame(ret.Object()))
	}
	e.PopLocalFrame(0)
	return ret
}

func (e *Env) field(id jnigo.FieldID, kind jnigo.Kind, static bool) *Field {
	f, ok := e.vm.fields.Lookup(uintptr(id))
	if !ok {
		e.vm.misused("invalid field id %#x", uintptr(id))
		return nil
	}
	if f.static != static || f.kind != kind {
		e.vm.misused("field %s.%s accessed as %s", f.class.name, f.name, kind)
	}
	return f
}

func (e *Env) load(kind jnigo.Kind, s slot) jnigo.Value {
	if kind == jnigo.KindObject {
		return jnigo.Obj(e.local(s.o))
	}
	return s.v
}

func (e *Env) store(kind jnigo.Kind, v jnigo.Value) slot {
	if kind == jnigo.KindObject {
		return slot{o: e.vm.resolve(v.Object())}
	}
	return slot{v: v}
}

func (e *Env) GetField(kind jnigo.Kind, obj jnigo.Jobject, id jnigo.FieldID) jnigo.Value {
	f := e.field(id, kind, false)
	o := e.vm.resolve(obj)
	if f == nil || o == nil {
		e.Throwing("java.lang.NullPointerException", "field")
		return 0
	}
	return e.load(kind, o.fields[f])
}

func (e *Env) SetField(kind jnigo.Kind, obj jnigo.Jobject, id jnigo.FieldID, v jnigo.Value) {
	f := e.field(id, kind, false)
	o := e.vm.resolve(obj)
	if f == nil || o == nil {
		e.Throwing("java.lang.NullPointerException", "field")
		return
	}
	o.fields[f] = e.store(kind, v)
}

func (e *Env) GetStaticField(kind jnigo.Kind, cls jnigo.Jobject, id jnigo.FieldID) jnigo.Value {
	f := e.field(id, kind, true)
	if f == nil {
		return 0
	}
	f.class.mu.Lock()
	s := f.value
	f.class.mu.Unlock()
	return e.load(kind, s)
}

func (e *Env) SetStaticField(kind jnigo.Kind, cls jnigo.Jobject, id jnigo.FieldID, v jnigo.Value) {
	f := e.field(id, kind, true)
	if f == nil {
		return
	}
	s := e.store(kind, v)
	f.class.mu.Lock()
	f.value = s
	f.class.mu.Unlock()
}

func (e *Env) NewString(chars []uint16) jnigo.Jobject {
	return e.local(e.vm.newString(chars))
}

func (e *Env) str(s jnigo.Jobject) *Object {
	o := e.vm.resolve(s)
	if o == nil || o.class.name != "java.lang.String" {
		e.vm.misused("%#x is not a string", uintptr(s))
		return nil
	}
	return o
}

func (e *Env) GetStringLength(s jnigo.Jobject) int32 {
	o := e.str(s)
	if o == nil {
		return 0
	}
	return int32(len(o.chars))
}

func (e *Env) GetStringRegion(s jnigo.Jobject, start int32, buf []uint16) {
	o := e.str(s)
	if o == nil {
		return
	}
	if start < 0 || int(start)+len(buf) > len(o.chars) {
		e.Throwing("java.lang.StringIndexOutOfBoundsException", "region")
		return
	}
	copy(buf, o.chars[start:])
}

func (e *Env) GetStringChars(s jnigo.Jobject) unsafe.Pointer {
	o := e.str(s)
	if o == nil {
		return nil
	}
	chars := make([]uint16, max(len(o.chars), 1))
	copy(chars, o.chars)
	p := unsafe.Pointer(&chars[0])
	e.vm.mu.Lock()
	e.vm.pins[p] = &pin{obj: o, chars: chars}
	e.vm.mu.Unlock()
	return p
}

func (e *Env) ReleaseStringChars(s jnigo.Jobject, chars unsafe.Pointer) {
	e.unpin(chars)
}

func (e *Env) unpin(p unsafe.Pointer) *pin {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	pn, ok := e.vm.pins[p]
	if !ok {
		e.vm.misuse = append(e.vm.misuse, "release of unknown elements")
		return nil
	}
	delete(e.vm.pins, p)
	return pn
}

func (e *Env) array(arr jnigo.Jobject) *Object {
	o := e.vm.resolve(arr)
	if o == nil || !o.array {
		e.vm.misused("%#x is not an array", uintptr(arr))
		return nil
	}
	return o
}

func (e *Env) GetArrayLength(arr jnigo.Jobject) int32 {
	o := e.array(arr)
	if o == nil {
		return 0
	}
	return int32(o.length)
}

func (e *Env) NewPrimitiveArray(kind jnigo.Kind, length int32) jnigo.Jobject {
	if length < 0 {
		e.Throwing("java.lang.NegativeArraySizeException", "length")
		return 0
	}
	return e.local(e.vm.newPrimitiveArray(kind, int(length)))
}

func (e *Env) NewObjectArray(length int32, cls, init jnigo.Jobject) jnigo.Jobject {
	if length < 0 {
		e.Throwing("java.lang.NegativeArraySizeException", "length")
		return 0
	}
	c := e.classOf(cls)
	if c == nil {
		return 0
	}
	return e.local(e.vm.newObjectArray(c, int(length), e.vm.resolve(init)))
}

func (e *Env) element(arr jnigo.Jobject, index int32) *Object {
	o := e.array(arr)
	if o == nil || o.kind != jnigo.KindObject {
		return nil
	}
	if index < 0 || int(index) >= o.length {
		e.Throwing("java.lang.ArrayIndexOutOfBoundsException", "index")
		return nil
	}
	return o
}

func (e *Env) GetObjectArrayElement(arr jnigo.Jobject, index int32) jnigo.Jobject {
	o := e.element(arr, index)
	if o == nil {
		return 0
	}
	return e.local(o.elems[index])
}

func (e *Env) SetObjectArrayElement(arr jnigo.Jobject, index int32, v jnigo.Jobject) {
	o := e.element(arr, index)
	if o == nil {
		return
	}
	val := e.vm.resolve(v)
	if val != nil && !val.class.isSubclassOf(o.elem) {
		e.Throwing("java.lang.ArrayStoreException", val.class.name)
		return
	}
	o.elems[index] = val
}

func (e *Env) primitive(kind jnigo.Kind, arr jnigo.Jobject) *Object {
	o := e.array(arr)
	if o == nil {
		return nil
	}
	if o.kind != kind {
		e.vm.misused("%s array accessed as %s", o.kind, kind)
		return nil
	}
	return o
}

func (e *Env) GetArrayElements(kind jnigo.Kind, arr jnigo.Jobject) unsafe.Pointer {
	o := e.primitive(kind, arr)
	if o == nil {
		return nil
	}
	words := make([]uint64, max(len(o.words), 1))
	copy(words, o.words)
	p := unsafe.Pointer(&words[0])
	e.vm.mu.Lock()
	e.vm.pins[p] = &pin{obj: o, words: words}
	e.vm.mu.Unlock()
	return p
}

func (e *Env) ReleaseArrayElements(kind jnigo.Kind, arr jnigo.Jobject, elems unsafe.Pointer, mode jnigo.ReleaseMode) {
	e.vm.mu.Lock()
	pn, ok := e.vm.pins[elems]
	if ok && mode != jnigo.ReleaseCommitKeep {
		delete(e.vm.pins, elems)
	}
	e.vm.mu.Unlock()
	if !ok {
		e.vm.misused("release of unknown %s array elements", kind)
		return
	}
	if mode != jnigo.ReleaseAbort {
		copy(pn.obj.words, pn.words)
	}
}

func (e *Env) region(kind jnigo.Kind, arr jnigo.Jobject, start, length int32) ([]byte, bool) {
	o := e.primitive(kind, arr)
	if o == nil {
		return nil, false
	}
	if start < 0 || length < 0 || int(start)+int(length) > o.length {
		e.Throwing("java.lang.ArrayIndexOutOfBoundsException", "region")
		return nil, false
	}
	size := kind.Size()
	return o.bytes()[int(start)*size : int(start+length)*size], true
}

func (e *Env) GetArrayRegion(kind jnigo.Kind, arr jnigo.Jobject, start, length int32, buf unsafe.Pointer) {
	src, ok := e.region(kind, arr, start, length)
	if !ok || len(src) == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(buf), len(src)), src)
}

func (e *Env) SetArrayRegion(kind jnigo.Kind, arr jnigo.Jobject, start, length int32, buf unsafe.Pointer) {
	dst, ok := e.region(kind, arr, start, length)
	if !ok || len(dst) == 0 {
		return
	}
	copy(dst, unsafe.Slice((*byte)(buf), len(dst)))
}

func (e *Env) NewDirectByteBuffer(addr unsafe.Pointer, capacity int64) jnigo.Jobject {
	if capacity < 0 {
		e.Throwing("java.lang.IllegalArgumentException", "capacity")
		return 0
	}
	o := e.vm.newObject(e.vm.Class("java.nio.ByteBuffer"))
	o.direct, o.addr, o.capacity = true, addr, capacity
	return e.local(o)
}

func (e *Env) GetDirectBufferAddress(buf jnigo.Jobject) unsafe.Pointer {
	o := e.vm.resolve(buf)
	if o == nil || !o.direct {
		return nil
	}
	return o.addr
}

func (e *Env) GetDirectBufferCapacity(buf jnigo.Jobject) int64 {
	o := e.vm.resolve(buf)
	if o == nil || !o.direct {
		return -1
	}
	return o.capacity
}

func (e *Env) RegisterNatives(cls jnigo.Jobject, methods []jnigo.NativeMethod) int32 {
	c := e.classOf(cls)
	if c == nil {
		return jnigo.ErrCode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, nm := range methods {
		var target *Method
		for _, m := range c.methods {
			if m.native && m.name == nm.Name && m.sig == nm.Signature {
				target = m
				break
			}
		}
		if target == nil {
			e.Throwing("java.lang.NoSuchMethodError", nm.Name)
			return jnigo.ErrCode
		}
		bound := nm
		target.bound = &bound
	}
	return jnigo.OK
}

func (e *Env) UnregisterNatives(cls jnigo.Jobject) int32 {
	c := e.classOf(cls)
	if c == nil {
		return jnigo.ErrCode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.methods {
		m.bound = nil
	}
	return jnigo.OK
}
