package jnigo_test

import (
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/obinnaokechukwu/jnigo"
)

// baseAlias resolves to the same Java class as Base but has its own cache entry.
type baseAlias struct{}

func (baseAlias) ClassName() string { return "com.example.Base" }

func TestClassCacheSharesAndEvicts(t *testing.T) {
	env := attach(t)
	cached := jnigo.CachedClasses()
	globals := vm.LiveRefs(jnigo.RefTypeGlobal)

	c1, err := jnigo.LoadClass[baseAlias](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	c2, err := jnigo.LoadClass[baseAlias](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	if c1.Raw() != c2.Raw() {
		t.Error("LoadClass did not share the cached class")
	}
	if jnigo.CachedClasses() != cached+1 || vm.LiveRefs(jnigo.RefTypeGlobal) != globals+1 {
		t.Error("class cached more than once")
	}

	c3 := c1.Retain()
	c1.Close()
	c2.Close()
	if c3.Raw() == 0 || jnigo.CachedClasses() != cached+1 {
		t.Error("class evicted while a handle is open")
	}
	c3.Close()
	if jnigo.CachedClasses() != cached || vm.LiveRefs(jnigo.RefTypeGlobal) != globals {
		t.Error("closing the last handle did not evict the class")
	}
	if !c1.IsNil() || c1.Raw() != 0 {
		t.Error("closed class still holds a reference")
	}
	if err := c1.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	c4, err := jnigo.LoadClass[baseAlias](env)
	if err != nil {
		t.Fatalf("LoadClass after eviction failed: %v", err)
	}
	c4.Close()
}

func TestLoadClassWith(t *testing.T) {
	env := attach(t)
	calls := 0
	loader := func(env jnigo.Env) (jnigo.Ref[jnigo.JClass, jnigo.Local], error) {
		calls++
		return jnigo.GetClass[Derived](env)
	}
	type custom struct{ baseAlias }
	c1, err := jnigo.LoadClassWith[custom](env, loader)
	if err != nil {
		t.Fatalf("LoadClassWith failed: %v", err)
	}
	defer c1.Close()
	c2, _ := jnigo.LoadClassWith[custom](env, loader)
	defer c2.Close()
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	failing := errors.New("no loader")
	type other struct{ baseAlias }
	_, err = jnigo.LoadClassWith[other](env, func(jnigo.Env) (jnigo.Ref[jnigo.JClass, jnigo.Local], error) {
		return jnigo.Ref[jnigo.JClass, jnigo.Local]{}, failing
	})
	if !errors.Is(err, failing) {
		t.Errorf("LoadClassWith = %v", err)
	}
}

func TestLoaderLoadsAnotherClass(t *testing.T) {
	env := attach(t)
	type outer struct{ baseAlias }
	type inner struct{ baseAlias }

	done := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		env, err := jnigo.Current().Env()
		if err != nil {
			done <- err
			return
		}
		defer jnigo.Current().Detach()
		c, err := jnigo.LoadClassWith[outer](env, func(env jnigo.Env) (jnigo.Ref[jnigo.JClass, jnigo.Local], error) {
			dep, err := jnigo.LoadClass[inner](env)
			if err != nil {
				return jnigo.Ref[jnigo.JClass, jnigo.Local]{}, err
			}
			defer dep.Close()
			return jnigo.GetClass[Derived](env)
		})
		if err == nil {
			c.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("LoadClassWith failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("LoadClassWith blocked while its loader loaded another class")
	}

	c, err := jnigo.LoadClass[inner](env)
	if err != nil {
		t.Fatalf("LoadClass failed after nested load: %v", err)
	}
	c.Close()
}

func TestGetClassMissing(t *testing.T) {
	env := attach(t)
	_, err := jnigo.GetClass[Missing](env)
	if !jnigo.IsJavaException(err) {
		t.Fatalf("GetClass = %v, want a java exception", err)
	}
	if !strings.Contains(err.Error(), "NoClassDefFoundError") {
		t.Errorf("error = %q", err)
	}
	if c := jnigo.FindClass[Missing](env); !c.IsNil() {
		t.Error("FindClass found a missing class")
	}
	if env.ExceptionCheck() {
		t.Error("FindClass left the exception pending")
	}
	c := jnigo.FindClass[Base](env)
	if c.IsNil() {
		t.Fatal("FindClass did not find Base")
	}
	c.Release()
}

func TestArrayClassByDescriptor(t *testing.T) {
	env := attach(t)
	c, err := jnigo.GetClass[jnigo.JObjectArray[jnigo.JString]](env)
	if err != nil {
		t.Fatalf("GetClass failed: %v", err)
	}
	defer c.Release()
	arr, err := jnigo.NewStringArray(env, []string{"a"})
	if err != nil {
		t.Fatalf("NewStringArray failed: %v", err)
	}
	defer arr.Release()
	if !env.IsInstanceOf(arr.Raw(), c.Raw()) {
		t.Error("String[] is not an instance of its class")
	}
}

func newDerived(t *testing.T, env jnigo.Env, value int32) (jnigo.Class[Derived], jnigo.Ref[Derived, jnigo.Local]) {
	t.Helper()
	cls, err := jnigo.LoadClass[Derived](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	ctor, err := jnigo.LookupConstructor[Derived](env, cls, "I")
	if err != nil {
		t.Fatalf("LookupConstructor failed: %v", err)
	}
	obj, err := ctor.New(env, cls, jnigo.Int(value))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return cls, obj
}

func TestInstanceMembers(t *testing.T) {
	env := attach(t)
	cls, obj := newDerived(t, env, 42)
	defer cls.Close()
	defer obj.Release()

	get, err := jnigo.LookupMethod[int32](env, cls, "getValue")
	if err != nil {
		t.Fatalf("LookupMethod failed: %v", err)
	}
	set, err := jnigo.LookupVoidMethod(env, cls, "setValue", "I")
	if err != nil {
		t.Fatalf("LookupVoidMethod failed: %v", err)
	}
	if v, err := get.Call(env, obj); err != nil || v != 42 {
		t.Errorf("getValue = %d, %v; want 42", v, err)
	}
	if err := set.Call(env, obj, jnigo.Int(7)); err != nil {
		t.Fatalf("setValue failed: %v", err)
	}

	value, err := jnigo.LookupField[int32](env, cls, "value")
	if err != nil {
		t.Fatalf("LookupField failed: %v", err)
	}
	if v, _ := value.Get(env, obj); v != 7 {
		t.Errorf("value = %d, want 7", v)
	}
	if err := value.Set(env, obj, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, err := get.Call(env, obj); err != nil || v != 0 {
		t.Errorf("getValue = %d, %v; want 0", v, err)
	}
}

func TestVirtualAndNonvirtualCalls(t *testing.T) {
	env := attach(t)
	cls, obj := newDerived(t, env, 1)
	defer cls.Close()
	defer obj.Release()
	base, err := jnigo.LoadClass[Base](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	defer base.Close()

	m, err := jnigo.LookupMethod[int32](env, base, "instanceMethod", "I")
	if err != nil {
		t.Fatalf("LookupMethod failed: %v", err)
	}
	if v, _ := m.Call(env, obj, jnigo.Int(3)); v != 5 {
		t.Errorf("virtual instanceMethod(3) = %d, want 5", v)
	}
	if v, _ := m.CallNonvirtual(env, obj, base, jnigo.Int(3)); v != 4 {
		t.Errorf("nonvirtual instanceMethod(3) = %d, want 4", v)
	}
	if m.ID() == 0 {
		t.Error("method id is zero")
	}
}

func TestStaticMembers(t *testing.T) {
	env := attach(t)
	cls, err := jnigo.LoadClass[Base](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	defer cls.Close()

	m, err := jnigo.LookupStaticMethod[int32](env, cls, "staticMethod", "I")
	if err != nil {
		t.Fatalf("LookupStaticMethod failed: %v", err)
	}
	if v, err := m.Call(env, cls, jnigo.Int(74)); err != nil || v != 74 {
		t.Errorf("staticMethod(74) = %d, %v", v, err)
	}
	reset, err := jnigo.LookupStaticVoidMethod(env, cls, "reset")
	if err != nil {
		t.Fatalf("LookupStaticVoidMethod failed: %v", err)
	}
	if err := reset.Call(env, cls); err != nil {
		t.Errorf("reset failed: %v", err)
	}

	f, err := jnigo.LookupStaticField[int32](env, cls, "staticValue")
	if err != nil {
		t.Fatalf("LookupStaticField failed: %v", err)
	}
	defer f.Close()
	if v, _ := f.Get(env); v != 15 {
		t.Errorf("staticValue = %d, want 15", v)
	}
	if err := f.Set(env, 16); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _ := f.Get(env); v != 16 {
		t.Errorf("staticValue = %d, want 16", v)
	}
	f.Set(env, 15)
}

func TestStaticFieldKeepsClass(t *testing.T) {
	env := attach(t)
	cached := jnigo.CachedClasses()
	cls, err := jnigo.LoadClass[baseAlias](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	f, err := jnigo.LookupStaticField[int32](env, cls, "staticValue")
	if err != nil {
		t.Fatalf("LookupStaticField failed: %v", err)
	}
	cls.Close()
	if v, err := f.Get(env); err != nil || v != 15 {
		t.Errorf("staticValue after closing the class = %d, %v", v, err)
	}
	f.Close()
	if jnigo.CachedClasses() != cached {
		t.Error("static field did not release its class")
	}
}

func TestObjectMembers(t *testing.T) {
	env := attach(t)
	cls, obj := newDerived(t, env, 1)
	defer cls.Close()
	defer obj.Release()

	name, err := jnigo.LookupObjectField[jnigo.JString](env, cls, "name")
	if err != nil {
		t.Fatalf("LookupObjectField failed: %v", err)
	}
	empty, err := name.Get(env, obj)
	if err != nil || !empty.IsNil() {
		t.Errorf("unset field = %v, %v", empty.Raw(), err)
	}

	s, _ := jnigo.NewString(env, "derived")
	defer s.Release()
	if err := name.Set(env, obj, s); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	describe, err := jnigo.LookupObjectMethod[jnigo.JString](env, cls, "describe")
	if err != nil {
		t.Fatalf("LookupObjectMethod failed: %v", err)
	}
	got, err := describe.Call(env, obj)
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	defer got.Release()
	if v, _ := jnigo.GoString(env, got); v != "derived" {
		t.Errorf("describe = %q", v)
	}

	if err := name.Set(env, obj, nil); err != nil {
		t.Fatalf("Set(nil) failed: %v", err)
	}
	cleared, err := name.Get(env, obj)
	if err != nil || !cleared.IsNil() {
		t.Errorf("field after Set(nil) = %v, %v", cleared.Raw(), err)
	}

	str, err := jnigo.ToString(env, obj)
	if err != nil {
		t.Fatalf("ToString failed: %v", err)
	}
	if !strings.HasPrefix(str, "com.example.Derived@") {
		t.Errorf("toString = %q", str)
	}
}

func TestCallRaisingException(t *testing.T) {
	env := attach(t)
	cls, err := jnigo.LoadClass[Base](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	defer cls.Close()
	m, err := jnigo.LookupStaticMethod[int32](env, cls, "explode")
	if err != nil {
		t.Fatalf("LookupStaticMethod failed: %v", err)
	}
	_, err = m.Call(env, cls)
	if !jnigo.IsJavaException(err) || !strings.Contains(err.Error(), "IllegalStateException: exploded") {
		t.Errorf("explode = %v", err)
	}
}

func TestLookupFailures(t *testing.T) {
	env := attach(t)
	cls, err := jnigo.LoadClass[Base](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	defer cls.Close()

	tests := []struct {
		name string
		do   func() error
		want string
	}{
		{"method", func() error {
			_, err := jnigo.LookupMethod[int32](env, cls, "missing", "J")
			return err
		}, "Unable to get method missing with signature (J)I"},
		{"static method", func() error {
			_, err := jnigo.LookupStaticObjectMethod[jnigo.JString](env, cls, "missing")
			return err
		}, "Unable to get static method missing with signature ()Ljava/lang/String;"},
		{"wrong signature", func() error {
			_, err := jnigo.LookupMethod[int64](env, cls, "getValue")
			return err
		}, "Unable to get method getValue with signature ()J"},
		{"field", func() error {
			_, err := jnigo.LookupField[bool](env, cls, "missing")
			return err
		}, "Unable to get field missing with signature Z"},
		{"static field", func() error {
			_, err := jnigo.LookupStaticObjectField[jnigo.JString](env, cls, "missing")
			return err
		}, "Unable to get static field missing with signature Ljava/lang/String;"},
		{"constructor", func() error {
			_, err := jnigo.LookupConstructor[Base](env, cls, "J")
			return err
		}, "Unable to get method <init> with signature (J)V"},
	}
	for _, tt := range tests {
		err := tt.do()
		if !jnigo.IsProblem(err) {
			t.Errorf("%s: lookup = %v, want a Problem", tt.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %q, want %q", tt.name, err, tt.want)
		}
		if !strings.Contains(err.Error(), "member_test.go:") {
			t.Errorf("%s: error %q does not name the caller", tt.name, err)
		}
		if !jnigo.IsJavaException(err) {
			t.Errorf("%s: lookup error does not carry the pending error", tt.name)
		}
		if env.ExceptionCheck() {
			t.Errorf("%s: exception left pending", tt.name)
		}
	}
}
