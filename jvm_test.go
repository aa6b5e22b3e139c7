//go:build !ios && !android && (amd64 || arm64)

package jnigo_test

import (
	"errors"
	"reflect"
	"runtime"
	"testing"

	"github.com/obinnaokechukwu/jnigo"
	"github.com/obinnaokechukwu/jnigo/jnitest"
)

func nativeFuncOf(t *testing.T, env jnigo.Env, name string) reflect.Value {
	t.Helper()
	for _, m := range nativeMethods {
		if m.Name == name {
			return jnigo.NativeFunc(m, func(uintptr) jnigo.Env { return env })
		}
	}
	t.Fatalf("no native method %s", name)
	return reflect.Value{}
}

func TestNativeFuncSignature(t *testing.T) {
	env := attach(t)
	fn := nativeFuncOf(t, env, "echoDouble")
	ft := fn.Type()
	if ft.NumIn() != 3 || ft.In(0).Kind() != reflect.Uintptr || ft.In(1).Kind() != reflect.Uintptr {
		t.Fatalf("unexpected parameters: %v", ft)
	}
	if ft.In(2).Kind() != reflect.Float64 || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Float64 {
		t.Errorf("echoDouble has C type %v", ft)
	}
	if ft := nativeFuncOf(t, env, "fail").Type(); ft.NumIn() != 2 || ft.NumOut() != 0 {
		t.Errorf("fail has C type %v", ft)
	}
}

func TestNativeFuncCalls(t *testing.T) {
	env := attach(t)
	cls := loadNatives(t, env)
	this := reflect.ValueOf(uintptr(cls.Raw()))
	envArg := reflect.ValueOf(uintptr(0))

	out := nativeFuncOf(t, env, "echoInt").Call([]reflect.Value{envArg, this, reflect.ValueOf(int32(-7))})
	if got := out[0].Interface().(int32); got != -7 {
		t.Errorf("echoInt = %d", got)
	}
	out = nativeFuncOf(t, env, "echoFloat").Call([]reflect.Value{envArg, this, reflect.ValueOf(float32(2.5))})
	if got := out[0].Interface().(float32); got != 2.5 {
		t.Errorf("echoFloat = %v", got)
	}
	out = nativeFuncOf(t, env, "echoBoolean").Call([]reflect.Value{envArg, this, reflect.ValueOf(true)})
	if got := out[0].Interface().(bool); !got {
		t.Error("echoBoolean = false")
	}

	s, err := jnigo.NewString(env, "go")
	if err != nil {
		t.Fatalf("NewString failed: %v", err)
	}
	defer s.Release()
	out = nativeFuncOf(t, env, "echoString").Call([]reflect.Value{envArg, this, reflect.ValueOf(uintptr(s.Raw()))})
	res := jnigo.AttachLocal[jnigo.JString](env, jnigo.Jobject(out[0].Interface().(uintptr)))
	if v, _ := jnigo.GoString(env, res); v != "go" {
		t.Errorf("echoString = %q", v)
	}
	res.Release()

	nativeFuncOf(t, env, "fail").Call([]reflect.Value{envArg, this})
	if !env.ExceptionCheck() {
		t.Fatal("fail did not raise an exception")
	}
	env.ExceptionClear()
}

func TestFromNullPointers(t *testing.T) {
	if _, err := jnigo.FromJNIEnv(nil); err == nil {
		t.Error("FromJNIEnv(nil) succeeded")
	}
	if _, err := jnigo.FromJavaVM(nil); err == nil {
		t.Error("FromJavaVM(nil) succeeded")
	}
}

func TestLoadJVMMissing(t *testing.T) {
	err := jnigo.LoadJVM("/nonexistent/libjvm.so")
	if err == nil {
		t.Skip("libjvm was already loaded")
	}
	if errors.Is(err, jnigo.ErrLibraryNotFound) {
		return
	}
	t.Logf("LoadJVM = %v", err)
}

// classless is an env on which no class can be found.
type classless struct{ *jnitest.Env }

func (e classless) FindClass(string) jnigo.Jobject {
	return e.Env.FindClass("com/example/Missing")
}

func TestStartFailureDestroysVM(t *testing.T) {
	if err := jnigo.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	t.Cleanup(func() {
		if _, err := jnigo.Init(vm); err != nil {
			t.Errorf("Init failed: %v", err)
		}
	})

	fresh := jnitest.NewVM()
	runtime.LockOSThread()
	env, code := fresh.AttachCurrentThread()
	if code != jnigo.OK {
		runtime.UnlockOSThread()
		t.Fatalf("AttachCurrentThread = %d", code)
	}

	if err := jnigo.StartCreatedVM(fresh, classless{env.(*jnitest.Env)}); err == nil {
		t.Fatal("start succeeded without core classes")
	}
	if jnigo.Current() != nil {
		t.Error("provider left installed after a failed start")
	}
	if _, code := fresh.GetEnv(jnigo.Version1_8); code != jnigo.ErrCode {
		t.Errorf("VM still running after a failed start, GetEnv = %d", code)
	}
}
