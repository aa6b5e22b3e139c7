package jnigo_test

import (
	"errors"
	"testing"

	"github.com/obinnaokechukwu/jnigo"
)

func readInts(t *testing.T, env jnigo.Env, arr jnigo.Ref[jnigo.JIntArray, jnigo.Local]) []int32 {
	t.Helper()
	n, err := jnigo.ArrayLength(env, arr)
	if err != nil {
		t.Fatalf("ArrayLength failed: %v", err)
	}
	out := make([]int32, n)
	if err := jnigo.GetArrayRegion(env, arr, 0, out); err != nil {
		t.Fatalf("GetArrayRegion failed: %v", err)
	}
	return out
}

func TestArrayAccessCommitAndAbort(t *testing.T) {
	env := attach(t)
	arr, err := jnigo.NewArrayFrom(env, []int32{545, 212})
	if err != nil {
		t.Fatalf("NewArrayFrom failed: %v", err)
	}
	defer arr.Release()

	a, err := jnigo.AccessArray(env, arr)
	if err != nil {
		t.Fatalf("AccessArray failed: %v", err)
	}
	if a.Len() != 2 || a.Data()[0] != 545 || a.Data()[1] != 212 {
		t.Fatalf("elements = %v", a.Data())
	}
	a.Data()[0] = 1
	a.Release()
	if got := readInts(t, env, arr); got[0] != 545 {
		t.Errorf("aborted change was written back: %v", got)
	}
	if a.Data() != nil {
		t.Error("Data is not nil after Release")
	}

	a, err = jnigo.AccessArray(env, arr)
	if err != nil {
		t.Fatalf("AccessArray failed: %v", err)
	}
	a.Data()[0] = 2
	a.Commit(false)
	if got := readInts(t, env, arr); got[0] != 2 {
		t.Errorf("Commit(false) did not write back: %v", got)
	}
	a.Data()[1] = 3
	a.Commit(true)
	if got := readInts(t, env, arr); got[0] != 2 || got[1] != 3 {
		t.Errorf("Commit(true) did not write back: %v", got)
	}
	if a.Data() != nil || a.Len() != 0 {
		t.Error("access still usable after Commit(true)")
	}
	a.Release()
	if vm.Pinned() != 0 {
		t.Errorf("pinned = %d after commit", vm.Pinned())
	}
}

func TestArrayAt(t *testing.T) {
	env := attach(t)
	arr, err := jnigo.NewArrayFrom(env, []float64{0.25, 0.26})
	if err != nil {
		t.Fatalf("NewArrayFrom failed: %v", err)
	}
	defer arr.Release()
	a, err := jnigo.AccessArray(env, arr)
	if err != nil {
		t.Fatalf("AccessArray failed: %v", err)
	}
	defer a.Release()
	if v, err := a.At(1); err != nil || v != 0.26 {
		t.Errorf("At(1) = %v, %v", v, err)
	}
	if _, err := a.At(2); !errors.Is(err, jnigo.ErrIndexOutOfRange) {
		t.Errorf("At(2) = %v", err)
	}
}

func TestNullArray(t *testing.T) {
	env := attach(t)
	var null jnigo.Ref[jnigo.JBooleanArray, jnigo.Auto]
	if n, err := jnigo.ArrayLength(env, null); n != 0 || err != nil {
		t.Errorf("ArrayLength(null) = %d, %v", n, err)
	}
	a, err := jnigo.AccessArray(env, null)
	if err != nil {
		t.Fatalf("AccessArray(null) failed: %v", err)
	}
	if a.Len() != 0 || a.Data() != nil {
		t.Error("access to null array is not empty")
	}
	a.Commit(true)
	a.Release()
}

func TestArrayRegions(t *testing.T) {
	env := attach(t)
	arr, err := jnigo.NewArray[int16](env, 4)
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}
	defer arr.Release()
	if err := jnigo.SetArrayRegion(env, arr, 1, []int16{9, 10}); err != nil {
		t.Fatalf("SetArrayRegion failed: %v", err)
	}
	got := make([]int16, 4)
	if err := jnigo.GetArrayRegion(env, arr, 0, got); err != nil {
		t.Fatalf("GetArrayRegion failed: %v", err)
	}
	if got[0] != 0 || got[1] != 9 || got[2] != 10 || got[3] != 0 {
		t.Errorf("array = %v", got)
	}
	err = jnigo.SetArrayRegion(env, arr, 3, []int16{1, 2})
	if !jnigo.IsJavaException(err) {
		t.Errorf("out of range region = %v", err)
	}
	if err := jnigo.GetArrayRegion(env, arr, 0, nil); err != nil {
		t.Errorf("empty region failed: %v", err)
	}
}

func TestNegativeArraySize(t *testing.T) {
	env := attach(t)
	_, err := jnigo.NewArray[bool](env, -1)
	if !jnigo.IsJavaException(err) {
		t.Errorf("NewArray(-1) = %v", err)
	}
}

func TestStringArray(t *testing.T) {
	env := attach(t)
	arr, err := jnigo.NewStringArray(env, []string{"abc", "xyz"})
	if err != nil {
		t.Fatalf("NewStringArray failed: %v", err)
	}
	defer arr.Release()

	got, err := jnigo.GoStrings(env, arr)
	if err != nil {
		t.Fatalf("GoStrings failed: %v", err)
	}
	if len(got) != 2 || got[0] != "abc" || got[1] != "xyz" {
		t.Errorf("GoStrings = %q", got)
	}

	a, err := jnigo.AccessObjectArray(env, arr)
	if err != nil {
		t.Fatalf("AccessObjectArray failed: %v", err)
	}
	s, _ := jnigo.NewString(env, "new")
	if err := a.Elem(1).Store(s); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	s.Release()
	e, err := a.Elem(1).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := jnigo.GoString(env, e); v != "new" {
		t.Errorf("element 1 = %q", v)
	}
	e.Release()

	if err := a.Set(0, nil); err != nil {
		t.Fatalf("Set(nil) failed: %v", err)
	}
	got, _ = jnigo.GoStrings(env, arr)
	if got[0] != "" {
		t.Errorf("null element = %q", got[0])
	}

	if _, err := a.At(2); !errors.Is(err, jnigo.ErrIndexOutOfRange) {
		t.Errorf("At(2) = %v", err)
	}
	if _, err := a.Get(5); !jnigo.IsJavaException(err) {
		t.Errorf("Get(5) = %v", err)
	}
}

func TestObjectArrayIteration(t *testing.T) {
	env := attach(t)
	arr, err := jnigo.NewStringArray(env, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewStringArray failed: %v", err)
	}
	defer arr.Release()
	a, err := jnigo.AccessObjectArray(env, arr)
	if err != nil {
		t.Fatalf("AccessObjectArray failed: %v", err)
	}

	locals := env.LocalCount()
	var seen []string
	for s, err := range a.All() {
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		v, _ := jnigo.GoString(env, s)
		seen = append(seen, v)
		if v == "b" {
			break
		}
	}
	if len(seen) != 2 || seen[1] != "b" {
		t.Errorf("iterated %q", seen)
	}
	if env.LocalCount() != locals {
		t.Error("iteration leaked local references")
	}
}

func TestObjectArrayStoreCheck(t *testing.T) {
	env := attach(t)
	arr, err := jnigo.NewStringArray(env, []string{"a"})
	if err != nil {
		t.Fatalf("NewStringArray failed: %v", err)
	}
	defer arr.Release()
	a, _ := jnigo.AccessObjectArray(env, arr)

	ints, _ := jnigo.NewArray[int32](env, 1)
	defer ints.Release()
	if err := a.Set(0, ints); !jnigo.IsJavaException(err) {
		t.Errorf("storing int[] in String[] = %v", err)
	}
}

func TestObjectArrayOfObjects(t *testing.T) {
	env := attach(t)
	cls, err := jnigo.LoadClass[Base](env)
	if err != nil {
		t.Fatalf("LoadClass failed: %v", err)
	}
	defer cls.Close()
	dcls, d := newDerived(t, env, 9)
	defer dcls.Close()
	defer d.Release()

	arr, err := jnigo.NewObjectArray[Base](env, 3, cls, d)
	if err != nil {
		t.Fatalf("NewObjectArray failed: %v", err)
	}
	defer arr.Release()
	a, _ := jnigo.AccessObjectArray(env, arr)
	if a.Len() != 3 {
		t.Fatalf("Len = %d", a.Len())
	}
	for i := 0; i < a.Len(); i++ {
		e, err := a.At(i)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", i, err)
		}
		if !env.IsSameObject(e.Raw(), d.Raw()) {
			t.Errorf("element %d is not the initial value", i)
		}
		e.Release()
	}
}
