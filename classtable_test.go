package jnigo_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/obinnaokechukwu/jnigo"
)

type baseClass struct {
	cls      jnigo.Class[Base]
	getValue jnigo.Method[int32]
	closed   *[]string
}

func newBaseClass(closed *[]string) func(env jnigo.Env) (*baseClass, error) {
	return func(env jnigo.Env) (*baseClass, error) {
		cls, err := jnigo.LoadClass[Base](env)
		if err != nil {
			return nil, err
		}
		m, err := jnigo.LookupMethod[int32](env, cls, "getValue")
		if err != nil {
			cls.Close()
			return nil, err
		}
		return &baseClass{cls: cls, getValue: m, closed: closed}, nil
	}
}

func (c *baseClass) Close() error {
	*c.closed = append(*c.closed, "base")
	return c.cls.Close()
}

type nativesWrapper struct {
	cls    jnigo.Class[Natives]
	echo   jnigo.StaticMethod[int32]
	closed *[]string
}

func newNativesWrapper(closed *[]string) func(env jnigo.Env) (*nativesWrapper, error) {
	return func(env jnigo.Env) (*nativesWrapper, error) {
		cls, err := jnigo.LoadClass[Natives](env)
		if err != nil {
			return nil, err
		}
		m, err := jnigo.LookupStaticMethod[int32](env, cls, "echoInt", "I")
		if err != nil {
			cls.Close()
			return nil, err
		}
		return &nativesWrapper{cls: cls, echo: m, closed: closed}, nil
	}
}

func (c *nativesWrapper) RegisterNatives(env jnigo.Env) error {
	return c.cls.RegisterNatives(env, nativeMethods...)
}

func (c *nativesWrapper) Close() error {
	*c.closed = append(*c.closed, "natives")
	return c.cls.Close()
}

func TestClassTable(t *testing.T) {
	env := attach(t)
	classes := jnigo.CachedClasses()
	var closed []string

	table, err := jnigo.NewClassTable(env,
		jnigo.ClassEntry(newBaseClass(&closed)),
		jnigo.ClassEntry(newNativesWrapper(&closed)),
	)
	if err != nil {
		t.Fatalf("NewClassTable failed: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d", table.Len())
	}

	n, ok := jnigo.Entry[*nativesWrapper](table)
	if !ok {
		t.Fatal("natives wrapper missing")
	}
	if v, err := n.echo.Call(env, n.cls, jnigo.Int(7)); err != nil || v != 7 {
		t.Errorf("echoInt = %d, %v", v, err)
	}
	if _, ok := jnigo.Entry[*classTableMissing](table); ok {
		t.Error("Entry found a wrapper that was never added")
	}

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(closed) != 2 || closed[0] != "natives" || closed[1] != "base" {
		t.Errorf("close order = %v", closed)
	}
	if jnigo.CachedClasses() != classes {
		t.Error("class table leaked cached classes")
	}
}

type classTableMissing struct{}

func TestClassTableDuplicate(t *testing.T) {
	env := attach(t)
	var closed []string
	_, err := jnigo.NewClassTable(env,
		jnigo.ClassEntry(newBaseClass(&closed)),
		jnigo.ClassEntry(newBaseClass(&closed)),
	)
	if err == nil || !strings.Contains(err.Error(), "already holds") {
		t.Fatalf("NewClassTable = %v", err)
	}
	if len(closed) != 2 {
		t.Errorf("closed %v, want both wrappers closed", closed)
	}
}

func TestClassTableFailure(t *testing.T) {
	env := attach(t)
	classes := jnigo.CachedClasses()
	var closed []string
	boom := errors.New("boom")
	_, err := jnigo.NewClassTable(env,
		jnigo.ClassEntry(newBaseClass(&closed)),
		func(jnigo.Env) (any, error) { return nil, boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("NewClassTable = %v", err)
	}
	if len(closed) != 1 || closed[0] != "base" {
		t.Errorf("closed %v", closed)
	}
	if jnigo.CachedClasses() != classes {
		t.Error("failed table leaked cached classes")
	}
}
