package jnigo

import (
	"fmt"
	"io"
	"reflect"

	"go.uber.org/multierr"
)

// NativeRegistrar is implemented by class wrappers that bind native methods
// when their table is built.
type NativeRegistrar interface {
	RegisterNatives(env Env) error
}

// ClassInit constructs one class wrapper of a ClassTable.
type ClassInit func(env Env) (any, error)

// ClassEntry adapts a typed wrapper constructor to a ClassInit.
func ClassEntry[W any](newWrapper func(env Env) (W, error)) ClassInit {
	return func(env Env) (any, error) {
		return newWrapper(env)
	}
}

// ClassTable owns the class wrappers of an application: typically one struct
// per Java class holding its Class and member wrappers. Wrappers are built in
// order, then every wrapper implementing NativeRegistrar registers its
// natives. Close closes wrappers implementing io.Closer in reverse order.
type ClassTable struct {
	entries map[reflect.Type]any
	order   []any
}

// NewClassTable builds the wrappers. On failure the wrappers built so far
// are closed.
func NewClassTable(env Env, inits ...ClassInit) (*ClassTable, error) {
	t := &ClassTable{entries: make(map[reflect.Type]any, len(inits))}
	for _, build := range inits {
		w, err := build(env)
		if err != nil {
			return nil, multierr.Append(err, t.Close())
		}
		key := reflect.TypeOf(w)
		if _, dup := t.entries[key]; dup {
			err := fmt.Errorf("jnigo: class table already holds a %s", key)
			if c, ok := w.(io.Closer); ok {
				err = multierr.Append(err, c.Close())
			}
			return nil, multierr.Append(err, t.Close())
		}
		t.entries[key] = w
		t.order = append(t.order, w)
	}
	for _, w := range t.order {
		if r, ok := w.(NativeRegistrar); ok {
			if err := r.RegisterNatives(env); err != nil {
				return nil, multierr.Append(err, t.Close())
			}
		}
	}
	return t, nil
}

// Entry returns the wrapper of type W.
func Entry[W any](t *ClassTable) (W, bool) {
	w, ok := t.entries[reflect.TypeFor[W]()]
	if !ok {
		var zero W
		return zero, false
	}
	return w.(W), true
}

// Len returns the number of wrappers.
func (t *ClassTable) Len() int { return len(t.order) }

// Close closes every wrapper that implements io.Closer, last built first.
func (t *ClassTable) Close() error {
	var err error
	for i := len(t.order) - 1; i >= 0; i-- {
		if c, ok := t.order[i].(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	t.order = nil
	t.entries = map[reflect.Type]any{}
	return err
}
