// Package handles maps opaque uintptr handles to Go values.
//
// JNI hands out references, method ids and field ids as pointer-sized
// opaque values. A Table issues such values for Go objects, so that code
// emulating or bridging the JNI function tables can store them where a C
// pointer is expected and resolve them back later.
package handles

import (
	"sync"
)

// Table issues handles for values of type V. Handles are never reused and
// never zero, so a zero handle can keep its usual meaning of null.
//
// A Table is safe for concurrent use.
type Table[V any] struct {
	mu     sync.RWMutex
	values map[uintptr]V
	nextID uintptr
	stride uintptr
}

// New returns an empty table whose handles start at first and grow by
// stride. Distinct first values and a common stride keep the handles of
// several tables disjoint.
func New[V any](first, stride uintptr) *Table[V] {
	if stride == 0 {
		stride = 1
	}
	if first == 0 {
		first = stride
	}
	return &Table[V]{values: make(map[uintptr]V), nextID: first, stride: stride}
}

// Register stores v and returns its handle.
func (t *Table[V]) Register(v V) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID += t.stride
	t.values[id] = v
	return id
}

// Lookup returns the value registered under id.
func (t *Table[V]) Lookup(id uintptr) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Unregister removes id and returns the value it held.
func (t *Table[V]) Unregister(id uintptr) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[id]
	delete(t.values, id)
	return v, ok
}

// Count returns the number of registered handles.
func (t *Table[V]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}

// Range calls fn for every registered handle until fn returns false. fn must
// not modify the table.
func (t *Table[V]) Range(fn func(id uintptr, v V) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for id, v := range t.values {
		if !fn(id, v) {
			return
		}
	}
}
