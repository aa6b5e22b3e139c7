package handles

import (
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type testData struct {
		Name  string
		Value int
	}

	tab := New[*testData](1, 1)
	data := &testData{Name: "test", Value: 42}
	handle := tab.Register(data)

	if handle == 0 {
		t.Error("Register should return non-zero handle")
	}

	got, ok := tab.Lookup(handle)
	if !ok {
		t.Fatal("Lookup should find the registered value")
	}
	if got.Name != "test" || got.Value != 42 {
		t.Errorf("Lookup returned wrong data: %+v", got)
	}
}

func TestUnregister(t *testing.T) {
	tab := New[string](1, 1)
	handle := tab.Register("test string")

	if _, ok := tab.Lookup(handle); !ok {
		t.Error("Expected value before Unregister")
	}

	if v, ok := tab.Unregister(handle); !ok || v != "test string" {
		t.Errorf("Unregister = %q, %v", v, ok)
	}

	if _, ok := tab.Lookup(handle); ok {
		t.Error("Expected no value after Unregister")
	}
	if _, ok := tab.Unregister(handle); ok {
		t.Error("second Unregister should report a missing handle")
	}
}

func TestLookupNonExistent(t *testing.T) {
	tab := New[int](1, 1)
	if _, ok := tab.Lookup(999999); ok {
		t.Error("Lookup of non-existent handle should fail")
	}
}

func TestStrideKeepsTablesDisjoint(t *testing.T) {
	a := New[int](1, 4)
	b := New[int](2, 4)
	seen := make(map[uintptr]bool)
	for i := 0; i < 100; i++ {
		for _, h := range []uintptr{a.Register(i), b.Register(i)} {
			if seen[h] {
				t.Fatalf("handle %d issued twice", h)
			}
			seen[h] = true
		}
	}
}

func TestZeroFirstIsNeverIssued(t *testing.T) {
	tab := New[int](0, 8)
	if h := tab.Register(1); h == 0 {
		t.Error("handle 0 must never be issued")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	tab := New[*struct{ ID, Seq int }](1, 1)
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				handle := tab.Register(&struct{ ID, Seq int }{id, j})
				if _, ok := tab.Lookup(handle); !ok {
					t.Errorf("Lookup failed for handle %d", handle)
				}
				tab.Unregister(handle)
			}
		}(i)
	}

	wg.Wait()
	if n := tab.Count(); n != 0 {
		t.Errorf("Count = %d after unregistering everything", n)
	}
}

func TestHandlesAreUnique(t *testing.T) {
	tab := New[int](1, 1)
	handles := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		h := tab.Register(i)
		if handles[h] {
			t.Errorf("Handle %d was returned twice", h)
		}
		handles[h] = true
	}

	n := 0
	tab.Range(func(uintptr, int) bool { n++; return true })
	if n != 1000 {
		t.Errorf("Range visited %d handles, want 1000", n)
	}
}
