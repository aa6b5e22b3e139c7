package jnigo

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	pthreadSelf     func() uintptr
	pthreadSelfOnce sync.Once
)

// ThreadID returns the id of the calling OS thread.
func ThreadID() uint64 {
	pthreadSelfOnce.Do(func() {
		lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			panic("jnigo: cannot load libSystem: " + err.Error())
		}
		purego.RegisterLibFunc(&pthreadSelf, lib, "pthread_self")
	})
	return uint64(pthreadSelf())
}
