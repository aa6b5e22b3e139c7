//go:build !linux && !windows && !darwin

package jnigo

// ThreadID returns 1 on platforms without a supported thread id source;
// every thread then shares one provider record.
func ThreadID() uint64 {
	return 1
}
