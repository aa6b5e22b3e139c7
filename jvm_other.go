//go:build ios || android || !(amd64 || arm64)

package jnigo

import "unsafe"

// VMOptions configures CreateJavaVM.
type VMOptions struct {
	LibraryPath        string
	Options            []string
	Version            int32
	IgnoreUnrecognized bool
}

// LoadJVM is not supported on this platform.
func LoadJVM(path string) error { return ErrUnsupported }

// CreateJavaVM is not supported on this platform.
func CreateJavaVM(opts VMOptions) (VM, Env, error) { return nil, nil, ErrUnsupported }

// CreatedJavaVM is not supported on this platform.
func CreatedJavaVM() (VM, error) { return nil, ErrUnsupported }

// DestroyJavaVM is not supported on this platform.
func DestroyJavaVM(vm VM) error { return ErrUnsupported }

// FromJNIEnv is not supported on this platform.
func FromJNIEnv(p unsafe.Pointer) (Env, error) { return nil, ErrUnsupported }

// FromJavaVM is not supported on this platform.
func FromJavaVM(p unsafe.Pointer) (VM, error) { return nil, ErrUnsupported }
