//go:build !ios && !android && (amd64 || arm64)

package jnigo

// NativeFunc exposes the C-typed wrapper of a native method.
var NativeFunc = nativeFunc

// StartCreatedVM exposes the setup run on a freshly created VM.
var StartCreatedVM = start
