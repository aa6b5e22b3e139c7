//go:build !ios && !android && (amd64 || arm64)

// Package platform describes where a JVM keeps its shared library on the
// current operating system.
package platform

import (
	"path/filepath"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// jnigo only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
//
// Examples:
//   - Linux:   FormatLibraryName("jvm") -> "libjvm.so"
//   - macOS:   FormatLibraryName("jvm") -> "libjvm.dylib"
//   - Windows: FormatLibraryName("jvm") -> "jvm.dll"
func FormatLibraryName(name string) string {
	return LibraryPrefix + name + LibraryExtension
}

// JVMDirs returns the directories below a Java home that may hold the JVM
// library, newest layout first. Java 8 keeps it under jre/, later releases
// directly under lib/ (bin/ on Windows).
func JVMDirs(javaHome string) []string {
	var rel []string
	switch runtime.GOOS {
	case "windows":
		rel = []string{`bin\server`, `bin\client`, `jre\bin\server`, `jre\bin\client`}
	case "darwin":
		rel = []string{"lib/server", "jre/lib/server", "lib/jli"}
	default:
		arch := archDir()
		rel = []string{
			"lib/server",
			"lib/client",
			"jre/lib/" + arch + "/server",
			"jre/lib/" + arch + "/client",
			"lib/" + arch + "/server",
		}
	}
	dirs := make([]string, len(rel))
	for i, r := range rel {
		dirs[i] = filepath.Join(javaHome, r)
	}
	return dirs
}

// archDir is the architecture directory name used by Java 8 on Linux.
func archDir() string {
	if runtime.GOARCH == "arm64" {
		return "aarch64"
	}
	return runtime.GOARCH
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
