//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the JVM shared library and registering
// its exported invocation functions using purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/jnigo/internal/platform"
)

// ErrNotLoaded is returned when invocation functions are called before Load().
var ErrNotLoaded = errors.New("jnigo: JVM library not loaded")

// ErrLibraryNotFound is returned when libjvm cannot be found.
var ErrLibraryNotFound = errors.New("jnigo: JVM library not found")

// EnvLibJVM names the environment variable holding an explicit libjvm path.
const EnvLibJVM = "JNIGO_LIBJVM"

var (
	libJVM  uintptr
	libPath string

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Invocation API bindings
var (
	jniCreateJavaVM             func(pvm *uintptr, penv *uintptr, args unsafe.Pointer) int32
	jniGetCreatedJavaVMs        func(vms *uintptr, n int32, count *int32) int32
	jniGetDefaultJavaVMInitArgs func(args unsafe.Pointer) int32
)

// IsLoaded returns true if libjvm has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads libjvm and registers the invocation functions. An empty path
// searches JNIGO_LIBJVM, JAVA_HOME and the platform library paths.
// It is safe to call multiple times; subsequent calls are no-ops and the
// path of later calls is ignored.
func Load(path string) error {
	loadOnce.Do(func() {
		loadErr = doLoad(path)
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad(path string) error {
	var err error
	if path == "" {
		path = os.Getenv(EnvLibJVM)
	}
	if path != "" {
		libJVM, err = tryOpen(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		libPath = path
	} else {
		libJVM, libPath, err = loadLibrary("jvm")
		if err != nil {
			return fmt.Errorf("loading libjvm: %w", err)
		}
	}

	purego.RegisterLibFunc(&jniCreateJavaVM, libJVM, "JNI_CreateJavaVM")
	purego.RegisterLibFunc(&jniGetCreatedJavaVMs, libJVM, "JNI_GetCreatedJavaVMs")
	purego.RegisterLibFunc(&jniGetDefaultJavaVMInitArgs, libJVM, "JNI_GetDefaultJavaVMInitArgs")
	return nil
}

// loadLibrary attempts to load a library from the search paths, then by
// bare name.
func loadLibrary(name string) (uintptr, string, error) {
	libName := platform.FormatLibraryName(name)
	for _, searchPath := range LibrarySearchPaths() {
		fullPath := filepath.Join(searchPath, libName)
		if _, err := os.Stat(fullPath); err != nil {
			continue
		}
		if lib, err := tryOpen(fullPath); err == nil {
			return lib, fullPath, nil
		}
	}

	// Let the system find it
	if lib, err := tryOpen(libName); err == nil {
		return lib, libName, nil
	}
	return 0, "", fmt.Errorf("%w: %s", ErrLibraryNotFound, libName)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for libjvm and returns its full path.
// This is useful for diagnostics.
func FindLibrary() (string, error) {
	if p := os.Getenv(EnvLibJVM); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	libName := platform.FormatLibraryName("jvm")
	for _, searchPath := range LibrarySearchPaths() {
		fullPath := filepath.Join(searchPath, libName)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, libName)
}

// LibrarySearchPaths returns the directories searched for libjvm: those of
// JAVA_HOME first, then the platform library paths.
func LibrarySearchPaths() []string {
	var paths []string
	if home := os.Getenv("JAVA_HOME"); home != "" {
		paths = append(paths, platform.JVMDirs(home)...)
	}

	switch runtime.GOOS {
	case "linux":
		// Check LD_LIBRARY_PATH first
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		// Distribution JDKs
		for _, home := range []string{
			"/usr/lib/jvm/default-java",
			"/usr/lib/jvm/java-21-openjdk-amd64",
			"/usr/lib/jvm/java-21-openjdk-arm64",
			"/usr/lib/jvm/java-17-openjdk-amd64",
			"/usr/lib/jvm/java-17-openjdk-arm64",
			"/usr/lib/jvm/jre",
		} {
			paths = append(paths, platform.JVMDirs(home)...)
		}
		paths = append(paths, "/usr/local/lib", "/usr/lib")

	case "darwin":
		// Check DYLD_LIBRARY_PATH first
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		// Homebrew and installer JDKs
		for _, home := range []string{
			"/opt/homebrew/opt/openjdk/libexec/openjdk.jdk/Contents/Home", // Apple Silicon
			"/usr/local/opt/openjdk/libexec/openjdk.jdk/Contents/Home",    // Intel
			"/Library/Java/JavaVirtualMachines/Current/Contents/Home",
		} {
			paths = append(paths, platform.JVMDirs(home)...)
		}

	case "windows":
		// Check PATH
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		// Executable directory
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths, platform.JVMDirs("/usr/local/openjdk17")...)
	}

	return paths
}

// LibJVM returns the libjvm library handle.
func LibJVM() uintptr {
	return libJVM
}

// LibraryPath returns the path libjvm was loaded from.
func LibraryPath() string {
	return libPath
}

// CreateJavaVM calls JNI_CreateJavaVM with a JavaVMInitArgs structure.
func CreateJavaVM(args unsafe.Pointer) (vm, env uintptr, code int32, err error) {
	if !loaded {
		return 0, 0, 0, ErrNotLoaded
	}
	code = jniCreateJavaVM(&vm, &env, args)
	return vm, env, code, nil
}

// CreatedJavaVMs returns the VMs created in this process. At most one VM
// can exist per process.
func CreatedJavaVMs() ([]uintptr, int32, error) {
	if !loaded {
		return nil, 0, ErrNotLoaded
	}
	vms := make([]uintptr, 1)
	var n int32
	code := jniGetCreatedJavaVMs(&vms[0], int32(len(vms)), &n)
	return vms[:n], code, nil
}

// DefaultInitArgs fills a JavaVMInitArgs whose version field is set with the
// VM's defaults.
func DefaultInitArgs(args unsafe.Pointer) (int32, error) {
	if !loaded {
		return 0, ErrNotLoaded
	}
	return jniGetDefaultJavaVMInitArgs(args), nil
}
