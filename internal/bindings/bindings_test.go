//go:build !ios && !android && (amd64 || arm64)

package bindings

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLibrarySearchPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JAVA_HOME", home)
	paths := LibrarySearchPaths()
	if len(paths) == 0 {
		t.Fatal("LibrarySearchPaths should return at least one path")
	}
	if filepath.Dir(filepath.Dir(paths[0])) != home && filepath.Dir(paths[0]) != home {
		t.Errorf("JAVA_HOME is not searched first: %s", paths[0])
	}
}

func TestFindLibraryMissing(t *testing.T) {
	t.Setenv(EnvLibJVM, filepath.Join(t.TempDir(), "missing"))
	t.Setenv("JAVA_HOME", t.TempDir())
	t.Setenv("LD_LIBRARY_PATH", "")
	t.Setenv("DYLD_LIBRARY_PATH", "")
	path, err := FindLibrary()
	if err == nil {
		// A system JDK is installed.
		t.Logf("libjvm found at %s", path)
		return
	}
	if !errors.Is(err, ErrLibraryNotFound) {
		t.Errorf("FindLibrary = %v, want ErrLibraryNotFound", err)
	}
}

func TestErrNotLoaded(t *testing.T) {
	// Before loading, IsLoaded should be false
	if IsLoaded() {
		t.Error("IsLoaded should be false before Load is called")
	}
	if _, _, _, err := CreateJavaVM(nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("CreateJavaVM before Load = %v", err)
	}
	if _, _, err := CreatedJavaVMs(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("CreatedJavaVMs before Load = %v", err)
	}
}

// Integration test - only runs if a JDK is available
func TestLoadJVM(t *testing.T) {
	if testing.Short() {
		t.Log("Skipping libjvm load test in short mode")
		return
	}
	if _, err := FindLibrary(); err != nil {
		t.Skipf("libjvm not available: %v", err)
	}

	if err := Load(""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !IsLoaded() || LibJVM() == 0 {
		t.Error("IsLoaded should be true after successful Load")
	}
	t.Logf("libjvm loaded from %s", LibraryPath())
}
