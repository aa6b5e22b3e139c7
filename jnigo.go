// Package jnigo lets Go code work with a Java virtual machine through JNI,
// without cgo.
//
// References to Java objects are typed handles, Ref[T, D], where T is a tag
// type naming the Java class and D the ownership discipline: Auto (borrowed),
// Local, Global or Weak. Conversions between disciplines acquire new
// references; conversions between types are checked at compile time.
//
// Java exceptions surface as *JavaException errors; Go errors and panics in
// native methods are raised back into Java. Threads are attached to the VM
// on demand by the Provider.
//
// For embedding a JVM in a Go program see CreateJavaVM. For Go code loaded
// into a running JVM, call Start with the env of the first native call.
package jnigo

// Start installs the provider for the VM owning env and resolves the core
// classes. It is safe to call multiple times.
func Start(env Env) error {
	if _, err := InitFromEnv(env); err != nil {
		return err
	}
	return InitRuntime(env)
}

// Shutdown releases the core classes and uninstalls the provider.
func Shutdown() error {
	TermRuntime()
	return Term()
}
