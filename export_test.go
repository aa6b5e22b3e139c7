package jnigo

// CachedClasses exposes the class cache size to the external tests.
var CachedClasses = cachedClasses
