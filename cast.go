package jnigo

// Widen moves src into a Ref of its parent type P. The conversion is only
// permitted when the source tag declares Super() P, so an invalid upcast
// does not compile.
func Widen[P Type, S interface {
	Type
	Super() P
}, D Discipline](src *Ref[S, D]) Ref[P, D] {
	out := Ref[P, D]{obj: src.obj, env: src.env}
	*src = Ref[S, D]{}
	return out
}

// ToObject moves src into a Ref of java.lang.Object. Every reference type is
// an Object.
func ToObject[S Type, D Discipline](src *Ref[S, D]) Ref[JObject, D] {
	out := Ref[JObject, D]{obj: src.obj, env: src.env}
	*src = Ref[S, D]{}
	return out
}

// Narrow moves an Object reference into a Ref of type T. Like a static
// downcast it is not checked; use Class.IsInstanceOf first when in doubt.
func Narrow[T Type, D Discipline](src *Ref[JObject, D]) Ref[T, D] {
	out := Ref[T, D]{obj: src.obj, env: src.env}
	*src = Ref[JObject, D]{}
	return out
}

// AsObject returns a non-owning Object view of any reference.
func AsObject[S Type, D Discipline](r Ref[S, D]) Ref[JObject, Auto] {
	return Ref[JObject, Auto]{obj: r.obj}
}
