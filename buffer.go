package jnigo

import "unsafe"

// DirectBuffer is the native memory behind a direct java.nio.ByteBuffer,
// viewed as elements of type E.
type DirectBuffer[E Primitive] struct {
	addr unsafe.Pointer
	size int
}

// AccessDirectBuffer returns the memory of a direct buffer. The element
// count is the byte capacity divided by the size of E.
func AccessDirectBuffer[E Primitive](env Env, buf Reference) (DirectBuffer[E], error) {
	addr := env.GetDirectBufferAddress(buf.Raw())
	if addr == nil {
		if err := Check(env); err != nil {
			return DirectBuffer[E]{}, err
		}
		return DirectBuffer[E]{}, throwProblem("invalid buffer")
	}
	capacity := env.GetDirectBufferCapacity(buf.Raw())
	if capacity == -1 {
		if err := Check(env); err != nil {
			return DirectBuffer[E]{}, err
		}
		return DirectBuffer[E]{}, throwProblem("invalid buffer")
	}
	var zero E
	return DirectBuffer[E]{addr: addr, size: int(capacity) / int(unsafe.Sizeof(zero))}, nil
}

// Addr returns the start of the buffer memory.
func (b DirectBuffer[E]) Addr() unsafe.Pointer { return b.addr }

// Len returns the number of whole elements in the buffer.
func (b DirectBuffer[E]) Len() int { return b.size }

// Data returns the buffer memory as a slice.
func (b DirectBuffer[E]) Data() []E {
	if b.addr == nil {
		return nil
	}
	return unsafe.Slice((*E)(b.addr), b.size)
}

// NewDirectBuffer wraps data in a direct ByteBuffer without copying. The
// buffer aliases data: the caller keeps data alive, and unmoved, for as long
// as Java code may use the buffer. Memory allocated outside the Go heap is
// the safe choice for long-lived buffers.
func NewDirectBuffer[E Primitive](env Env, data []E) (Ref[JByteBuffer, Local], error) {
	var addr unsafe.Pointer
	if len(data) > 0 {
		addr = unsafe.Pointer(&data[0])
	}
	var zero E
	obj := env.NewDirectByteBuffer(addr, int64(len(data))*int64(unsafe.Sizeof(zero)))
	if obj == 0 {
		if err := Check(env); err != nil {
			return Ref[JByteBuffer, Local]{}, err
		}
		return Ref[JByteBuffer, Local]{}, throwProblem("cannot create java buffer")
	}
	return AttachLocal[JByteBuffer](env, obj), nil
}
