package jnigo

// Frame is a local reference frame. Every local reference created after
// PushFrame is freed when the frame is popped, except the one passed to Pop.
type Frame struct {
	env    Env
	pushed bool
}

// PushFrame pushes a local frame with room for at least capacity local
// references.
func PushFrame(env Env, capacity int32) (*Frame, error) {
	if env.PushLocalFrame(capacity) != OK {
		if err := Check(env); err != nil {
			return nil, &Problem{Message: "cannot push local frame", Cause: err}
		}
		return nil, throwProblem("cannot push local frame")
	}
	return &Frame{env: env, pushed: true}, nil
}

// Pop pops the frame and returns a local reference, valid in the enclosing
// frame, to the object result refers to. Local references created in the
// frame, including result itself, become invalid.
func (f *Frame) Pop(result Reference) (Ref[JObject, Local], error) {
	if !f.pushed {
		return Ref[JObject, Local]{}, ErrFrameNotPushed
	}
	f.pushed = false
	var raw Jobject
	if result != nil {
		raw = result.Raw()
	}
	return AttachLocal[JObject](f.env, f.env.PopLocalFrame(raw)), nil
}

// Close pops the frame if it has not been popped yet.
func (f *Frame) Close() error {
	if !f.pushed {
		return nil
	}
	f.pushed = false
	f.env.PopLocalFrame(0)
	return nil
}
