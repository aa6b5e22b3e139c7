package jnigo_test

import (
	"errors"
	"testing"

	"github.com/obinnaokechukwu/jnigo"
)

func TestFramePopKeepsResult(t *testing.T) {
	env := attach(t)
	locals := env.LocalCount()

	f, err := jnigo.PushFrame(env, 4)
	if err != nil {
		t.Fatalf("PushFrame failed: %v", err)
	}
	if env.FrameDepth() != 1 {
		t.Fatalf("frame depth = %d", env.FrameDepth())
	}
	keep, _ := jnigo.NewString(env, "keep")
	drop, _ := jnigo.NewString(env, "drop")
	_ = drop

	out, err := f.Pop(keep)
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if env.FrameDepth() != 0 {
		t.Error("frame not popped")
	}
	if env.LocalCount() != locals+1 {
		t.Errorf("locals after Pop = %d, want %d", env.LocalCount(), locals+1)
	}
	if s, _ := jnigo.GoString(env, out); s != "keep" {
		t.Errorf("result = %q", s)
	}
	out.Release()

	if _, err := f.Pop(nil); !errors.Is(err, jnigo.ErrFrameNotPushed) {
		t.Errorf("second Pop = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close after Pop failed: %v", err)
	}
}

func TestFrameClose(t *testing.T) {
	env := attach(t)
	locals := env.LocalCount()
	f, err := jnigo.PushFrame(env, 1)
	if err != nil {
		t.Fatalf("PushFrame failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		jnigo.NewString(env, "scratch")
	}
	f.Close()
	if env.LocalCount() != locals || env.FrameDepth() != 0 {
		t.Error("Close did not free the frame")
	}
}

func TestFramePopNull(t *testing.T) {
	env := attach(t)
	f, err := jnigo.PushFrame(env, 1)
	if err != nil {
		t.Fatalf("PushFrame failed: %v", err)
	}
	out, err := f.Pop(nil)
	if err != nil || !out.IsNil() {
		t.Errorf("Pop(nil) = %v, %v", out.Raw(), err)
	}
}

func TestPushFrameFailure(t *testing.T) {
	env := attach(t)
	_, err := jnigo.PushFrame(env, -1)
	if !jnigo.IsProblem(err) || !jnigo.IsJavaException(err) {
		t.Errorf("PushFrame(-1) = %v", err)
	}
	if env.FrameDepth() != 0 {
		t.Error("failed push left a frame")
	}
}
