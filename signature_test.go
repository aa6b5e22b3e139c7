package jnigo_test

import (
	"testing"

	"github.com/obinnaokechukwu/jnigo"
)

func TestSig(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{jnigo.Sig[bool](), "Z"},
		{jnigo.Sig[int8](), "B"},
		{jnigo.Sig[uint16](), "C"},
		{jnigo.Sig[int16](), "S"},
		{jnigo.Sig[int32](), "I"},
		{jnigo.Sig[int64](), "J"},
		{jnigo.Sig[float32](), "F"},
		{jnigo.Sig[float64](), "D"},
		{jnigo.Sig[jnigo.Void](), "V"},
		{jnigo.Sig[jnigo.JString](), "Ljava/lang/String;"},
		{jnigo.Sig[Derived](), "Lcom/example/Derived;"},
		{jnigo.Sig[jnigo.Ref[jnigo.JClass, jnigo.Global]](), "Ljava/lang/Class;"},
		{jnigo.Sig[jnigo.JIntArray](), "[I"},
		{jnigo.Sig[jnigo.JObjectArray[jnigo.JIntArray]](), "[[I"},
		{jnigo.Sig[jnigo.JObjectArray[Base]](), "[Lcom/example/Base;"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Sig = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestSigPanicsOnUnmappedType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Sig[int] did not panic")
		}
	}()
	jnigo.Sig[int]()
}

func TestMethodSig(t *testing.T) {
	if got := jnigo.MethodSig("V"); got != "()V" {
		t.Errorf("MethodSig = %q", got)
	}
	got := jnigo.MethodSig(jnigo.Sig[jnigo.JString](), "I", jnigo.ArraySig("J"), jnigo.ClassSig("java.lang.Object"))
	if got != "(I[JLjava/lang/Object;)Ljava/lang/String;" {
		t.Errorf("MethodSig = %q", got)
	}
	if got := jnigo.ClassSig("[Ljava.lang.String;"); got != "[Ljava/lang/String;" {
		t.Errorf("ClassSig of an array = %q", got)
	}
}

func TestKind(t *testing.T) {
	if jnigo.KindLong.Size() != 8 || jnigo.KindChar.Size() != 2 || jnigo.KindBoolean.Size() != 1 {
		t.Error("wrong kind sizes")
	}
	if jnigo.KindDouble.String() != "Double" {
		t.Errorf("KindDouble = %s", jnigo.KindDouble)
	}
}

func TestValueRoundTrip(t *testing.T) {
	if !jnigo.Bool(true).Bool() || jnigo.Bool(false).Bool() {
		t.Error("Bool")
	}
	if jnigo.Byte(-3).Byte() != -3 || jnigo.Short(-300).Short() != -300 || jnigo.Int(-70000).Int() != -70000 {
		t.Error("signed values do not survive")
	}
	if jnigo.Float(0.5).Float() != 0.5 || jnigo.Double(-0.25).Double() != -0.25 {
		t.Error("floating point values do not survive")
	}
}
