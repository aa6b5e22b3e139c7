package promstats_test

import (
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/obinnaokechukwu/jnigo"
	"github.com/obinnaokechukwu/jnigo/jnitest"
	"github.com/obinnaokechukwu/jnigo/promstats"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func value(f *dto.MetricFamily, discipline string) float64 {
	for _, m := range f.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() != "discipline" || l.GetValue() != discipline {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func TestCollector(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if _, err := jnigo.Init(jnitest.NewVM()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer jnigo.Term()
	env, err := jnigo.Current().Env()
	if err != nil {
		t.Fatalf("Env failed: %v", err)
	}
	defer jnigo.Current().Detach()

	reg := prometheus.NewRegistry()
	if _, err := promstats.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	before := gather(t, reg)

	s, err := jnigo.NewString(env, "metric")
	if err != nil {
		t.Fatalf("NewString failed: %v", err)
	}
	during := gather(t, reg)
	if got := value(during["jnigo_refs_live"], "local") - value(before["jnigo_refs_live"], "local"); got != 1 {
		t.Errorf("live local delta = %v, want 1", got)
	}
	s.Release()
	after := gather(t, reg)
	if got := value(after["jnigo_refs_released_total"], "local") - value(before["jnigo_refs_released_total"], "local"); got != 1 {
		t.Errorf("released local delta = %v, want 1", got)
	}
	if got := after["jnigo_threads_attached_total"].GetMetric()[0].GetCounter().GetValue(); got < 1 {
		t.Errorf("attached = %v", got)
	}
	for _, name := range []string{"jnigo_refs_acquired_total", "jnigo_threads_detached_total"} {
		if _, ok := after[name]; !ok {
			t.Errorf("%s not exported", name)
		}
	}
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := promstats.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := promstats.Register(reg); err == nil {
		t.Error("second Register succeeded")
	}
}
