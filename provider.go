package jnigo

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Provider hands out the JNI env of the calling OS thread, attaching the
// thread to the VM as a daemon when it is not attached yet.
//
// Go has no thread-local destructors, so a thread attached by the provider
// stays attached until Detach is called on it or the provider is
// terminated. Use Do to scope an attachment to a function call.
type Provider struct {
	vm      VM
	version int32
	alive   atomic.Bool
	records sync.Map // thread id -> *threadRecord
}

type threadRecord struct {
	env      Env
	attached bool
}

var (
	providerMu sync.Mutex
	current    atomic.Pointer[Provider]
)

// Init installs the process-wide provider for vm. Calling Init again returns
// the provider installed first.
func Init(vm VM) (*Provider, error) {
	if vm == nil {
		return nil, fmt.Errorf("jnigo: Init: nil VM")
	}
	providerMu.Lock()
	defer providerMu.Unlock()
	if p := current.Load(); p != nil {
		return p, nil
	}
	p := &Provider{vm: vm, version: Version1_6}
	p.alive.Store(true)
	current.Store(p)
	Logger().Debug("jnigo provider initialized")
	return p, nil
}

// InitFromEnv installs the provider for the VM that owns env, typically from
// JNI_OnLoad or the first native call.
func InitFromEnv(env Env) (*Provider, error) {
	vm, code := env.GetJavaVM()
	if code != OK {
		return nil, throwProblem("unable to obtain JavaVM, error %d", code)
	}
	return Init(vm)
}

// Term detaches the calling thread if the provider attached it and
// uninstalls the provider. A JVM thread can only detach itself, so records of
// other threads are dropped and reported in the log.
func Term() error {
	providerMu.Lock()
	p := current.Swap(nil)
	providerMu.Unlock()
	if p == nil {
		return nil
	}
	err := p.Detach()
	p.alive.Store(false)
	var errs error
	p.records.Range(func(key, value any) bool {
		if rec := value.(*threadRecord); rec.attached {
			errs = multierr.Append(errs, fmt.Errorf("jnigo: thread %d still attached at Term", key.(uint64)))
		}
		p.records.Delete(key)
		return true
	})
	if errs != nil {
		Logger().Warn("provider terminated with attached threads", zap.Error(errs))
	}
	return err
}

// Current returns the installed provider or nil.
func Current() *Provider {
	return current.Load()
}

// VM returns the VM the provider serves.
func (p *Provider) VM() VM { return p.vm }

// Env returns the env of the calling OS thread. The goroutine must stay on
// the same OS thread (runtime.LockOSThread) while it uses the env.
//
// Only threads attached by the provider are remembered; for a thread
// attached by someone else the VM is asked on every call.
func (p *Provider) Env() (Env, error) {
	tid := ThreadID()
	if v, ok := p.records.Load(tid); ok {
		return v.(*threadRecord).env, nil
	}

	env, code := p.vm.GetEnv(p.version)
	if code == OK && env != nil {
		return env, nil
	}
	env, attachCode := p.vm.AttachCurrentThreadAsDaemon()
	if attachCode != OK || env == nil {
		return nil, throwProblem("failed to obtain JNIEnv, error %d and failed to attach Java VM to current thread, error %d", code, attachCode)
	}
	stats.attached.Add(1)
	p.records.Store(tid, &threadRecord{env: env, attached: true})
	Logger().Debug("attached thread to VM", zap.Uint64("tid", tid))
	return env, nil
}

// Detach detaches the calling OS thread if the provider attached it. It is
// a no-op for threads that were attached by someone else, and after the
// provider has been terminated.
func (p *Provider) Detach() error {
	tid := ThreadID()
	v, ok := p.records.LoadAndDelete(tid)
	if !ok {
		return nil
	}
	rec := v.(*threadRecord)
	if !rec.attached || !p.alive.Load() {
		return nil
	}
	stats.detached.Add(1)
	if code := p.vm.DetachCurrentThread(); code != OK {
		return NewStatusError(code, "DetachCurrentThread")
	}
	Logger().Debug("detached thread from VM", zap.Uint64("tid", tid))
	return nil
}

// Do runs fn on a locked OS thread with that thread's env, and detaches the
// thread afterwards if this call attached it.
func (p *Provider) Do(fn func(Env) error) (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	_, known := p.records.Load(ThreadID())
	env, err := p.Env()
	if err != nil {
		return err
	}
	if !known {
		defer func() {
			err = multierr.Append(err, p.Detach())
		}()
	}
	return fn(env)
}

// CurrentEnv returns the calling thread's env from the installed provider.
// Failing to obtain it is fatal.
func CurrentEnv() Env {
	env, err := currentEnv()
	if err != nil {
		fatal(err)
	}
	return env
}

func currentEnv() (Env, error) {
	p := current.Load()
	if p == nil {
		return nil, ErrNotInitialized
	}
	return p.Env()
}
