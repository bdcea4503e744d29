// Package triton lets a plugin author implement a model-serving backend for
// a Triton-style inference server without touching the server's native C
// plugin interface. The author implements Backend, registers it with
// Register, and builds the main package with -buildmode=c-shared; the SDK
// exports the entry points the host loader discovers by name.
package triton

import "sync"

// Backend is the capability set a backend plugin implements. Every hook
// except ModelInstanceExecute is optional; embed Base to pick up no-op
// defaults for the ones you do not need.
//
// The host guarantees it never issues two concurrent ModelInstanceExecute
// calls for the same instance, but different instances (of the same or
// different models) may execute in parallel and must be safe to do so.
// A returned error is surfaced to the host as a native error object with
// the error's text; it never aborts the process.
type Backend interface {
	// Initialize is called once when the backend library is loaded. State
	// created here is shared across all models using the backend.
	Initialize() error

	// Finalize is called once just before the backend is unloaded. All
	// backend-owned goroutines must have finished before it returns.
	Finalize() error

	// ModelInitialize is called once per loaded model version.
	ModelInitialize(model Model) error

	// ModelFinalize is called once per model version before unload. State
	// attached with Model.SetData should be released here via
	// Model.DropData.
	ModelFinalize(model Model) error

	// ModelInstanceInitialize is called once per model instance created.
	ModelInstanceInitialize() error

	// ModelInstanceFinalize is called once per instance before unload.
	ModelInstanceFinalize() error

	// ModelInstanceExecute is called for every batch delivered to an
	// instance. The model and request values are only valid for the
	// duration of the call and must not be retained.
	ModelInstanceExecute(model Model, requests []Request) error
}

// Base provides no-op implementations of the optional hooks. Embed it and
// implement ModelInstanceExecute to satisfy Backend.
type Base struct{}

func (Base) Initialize() error              { return nil }
func (Base) Finalize() error                { return nil }
func (Base) ModelInitialize(Model) error    { return nil }
func (Base) ModelFinalize(Model) error      { return nil }
func (Base) ModelInstanceInitialize() error { return nil }
func (Base) ModelInstanceFinalize() error   { return nil }

var (
	backendMu  sync.RWMutex
	registered Backend
)

// Register installs the backend the exported entry points dispatch to.
// Call it from an init function (or from main's package initialization) so
// the backend is in place before the host drives the first hook.
func Register(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	registered = b
}

func currentBackend() Backend {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return registered
}
