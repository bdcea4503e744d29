// Package native is the only package that names the host server's C ABI.
// It defines the set of native calls the SDK performs and a pluggable
// implementation so tests can run against an in-memory host.
package native

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Handle is an opaque native object reference. Handles are minted by the
// host (or by a test host) and are only ever passed back through the API;
// the SDK never dereferences one outside the implementation in this package.
type Handle = unsafe.Pointer

// Error codes of the host's error-object contract. Only ErrorInternal is
// ever used to construct errors; the rest exist to interpret codes on
// errors the SDK did not create.
const (
	ErrorUnknown uint32 = iota
	ErrorInternal
	ErrorNotFound
	ErrorInvalidArg
	ErrorUnavailable
	ErrorUnsupported
	ErrorAlreadyExists
)

// Host log levels.
const (
	LogInfo uint32 = iota
	LogWarn
	LogError
	LogVerbose
)

// ResponseCompleteFinal marks a response send as the terminal send for its
// request.
const ResponseCompleteFinal uint32 = 1

// InputProperties mirrors the property set the host reports for one input
// tensor.
type InputProperties struct {
	Name        string
	DataType    uint32
	DimsCount   uint32
	ByteSize    uint64
	BufferCount uint32
}

// API is the native call surface. Every method that can fail converts a
// non-null error handle returned by the host into a *CallError carrying the
// host's numeric code; the handle itself is never freed here because this
// layer did not allocate it.
//
// InstanceModel is the one exception: it returns the raw error handle so the
// entry-point shim can hand it back to the host untouched instead of
// wrapping a second error object around it.
type API interface {
	ModelName(model Handle) (string, error)
	ModelVersion(model Handle) (uint64, error)
	ModelRepository(model Handle) (string, error)
	ModelConfig(model Handle, configVersion uint32) (Handle, error)
	ModelState(model Handle) (uintptr, error)
	ModelSetState(model Handle, state uintptr) error
	InstanceModel(instance Handle) (model Handle, errHandle Handle)

	RequestID(request Handle) (string, error)
	RequestInput(request Handle, name string) (Handle, error)

	InputProperties(input Handle) (InputProperties, error)
	InputBuffer(input Handle, index uint32) (data []byte, memoryType uint32, err error)

	ResponseNew(request Handle) (Handle, error)
	ResponseOutput(response Handle, name string, dataType uint32, shape []int64) (Handle, error)
	ResponseSend(response Handle, flags uint32) error
	ResponseDelete(response Handle) error
	OutputBuffer(output Handle, byteSize uint64) (data []byte, memoryType uint32, err error)

	MessageSerializeToJSON(message Handle) (string, error)
	MessageDelete(message Handle) error

	ErrorNew(code uint32, message string) Handle
	ErrorCode(err Handle) uint32

	LogIsEnabled(level uint32) bool
	LogMessage(level uint32, fileName string, lineNumber int, message string)
}

// CallError reports a native call that returned a non-null error handle.
type CallError struct {
	Fn   string
	Code uint32
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s returned error code %d", e.Fn, e.Code)
}

var current atomic.Pointer[API]

// Set installs the API implementation and returns a function restoring the
// previous one. Tests use it to install an in-memory host.
func Set(api API) (restore func()) {
	prev := current.Swap(&api)
	return func() { current.Store(prev) }
}

// Current returns the installed API implementation.
func Current() API {
	return *current.Load()
}

func init() {
	var api API = defaultAPI()
	current.Store(&api)
}
