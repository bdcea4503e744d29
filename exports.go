//go:build cgo

package triton

// The entry points the host loader discovers by name. Building the plugin's
// main package with -buildmode=c-shared exposes them as C symbols; each one
// reconstructs handle wrappers from the raw pointers the host supplies and
// routes through the dispatch functions in shim.go.

/*
#include <stdint.h>

typedef struct TRITONSERVER_Error TRITONSERVER_Error;
typedef struct TRITONBACKEND_Backend TRITONBACKEND_Backend;
typedef struct TRITONBACKEND_Model TRITONBACKEND_Model;
typedef struct TRITONBACKEND_ModelInstance TRITONBACKEND_ModelInstance;
typedef struct TRITONBACKEND_Request TRITONBACKEND_Request;
*/
import "C"

import (
	"unsafe"

	"github.com/openinfer/triton-go/internal/native"
)

func errOut(h native.Handle) *C.TRITONSERVER_Error {
	return (*C.TRITONSERVER_Error)(h)
}

//export TRITONBACKEND_Initialize
func TRITONBACKEND_Initialize(backend *C.TRITONBACKEND_Backend) *C.TRITONSERVER_Error {
	return errOut(dispatchInitialize())
}

//export TRITONBACKEND_Finalize
func TRITONBACKEND_Finalize(backend *C.TRITONBACKEND_Backend) *C.TRITONSERVER_Error {
	return errOut(dispatchFinalize())
}

//export TRITONBACKEND_ModelInitialize
func TRITONBACKEND_ModelInitialize(model *C.TRITONBACKEND_Model) *C.TRITONSERVER_Error {
	return errOut(dispatchModelInitialize(native.Handle(model)))
}

//export TRITONBACKEND_ModelFinalize
func TRITONBACKEND_ModelFinalize(model *C.TRITONBACKEND_Model) *C.TRITONSERVER_Error {
	return errOut(dispatchModelFinalize(native.Handle(model)))
}

//export TRITONBACKEND_ModelInstanceInitialize
func TRITONBACKEND_ModelInstanceInitialize(instance *C.TRITONBACKEND_ModelInstance) *C.TRITONSERVER_Error {
	return errOut(dispatchInstanceInitialize(native.Handle(instance)))
}

//export TRITONBACKEND_ModelInstanceFinalize
func TRITONBACKEND_ModelInstanceFinalize(instance *C.TRITONBACKEND_ModelInstance) *C.TRITONSERVER_Error {
	return errOut(dispatchInstanceFinalize(native.Handle(instance)))
}

//export TRITONBACKEND_ModelInstanceExecute
func TRITONBACKEND_ModelInstanceExecute(instance *C.TRITONBACKEND_ModelInstance, requests **C.TRITONBACKEND_Request, requestCount C.uint32_t) *C.TRITONSERVER_Error {
	handles := make([]native.Handle, int(requestCount))
	if requestCount > 0 {
		for i, req := range unsafe.Slice(requests, int(requestCount)) {
			handles[i] = native.Handle(req)
		}
	}
	return errOut(dispatchInstanceExecute(native.Handle(instance), handles))
}
