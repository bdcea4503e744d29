//go:build cgo

package native

// The prototypes below mirror the host server's versioned backend contract
// (tritonbackend.h / tritonserver.h). Only the declarations are mirrored;
// the symbols are provided by the host process at load time, so the link
// step is told to leave them unresolved.

/*
#cgo linux LDFLAGS: -Wl,--unresolved-symbols=ignore-all
#cgo darwin LDFLAGS: -Wl,-undefined,dynamic_lookup
#include <stdbool.h>
#include <stdint.h>
#include <stddef.h>
#include <stdlib.h>

typedef struct TRITONSERVER_Error TRITONSERVER_Error;
typedef struct TRITONSERVER_Message TRITONSERVER_Message;
typedef struct TRITONBACKEND_Model TRITONBACKEND_Model;
typedef struct TRITONBACKEND_ModelInstance TRITONBACKEND_ModelInstance;
typedef struct TRITONBACKEND_Request TRITONBACKEND_Request;
typedef struct TRITONBACKEND_Input TRITONBACKEND_Input;
typedef struct TRITONBACKEND_Response TRITONBACKEND_Response;
typedef struct TRITONBACKEND_Output TRITONBACKEND_Output;

extern TRITONSERVER_Error* TRITONSERVER_ErrorNew(int code, const char* msg);
extern int TRITONSERVER_ErrorCode(TRITONSERVER_Error* error);
extern bool TRITONSERVER_LogIsEnabled(int level);
extern TRITONSERVER_Error* TRITONSERVER_LogMessage(int level, const char* filename, int line, const char* msg);
extern TRITONSERVER_Error* TRITONSERVER_MessageSerializeToJson(TRITONSERVER_Message* message, const char** base, size_t* byte_size);
extern TRITONSERVER_Error* TRITONSERVER_MessageDelete(TRITONSERVER_Message* message);

extern TRITONSERVER_Error* TRITONBACKEND_ModelName(TRITONBACKEND_Model* model, const char** name);
extern TRITONSERVER_Error* TRITONBACKEND_ModelVersion(TRITONBACKEND_Model* model, uint64_t* version);
extern TRITONSERVER_Error* TRITONBACKEND_ModelRepository(TRITONBACKEND_Model* model, int* artifact_type, const char** location);
extern TRITONSERVER_Error* TRITONBACKEND_ModelConfig(TRITONBACKEND_Model* model, uint32_t config_version, TRITONSERVER_Message** model_config);
extern TRITONSERVER_Error* TRITONBACKEND_ModelState(TRITONBACKEND_Model* model, uintptr_t* state);
extern TRITONSERVER_Error* TRITONBACKEND_ModelSetState(TRITONBACKEND_Model* model, uintptr_t state);
extern TRITONSERVER_Error* TRITONBACKEND_ModelInstanceModel(TRITONBACKEND_ModelInstance* instance, TRITONBACKEND_Model** model);
extern TRITONSERVER_Error* TRITONBACKEND_RequestId(TRITONBACKEND_Request* request, const char** id);
extern TRITONSERVER_Error* TRITONBACKEND_RequestInput(TRITONBACKEND_Request* request, const char* name, TRITONBACKEND_Input** input);
extern TRITONSERVER_Error* TRITONBACKEND_InputProperties(TRITONBACKEND_Input* input, const char** name, int* datatype, const int64_t** shape, uint32_t* dims_count, uint64_t* byte_size, uint32_t* buffer_count);
extern TRITONSERVER_Error* TRITONBACKEND_InputBuffer(TRITONBACKEND_Input* input, uint32_t index, const void** buffer, uint64_t* buffer_byte_size, int* memory_type, int64_t* memory_type_id);
extern TRITONSERVER_Error* TRITONBACKEND_ResponseNew(TRITONBACKEND_Response** response, TRITONBACKEND_Request* request);
extern TRITONSERVER_Error* TRITONBACKEND_ResponseOutput(TRITONBACKEND_Response* response, TRITONBACKEND_Output** output, const char* name, int datatype, const int64_t* shape, uint32_t dims_count);
extern TRITONSERVER_Error* TRITONBACKEND_ResponseSend(TRITONBACKEND_Response* response, uint32_t send_flags, TRITONSERVER_Error* error);
extern TRITONSERVER_Error* TRITONBACKEND_ResponseDelete(TRITONBACKEND_Response* response);
extern TRITONSERVER_Error* TRITONBACKEND_OutputBuffer(TRITONBACKEND_Output* output, void** buffer, uint64_t buffer_byte_size, int* memory_type, int64_t* memory_type_id);
*/
import "C"

import "unsafe"

func defaultAPI() API { return hostAPI{} }

// hostAPI performs the real native calls against the loading host process.
type hostAPI struct{}

// checkErr converts a non-null native error handle into a *CallError
// carrying the host's numeric code. The handle is host-owned and is not
// freed here.
func checkErr(fn string, err *C.TRITONSERVER_Error) error {
	if err == nil {
		return nil
	}
	return &CallError{Fn: fn, Code: uint32(C.TRITONSERVER_ErrorCode(err))}
}

func (hostAPI) ModelName(model Handle) (string, error) {
	var name *C.char
	if err := checkErr("TRITONBACKEND_ModelName",
		C.TRITONBACKEND_ModelName((*C.TRITONBACKEND_Model)(model), &name)); err != nil {
		return "", err
	}
	return C.GoString(name), nil
}

func (hostAPI) ModelVersion(model Handle) (uint64, error) {
	var version C.uint64_t
	if err := checkErr("TRITONBACKEND_ModelVersion",
		C.TRITONBACKEND_ModelVersion((*C.TRITONBACKEND_Model)(model), &version)); err != nil {
		return 0, err
	}
	return uint64(version), nil
}

func (hostAPI) ModelRepository(model Handle) (string, error) {
	var artifactType C.int
	var location *C.char
	if err := checkErr("TRITONBACKEND_ModelRepository",
		C.TRITONBACKEND_ModelRepository((*C.TRITONBACKEND_Model)(model), &artifactType, &location)); err != nil {
		return "", err
	}
	return C.GoString(location), nil
}

func (hostAPI) ModelConfig(model Handle, configVersion uint32) (Handle, error) {
	var msg *C.TRITONSERVER_Message
	if err := checkErr("TRITONBACKEND_ModelConfig",
		C.TRITONBACKEND_ModelConfig((*C.TRITONBACKEND_Model)(model), C.uint32_t(configVersion), &msg)); err != nil {
		return nil, err
	}
	return Handle(msg), nil
}

func (hostAPI) ModelState(model Handle) (uintptr, error) {
	var state C.uintptr_t
	if err := checkErr("TRITONBACKEND_ModelState",
		C.TRITONBACKEND_ModelState((*C.TRITONBACKEND_Model)(model), &state)); err != nil {
		return 0, err
	}
	return uintptr(state), nil
}

func (hostAPI) ModelSetState(model Handle, state uintptr) error {
	return checkErr("TRITONBACKEND_ModelSetState",
		C.TRITONBACKEND_ModelSetState((*C.TRITONBACKEND_Model)(model), C.uintptr_t(state)))
}

func (hostAPI) InstanceModel(instance Handle) (Handle, Handle) {
	var model *C.TRITONBACKEND_Model
	err := C.TRITONBACKEND_ModelInstanceModel((*C.TRITONBACKEND_ModelInstance)(instance), &model)
	if err != nil {
		return nil, Handle(err)
	}
	return Handle(model), nil
}

func (hostAPI) RequestID(request Handle) (string, error) {
	var id *C.char
	if err := checkErr("TRITONBACKEND_RequestId",
		C.TRITONBACKEND_RequestId((*C.TRITONBACKEND_Request)(request), &id)); err != nil {
		return "", err
	}
	return C.GoString(id), nil
}

func (hostAPI) RequestInput(request Handle, name string) (Handle, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var input *C.TRITONBACKEND_Input
	if err := checkErr("TRITONBACKEND_RequestInput",
		C.TRITONBACKEND_RequestInput((*C.TRITONBACKEND_Request)(request), cname, &input)); err != nil {
		return nil, err
	}
	return Handle(input), nil
}

func (hostAPI) InputProperties(input Handle) (InputProperties, error) {
	var (
		name        *C.char
		datatype    C.int
		shape       *C.int64_t
		dimsCount   C.uint32_t
		byteSize    C.uint64_t
		bufferCount C.uint32_t
	)
	if err := checkErr("TRITONBACKEND_InputProperties",
		C.TRITONBACKEND_InputProperties((*C.TRITONBACKEND_Input)(input),
			&name, &datatype, &shape, &dimsCount, &byteSize, &bufferCount)); err != nil {
		return InputProperties{}, err
	}
	return InputProperties{
		Name:        C.GoString(name),
		DataType:    uint32(datatype),
		DimsCount:   uint32(dimsCount),
		ByteSize:    uint64(byteSize),
		BufferCount: uint32(bufferCount),
	}, nil
}

func (hostAPI) InputBuffer(input Handle, index uint32) ([]byte, uint32, error) {
	var (
		buffer       unsafe.Pointer
		byteSize     C.uint64_t
		memoryType   C.int
		memoryTypeID C.int64_t
	)
	if err := checkErr("TRITONBACKEND_InputBuffer",
		C.TRITONBACKEND_InputBuffer((*C.TRITONBACKEND_Input)(input), C.uint32_t(index),
			&buffer, &byteSize, &memoryType, &memoryTypeID)); err != nil {
		return nil, 0, err
	}
	if buffer == nil || byteSize == 0 {
		return nil, uint32(memoryType), nil
	}
	// Borrowed view over host memory; valid only for the enclosing call.
	return unsafe.Slice((*byte)(buffer), int(byteSize)), uint32(memoryType), nil
}

func (hostAPI) ResponseNew(request Handle) (Handle, error) {
	var response *C.TRITONBACKEND_Response
	if err := checkErr("TRITONBACKEND_ResponseNew",
		C.TRITONBACKEND_ResponseNew(&response, (*C.TRITONBACKEND_Request)(request))); err != nil {
		return nil, err
	}
	return Handle(response), nil
}

func (hostAPI) ResponseOutput(response Handle, name string, dataType uint32, shape []int64) (Handle, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var shapePtr *C.int64_t
	if len(shape) > 0 {
		shapePtr = (*C.int64_t)(unsafe.Pointer(&shape[0]))
	}
	var output *C.TRITONBACKEND_Output
	if err := checkErr("TRITONBACKEND_ResponseOutput",
		C.TRITONBACKEND_ResponseOutput((*C.TRITONBACKEND_Response)(response), &output,
			cname, C.int(dataType), shapePtr, C.uint32_t(len(shape)))); err != nil {
		return nil, err
	}
	return Handle(output), nil
}

func (hostAPI) ResponseSend(response Handle, flags uint32) error {
	return checkErr("TRITONBACKEND_ResponseSend",
		C.TRITONBACKEND_ResponseSend((*C.TRITONBACKEND_Response)(response), C.uint32_t(flags), nil))
}

func (hostAPI) ResponseDelete(response Handle) error {
	return checkErr("TRITONBACKEND_ResponseDelete",
		C.TRITONBACKEND_ResponseDelete((*C.TRITONBACKEND_Response)(response)))
}

func (hostAPI) OutputBuffer(output Handle, byteSize uint64) ([]byte, uint32, error) {
	var (
		buffer       unsafe.Pointer
		memoryType   C.int
		memoryTypeID C.int64_t
	)
	if err := checkErr("TRITONBACKEND_OutputBuffer",
		C.TRITONBACKEND_OutputBuffer((*C.TRITONBACKEND_Output)(output), &buffer,
			C.uint64_t(byteSize), &memoryType, &memoryTypeID)); err != nil {
		return nil, 0, err
	}
	if buffer == nil || byteSize == 0 {
		return nil, uint32(memoryType), nil
	}
	// Host-owned memory; the plugin fills it before the response is sent.
	return unsafe.Slice((*byte)(buffer), int(byteSize)), uint32(memoryType), nil
}

func (hostAPI) MessageSerializeToJSON(message Handle) (string, error) {
	var (
		base     *C.char
		byteSize C.size_t
	)
	if err := checkErr("TRITONSERVER_MessageSerializeToJson",
		C.TRITONSERVER_MessageSerializeToJson((*C.TRITONSERVER_Message)(message), &base, &byteSize)); err != nil {
		return "", err
	}
	return C.GoStringN(base, C.int(byteSize)), nil
}

func (hostAPI) MessageDelete(message Handle) error {
	return checkErr("TRITONSERVER_MessageDelete",
		C.TRITONSERVER_MessageDelete((*C.TRITONSERVER_Message)(message)))
}

func (hostAPI) ErrorNew(code uint32, message string) Handle {
	cmsg := C.CString(message)
	defer C.free(unsafe.Pointer(cmsg))
	return Handle(C.TRITONSERVER_ErrorNew(C.int(code), cmsg))
}

func (hostAPI) ErrorCode(err Handle) uint32 {
	return uint32(C.TRITONSERVER_ErrorCode((*C.TRITONSERVER_Error)(err)))
}

func (hostAPI) LogIsEnabled(level uint32) bool {
	return bool(C.TRITONSERVER_LogIsEnabled(C.int(level)))
}

func (hostAPI) LogMessage(level uint32, fileName string, lineNumber int, message string) {
	cfile := C.CString(fileName)
	defer C.free(unsafe.Pointer(cfile))
	cmsg := C.CString(message)
	defer C.free(unsafe.Pointer(cmsg))
	// Best effort: a failure to log is dropped, and the returned error
	// object is host-owned.
	_ = C.TRITONSERVER_LogMessage(C.int(level), cfile, C.int(lineNumber), cmsg)
}
