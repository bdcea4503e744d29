// Package nativetest provides an in-memory host implementation of the native
// call surface so the SDK's wrappers, shim and log handler can be exercised
// without a loading host process.
package nativetest

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/google/uuid"

	"github.com/openinfer/triton-go/internal/native"
)

// Memory types reported for fake input regions. Values mirror the host enum.
const (
	MemoryCPU uint32 = iota
	MemoryCPUPinned
	MemoryGPU
)

// LogLine is one record delivered to the fake log sink.
type LogLine struct {
	Level   uint32
	File    string
	Line    int
	Message string
}

// Host is an in-memory native.API implementation. Handles are pointers to
// the fake objects themselves; the host pins every object it mints so a
// handle stays valid for the whole test.
type Host struct {
	mu       sync.Mutex
	pinned   []any
	disabled map[uint32]bool

	Logs      []LogLine
	Errors    []*ErrorObject
	Messages  []*Message
	Responses []*Response
}

// NewHost returns a Host with every log level enabled.
func NewHost() *Host {
	return &Host{disabled: make(map[uint32]bool)}
}

// Install makes the host the current native API for the duration of the
// test.
func (h *Host) Install(t testing.TB) {
	t.Helper()
	restore := native.Set(h)
	t.Cleanup(restore)
}

// DisableLogLevel makes LogIsEnabled report false for the given level.
func (h *Host) DisableLogLevel(level uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disabled[level] = true
}

func (h *Host) pin(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pinned = append(h.pinned, v)
}

// Model is a fake loaded model version.
type Model struct {
	Name       string
	Version    uint64
	Repository string
	ConfigJSON string

	mu    sync.Mutex
	state uintptr
}

// NewModel registers a fake model and returns it.
func (h *Host) NewModel(name string, version uint64, repository, configJSON string) *Model {
	m := &Model{Name: name, Version: version, Repository: repository, ConfigJSON: configJSON}
	h.pin(m)
	return m
}

// Handle returns the model's native handle.
func (m *Model) Handle() native.Handle { return unsafe.Pointer(m) }

// State returns the raw state token currently attached to the model.
func (m *Model) State() uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Instance is a fake model instance.
type Instance struct {
	Model *Model
	// LookupErr, when non-nil, is returned verbatim by InstanceModel to
	// simulate a failing instance-to-model lookup.
	LookupErr native.Handle
}

// NewInstance registers a fake instance of the given model.
func (h *Host) NewInstance(m *Model) *Instance {
	i := &Instance{Model: m}
	h.pin(i)
	return i
}

// Handle returns the instance's native handle.
func (i *Instance) Handle() native.Handle { return unsafe.Pointer(i) }

// Request is one fake inference request.
type Request struct {
	ID     string
	inputs map[string]*Input
}

// NewRequest registers a fake request. An empty id gets a generated one.
func (h *Host) NewRequest(id string) *Request {
	if id == "" {
		id = uuid.NewString()
	}
	r := &Request{ID: id, inputs: make(map[string]*Input)}
	h.pin(r)
	return r
}

// Handle returns the request's native handle.
func (r *Request) Handle() native.Handle { return unsafe.Pointer(r) }

// AddInput attaches an input tensor to the request.
func (r *Request) AddInput(in *Input) { r.inputs[in.Name] = in }

// Region is one of the discontiguous memory regions backing an input.
type Region struct {
	Data       []byte
	MemoryType uint32
}

// Input is a fake input tensor split across one or more regions.
type Input struct {
	Name      string
	DataType  uint32
	DimsCount uint32
	Regions   []Region
}

// NewInput registers a fake input tensor.
func (h *Host) NewInput(name string, dataType uint32) *Input {
	in := &Input{Name: name, DataType: dataType, DimsCount: 1}
	h.pin(in)
	return in
}

// AddRegion appends one backing region to the input.
func (in *Input) AddRegion(data []byte, memoryType uint32) *Input {
	in.Regions = append(in.Regions, Region{Data: data, MemoryType: memoryType})
	return in
}

func (in *Input) byteSize() uint64 {
	var n uint64
	for _, r := range in.Regions {
		n += uint64(len(r.Data))
	}
	return n
}

// Response is a fake response under construction.
type Response struct {
	Request *Request
	Outputs []*Output

	Sent        bool
	SentFlags   uint32
	SendCount   int
	DeleteCount int
	FailSend    bool
	FailDelete  bool
}

// Output is a fake output tensor declared on a response.
type Output struct {
	Name       string
	DataType   uint32
	Shape      []int64
	Buf        []byte
	MemoryType uint32
}

// Message is a fake serialized-message object (a model configuration).
type Message struct {
	JSON        string
	DeleteCount int
	FailDelete  bool
}

// ErrorObject is a fake native error object.
type ErrorObject struct {
	Code    uint32
	Message string
}

// NewError allocates a fake error object and returns its handle. Tests use
// it to inject failures that the shim must pass through untouched.
func (h *Host) NewError(code uint32, message string) native.Handle {
	e := &ErrorObject{Code: code, Message: message}
	h.mu.Lock()
	h.pinned = append(h.pinned, e)
	h.Errors = append(h.Errors, e)
	h.mu.Unlock()
	return unsafe.Pointer(e)
}

// ErrorMessage returns the message stored in a fake error handle.
func (h *Host) ErrorMessage(err native.Handle) string {
	return (*ErrorObject)(err).Message
}

var _ native.API = (*Host)(nil)

func (h *Host) ModelName(model native.Handle) (string, error) {
	return (*Model)(model).Name, nil
}

func (h *Host) ModelVersion(model native.Handle) (uint64, error) {
	return (*Model)(model).Version, nil
}

func (h *Host) ModelRepository(model native.Handle) (string, error) {
	return (*Model)(model).Repository, nil
}

func (h *Host) ModelConfig(model native.Handle, configVersion uint32) (native.Handle, error) {
	msg := &Message{JSON: (*Model)(model).ConfigJSON}
	h.mu.Lock()
	h.pinned = append(h.pinned, msg)
	h.Messages = append(h.Messages, msg)
	h.mu.Unlock()
	return unsafe.Pointer(msg), nil
}

func (h *Host) ModelState(model native.Handle) (uintptr, error) {
	return (*Model)(model).State(), nil
}

func (h *Host) ModelSetState(model native.Handle, state uintptr) error {
	m := (*Model)(model)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

func (h *Host) InstanceModel(instance native.Handle) (native.Handle, native.Handle) {
	i := (*Instance)(instance)
	if i.LookupErr != nil {
		return nil, i.LookupErr
	}
	return i.Model.Handle(), nil
}

func (h *Host) RequestID(request native.Handle) (string, error) {
	return (*Request)(request).ID, nil
}

func (h *Host) RequestInput(request native.Handle, name string) (native.Handle, error) {
	in, ok := (*Request)(request).inputs[name]
	if !ok {
		return nil, &native.CallError{Fn: "TRITONBACKEND_RequestInput", Code: native.ErrorNotFound}
	}
	return unsafe.Pointer(in), nil
}

func (h *Host) InputProperties(input native.Handle) (native.InputProperties, error) {
	in := (*Input)(input)
	return native.InputProperties{
		Name:        in.Name,
		DataType:    in.DataType,
		DimsCount:   in.DimsCount,
		ByteSize:    in.byteSize(),
		BufferCount: uint32(len(in.Regions)),
	}, nil
}

func (h *Host) InputBuffer(input native.Handle, index uint32) ([]byte, uint32, error) {
	in := (*Input)(input)
	if int(index) >= len(in.Regions) {
		return nil, 0, &native.CallError{Fn: "TRITONBACKEND_InputBuffer", Code: native.ErrorInvalidArg}
	}
	r := in.Regions[index]
	return r.Data, r.MemoryType, nil
}

func (h *Host) ResponseNew(request native.Handle) (native.Handle, error) {
	resp := &Response{Request: (*Request)(request)}
	h.mu.Lock()
	h.pinned = append(h.pinned, resp)
	h.Responses = append(h.Responses, resp)
	h.mu.Unlock()
	return unsafe.Pointer(resp), nil
}

func (h *Host) ResponseOutput(response native.Handle, name string, dataType uint32, shape []int64) (native.Handle, error) {
	resp := (*Response)(response)
	out := &Output{Name: name, DataType: dataType, Shape: shape, MemoryType: MemoryCPU}
	h.pin(out)
	resp.Outputs = append(resp.Outputs, out)
	return unsafe.Pointer(out), nil
}

func (h *Host) ResponseSend(response native.Handle, flags uint32) error {
	resp := (*Response)(response)
	if resp.FailSend {
		return &native.CallError{Fn: "TRITONBACKEND_ResponseSend", Code: native.ErrorInternal}
	}
	resp.Sent = true
	resp.SentFlags = flags
	resp.SendCount++
	return nil
}

func (h *Host) ResponseDelete(response native.Handle) error {
	resp := (*Response)(response)
	resp.DeleteCount++
	if resp.FailDelete {
		return &native.CallError{Fn: "TRITONBACKEND_ResponseDelete", Code: native.ErrorInternal}
	}
	return nil
}

func (h *Host) OutputBuffer(output native.Handle, byteSize uint64) ([]byte, uint32, error) {
	out := (*Output)(output)
	out.Buf = make([]byte, byteSize)
	return out.Buf, out.MemoryType, nil
}

func (h *Host) MessageSerializeToJSON(message native.Handle) (string, error) {
	return (*Message)(message).JSON, nil
}

func (h *Host) MessageDelete(message native.Handle) error {
	msg := (*Message)(message)
	msg.DeleteCount++
	if msg.FailDelete {
		return &native.CallError{Fn: "TRITONSERVER_MessageDelete", Code: native.ErrorInternal}
	}
	return nil
}

func (h *Host) ErrorNew(code uint32, message string) native.Handle {
	return h.NewError(code, message)
}

func (h *Host) ErrorCode(err native.Handle) uint32 {
	return (*ErrorObject)(err).Code
}

func (h *Host) LogIsEnabled(level uint32) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.disabled[level]
}

func (h *Host) LogMessage(level uint32, fileName string, lineNumber int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Logs = append(h.Logs, LogLine{Level: level, File: fileName, Line: lineNumber, Message: message})
}
