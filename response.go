package triton

import (
	"fmt"
	"log/slog"

	"github.com/openinfer/triton-go/internal/native"
)

// Response accumulates named output tensors for exactly one request. It must
// be terminated by exactly one Send; an unsent response is released
// best-effort by Close. Responses must not be retained past the enclosing
// execute call.
type Response struct {
	h    native.Handle
	sent bool
}

// NewResponse creates a response for the given request.
func NewResponse(request Request) (*Response, error) {
	h, err := native.Current().ResponseNew(request.h)
	if err != nil {
		return nil, err
	}
	return &Response{h: h}, nil
}

// Output declares a named output tensor with the given datatype and shape.
// The returned Output is valid until the response is sent.
func (r *Response) Output(name string, dataType DataType, shape []int64) (Output, error) {
	h, err := native.Current().ResponseOutput(r.h, name, uint32(dataType), shape)
	if err != nil {
		return Output{}, err
	}
	return Output{h: h}, nil
}

// Send performs the terminal send, handing the response to the host. It may
// be called at most once.
func (r *Response) Send() error {
	if r.sent {
		return ErrResponseSent
	}
	if err := native.Current().ResponseSend(r.h, native.ResponseCompleteFinal); err != nil {
		return err
	}
	r.sent = true
	return nil
}

// Close releases the response if it was never sent. Safe to defer alongside
// Send: after a successful send the host owns the response and Close is a
// no-op. A release failure is logged, not returned.
func (r *Response) Close() {
	if r.sent {
		return
	}
	r.sent = true
	if err := native.Current().ResponseDelete(r.h); err != nil {
		slog.Error("failed to release unsent response", "error", err)
	}
}

// Output is a named tensor buffer declared on a response.
type Output struct {
	h native.Handle
}

// Buffer requests a host-allocated buffer of exactly size bytes for the
// plugin to fill before the response is sent. The host owns the memory.
func (o Output) Buffer(size int) ([]byte, error) {
	data, memType, err := native.Current().OutputBuffer(o.h, uint64(size))
	if err != nil {
		return nil, err
	}
	if mt := MemoryType(memType); !mt.hostAccessible() {
		return nil, fmt.Errorf("%w: output buffer resides in %s memory", ErrUnsupportedMemory, mt)
	}
	return data, nil
}
