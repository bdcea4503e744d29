package triton

import (
	"encoding/binary"
	"fmt"

	"github.com/openinfer/triton-go/internal/native"
)

// Request is one inference request within a batch. It is owned by the host
// for the duration of the execute call and must not be retained past it.
type Request struct {
	h native.Handle
}

func requestFromHandle(h native.Handle) Request { return Request{h: h} }

// ID returns the request's client-assigned identifier.
func (r Request) ID() (string, error) {
	return native.Current().RequestID(r.h)
}

// Input looks up a named input tensor of the request.
func (r Request) Input(name string) (Input, error) {
	h, err := native.Current().RequestInput(r.h, name)
	if err != nil {
		return Input{}, err
	}
	return Input{h: h}, nil
}

// Input is a named tensor view inside a request. Like the request, it is
// valid only for the duration of the execute call.
type Input struct {
	h native.Handle
}

// InputProperties is the property set the host reports for an input tensor.
// A tensor's bytes may be split across BufferCount discontiguous regions.
type InputProperties struct {
	Name        string
	DataType    DataType
	DimsCount   uint32
	ByteSize    uint64
	BufferCount uint32
}

// Properties returns the input's properties.
func (in Input) Properties() (InputProperties, error) {
	p, err := native.Current().InputProperties(in.h)
	if err != nil {
		return InputProperties{}, err
	}
	return InputProperties{
		Name:        p.Name,
		DataType:    DataType(p.DataType),
		DimsCount:   p.DimsCount,
		ByteSize:    p.ByteSize,
		BufferCount: p.BufferCount,
	}, nil
}

// rawBuffer returns a borrowed view over one backing region after verifying
// its memory kind is host-accessible.
func (in Input) rawBuffer(index uint32) ([]byte, error) {
	data, memType, err := native.Current().InputBuffer(in.h, index)
	if err != nil {
		return nil, err
	}
	if mt := MemoryType(memType); !mt.hostAccessible() {
		return nil, fmt.Errorf("%w: input buffer %d resides in %s memory", ErrUnsupportedMemory, index, mt)
	}
	return data, nil
}

// Buffer returns the input's bytes as one contiguous value. A single-region
// input yields a zero-copy view aliasing the host's buffer; a fragmented
// input is copied region by region, in index order, into an owned buffer.
// Any region in unsupported memory fails the whole operation; no partial
// copy is returned.
func (in Input) Buffer() ([]byte, error) {
	props, err := in.Properties()
	if err != nil {
		return nil, err
	}
	if props.BufferCount == 1 {
		return in.rawBuffer(0)
	}
	buf := make([]byte, 0, props.ByteSize)
	for i := uint32(0); i < props.BufferCount; i++ {
		region, err := in.rawBuffer(i)
		if err != nil {
			return nil, err
		}
		buf = append(buf, region...)
	}
	return buf, nil
}

// Strings decodes the input as a BYTES tensor of length-prefixed strings.
func (in Input) Strings() ([]string, error) {
	buf, err := in.Buffer()
	if err != nil {
		return nil, err
	}
	return DecodeStrings(buf)
}

// FirstString returns the first string of a BYTES tensor.
func (in Input) FirstString() (string, error) {
	values, err := in.Strings()
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("input holds no string records")
	}
	return values[0], nil
}

// Uint64 reads the input as a single little-endian 64-bit value.
func (in Input) Uint64() (uint64, error) {
	buf, err := in.Buffer()
	if err != nil {
		return 0, err
	}
	if len(buf) != 8 {
		return 0, fmt.Errorf("expected 8 bytes for uint64 input, got %d", len(buf))
	}
	return binary.LittleEndian.Uint64(buf), nil
}
