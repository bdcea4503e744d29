package triton

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime/cgo"
	"strconv"

	"github.com/openinfer/triton-go/internal/native"
)

// Model is a borrowed view over a loaded model version. It is valid for the
// duration of the hook invocation it was passed to and must not be retained
// past it.
type Model struct {
	h native.Handle
}

func modelFromHandle(h native.Handle) Model { return Model{h: h} }

// Name returns the model's name.
func (m Model) Name() (string, error) {
	return native.Current().ModelName(m.h)
}

// Version returns the model's version number.
func (m Model) Version() (uint64, error) {
	return native.Current().ModelVersion(m.h)
}

// Repository returns the location of the model's artifact repository.
func (m Model) Repository() (string, error) {
	return native.Current().ModelRepository(m.h)
}

// Path composes the on-disk path of a named artifact inside the model's
// versioned repository directory.
func (m Model) Path(filename string) (string, error) {
	location, err := m.Repository()
	if err != nil {
		return "", err
	}
	version, err := m.Version()
	if err != nil {
		return "", err
	}
	return filepath.Join(location, strconv.FormatUint(version, 10), filename), nil
}

// LoadFile reads the named artifact fully into memory.
func (m Model) LoadFile(filename string) ([]byte, error) {
	path, err := m.Path(filename)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Config returns the model's declared configuration. The caller must
// release it with Close exactly once.
func (m Model) Config() (*ModelConfig, error) {
	h, err := native.Current().ModelConfig(m.h, 1)
	if err != nil {
		return nil, err
	}
	return &ModelConfig{h: h}, nil
}

// SetData attaches an opaque state object to the model, releasing any
// previously attached one first. The state persists across instance
// executions until ModelFinalize; synchronization of access to it is the
// backend author's responsibility.
func (m Model) SetData(data any) error {
	if _, err := m.DropData(); err != nil {
		return err
	}
	h := cgo.NewHandle(data)
	if err := native.Current().ModelSetState(m.h, uintptr(h)); err != nil {
		h.Delete()
		return err
	}
	return nil
}

// DropData detaches the attached state object and returns it, or (nil, nil)
// if none is attached. This is the only path that releases the state, and
// it runs at most once per attached object: the native slot is cleared
// before the value is handed back.
func (m Model) DropData() (any, error) {
	api := native.Current()
	token, err := api.ModelState(m.h)
	if err != nil {
		return nil, err
	}
	if token == 0 {
		return nil, nil
	}
	if err := api.ModelSetState(m.h, 0); err != nil {
		return nil, err
	}
	h := cgo.Handle(token)
	data := h.Value()
	h.Delete()
	return data, nil
}

// ModelData returns a reference to the model's attached state. The boolean
// reports whether state is attached; state of a different type than D is an
// ErrStateTypeMismatch, never a silent cast.
func ModelData[D any](m Model) (D, bool, error) {
	var zero D
	token, err := native.Current().ModelState(m.h)
	if err != nil {
		return zero, false, err
	}
	if token == 0 {
		return zero, false, nil
	}
	data, ok := cgo.Handle(token).Value().(D)
	if !ok {
		return zero, false, ErrStateTypeMismatch
	}
	return data, true, nil
}

// ModelConfig is a borrowed serialized-message handle holding the model's
// declared configuration. It exposes only a JSON text view.
type ModelConfig struct {
	h        native.Handle
	released bool
}

// JSON returns the configuration serialized as JSON text.
func (c *ModelConfig) JSON() (string, error) {
	return native.Current().MessageSerializeToJSON(c.h)
}

// Close releases the underlying message exactly once. A release failure is
// reported through the log side-channel rather than returned: Close runs on
// teardown paths where no caller can observe an error.
func (c *ModelConfig) Close() {
	if c.released {
		return
	}
	c.released = true
	if err := native.Current().MessageDelete(c.h); err != nil {
		slog.Error("failed to release model config", "error", err)
	}
}
