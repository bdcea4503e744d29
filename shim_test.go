package triton

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinfer/triton-go/internal/native"
	"github.com/openinfer/triton-go/internal/native/nativetest"
)

// stubBackend lets each test script the hooks it cares about.
type stubBackend struct {
	Base
	initialize      func() error
	modelInitialize func(Model) error
	execute         func(Model, []Request) error
}

func (s *stubBackend) Initialize() error {
	if s.initialize != nil {
		return s.initialize()
	}
	return nil
}

func (s *stubBackend) ModelInitialize(m Model) error {
	if s.modelInitialize != nil {
		return s.modelInitialize(m)
	}
	return nil
}

func (s *stubBackend) ModelInstanceExecute(m Model, requests []Request) error {
	if s.execute != nil {
		return s.execute(m, requests)
	}
	return nil
}

func installBackend(t *testing.T, b Backend) {
	t.Helper()
	Register(b)
	t.Cleanup(func() { Register(nil) })
}

func TestDispatchSuccessReturnsNullHandle(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	installBackend(t, &stubBackend{})

	model := host.NewModel("m", 1, "/models/m", "{}")
	instance := host.NewInstance(model)

	assert.Nil(t, dispatchInitialize())
	assert.Nil(t, dispatchFinalize())
	assert.Nil(t, dispatchModelInitialize(model.Handle()))
	assert.Nil(t, dispatchModelFinalize(model.Handle()))
	assert.Nil(t, dispatchInstanceInitialize(instance.Handle()))
	assert.Nil(t, dispatchInstanceFinalize(instance.Handle()))
	assert.Nil(t, dispatchInstanceExecute(instance.Handle(), nil))
	assert.Empty(t, host.Errors)
}

func TestDispatchFailureCarriesMessage(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	installBackend(t, &stubBackend{
		initialize: func() error { return errors.New("weights not found") },
	})

	errHandle := dispatchInitialize()
	require.NotNil(t, errHandle)
	assert.Equal(t, native.ErrorInternal, host.ErrorCode(errHandle))
	assert.Contains(t, host.ErrorMessage(errHandle), "weights not found")
}

func TestDispatchModelHookReceivesModel(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	var gotName string
	installBackend(t, &stubBackend{
		modelInitialize: func(m Model) error {
			name, err := m.Name()
			gotName = name
			return err
		},
	})

	model := host.NewModel("bert", 2, "/models/bert", "{}")
	require.Nil(t, dispatchModelInitialize(model.Handle()))
	assert.Equal(t, "bert", gotName)
}

func TestDispatchExecuteWrapsRequests(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	var gotIDs []string
	installBackend(t, &stubBackend{
		execute: func(m Model, requests []Request) error {
			for _, r := range requests {
				id, err := r.ID()
				if err != nil {
					return err
				}
				gotIDs = append(gotIDs, id)
			}
			return nil
		},
	})

	model := host.NewModel("m", 1, "/models/m", "{}")
	instance := host.NewInstance(model)
	reqs := []native.Handle{
		host.NewRequest("a").Handle(),
		host.NewRequest("b").Handle(),
	}

	require.Nil(t, dispatchInstanceExecute(instance.Handle(), reqs))
	assert.Equal(t, []string{"a", "b"}, gotIDs)
}

func TestDispatchExecuteLookupFailurePassesErrorThrough(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	executed := false
	installBackend(t, &stubBackend{
		execute: func(Model, []Request) error {
			executed = true
			return nil
		},
	})

	model := host.NewModel("m", 1, "/models/m", "{}")
	instance := host.NewInstance(model)
	lookupErr := host.NewError(native.ErrorUnavailable, "instance lost")
	instance.LookupErr = lookupErr

	got := dispatchInstanceExecute(instance.Handle(), nil)
	// The host's own error object comes back untouched: same handle, no
	// second error allocated around it.
	assert.Equal(t, lookupErr, got)
	assert.False(t, executed)
	assert.Len(t, host.Errors, 1)
}

func TestDispatchWithoutRegisteredBackend(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	Register(nil)

	errHandle := dispatchInitialize()
	require.NotNil(t, errHandle)
	assert.Contains(t, host.ErrorMessage(errHandle), "no backend registered")
}

// echoTestBackend mirrors the example backend closely enough to drive the
// whole adapter end to end: wrappers in, codec, outputs, terminal send.
type echoTestBackend struct {
	Base
}

func (echoTestBackend) ModelInstanceExecute(model Model, requests []Request) error {
	for _, request := range requests {
		response, err := NewResponse(request)
		if err != nil {
			return err
		}
		input, err := request.Input("prompt")
		if err != nil {
			response.Close()
			return err
		}
		prompt, err := input.FirstString()
		if err != nil {
			response.Close()
			return err
		}
		output, err := response.Output("output", DataTypeBytes, []int64{1})
		if err != nil {
			response.Close()
			return err
		}
		encoded := EncodeString("you said: " + prompt)
		buf, err := output.Buffer(len(encoded))
		if err != nil {
			response.Close()
			return err
		}
		copy(buf, encoded)
		if err := response.Send(); err != nil {
			response.Close()
			return err
		}
	}
	return nil
}

func TestExecuteEndToEnd(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	installBackend(t, echoTestBackend{})

	model := host.NewModel("echo", 1, "/models/echo", "{}")
	instance := host.NewInstance(model)

	req := host.NewRequest("r1")
	req.AddInput(host.NewInput("prompt", uint32(DataTypeBytes)).
		AddRegion(EncodeString("hello"), nativetest.MemoryCPU))

	require.Nil(t, dispatchInstanceExecute(instance.Handle(), []native.Handle{req.Handle()}))

	require.Len(t, host.Responses, 1)
	resp := host.Responses[0]
	assert.True(t, resp.Sent)
	require.Len(t, resp.Outputs, 1)

	values, err := DecodeStrings(resp.Outputs[0].Buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"you said: hello"}, values)
}

func TestExecuteConcurrentInstancesShareModelState(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)

	installBackend(t, &stubBackend{
		execute: func(m Model, requests []Request) error {
			state, ok, err := ModelData[*testState](m)
			if err != nil {
				return err
			}
			if !ok || state.Threshold != 0.25 {
				return fmt.Errorf("unexpected state: %+v", state)
			}
			return nil
		},
	})

	fm := host.NewModel("shared", 1, "/models/shared", "{}")
	model := modelFromHandle(fm.Handle())
	require.NoError(t, model.SetData(&testState{Threshold: 0.25}))

	first := host.NewInstance(fm)
	second := host.NewInstance(fm)

	var wg sync.WaitGroup
	for _, inst := range []*nativetest.Instance{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.Nil(t, dispatchInstanceExecute(inst.Handle(), nil))
			}
		}()
	}
	wg.Wait()
	assert.Empty(t, host.Errors)
}
