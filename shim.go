package triton

import (
	"errors"

	"github.com/openinfer/triton-go/internal/native"
)

// The dispatch functions below back the exported native entry points. They
// are the single translation point between hook outcomes and the host's
// error-return convention: nil becomes a null error handle, anything else
// becomes a freshly allocated internal-category error object carrying the
// failure text. No other layer constructs native error objects.

var errNoBackend = errors.New("no backend registered: call triton.Register before the host loads the library")

// outcome converts a hook result to the native error-return convention.
func outcome(err error) native.Handle {
	if err == nil {
		return nil
	}
	return native.Current().ErrorNew(native.ErrorInternal, err.Error())
}

func dispatchInitialize() native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	return outcome(b.Initialize())
}

func dispatchFinalize() native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	return outcome(b.Finalize())
}

func dispatchModelInitialize(model native.Handle) native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	return outcome(b.ModelInitialize(modelFromHandle(model)))
}

func dispatchModelFinalize(model native.Handle) native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	return outcome(b.ModelFinalize(modelFromHandle(model)))
}

func dispatchInstanceInitialize(native.Handle) native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	return outcome(b.ModelInstanceInitialize())
}

func dispatchInstanceFinalize(native.Handle) native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	return outcome(b.ModelInstanceFinalize())
}

// dispatchInstanceExecute resolves the owning model from the instance before
// invoking the hook. If that lookup itself fails, the host's error object is
// returned as-is: it was allocated by a nested native call and must not be
// wrapped in a second one.
func dispatchInstanceExecute(instance native.Handle, requests []native.Handle) native.Handle {
	b := currentBackend()
	if b == nil {
		return outcome(errNoBackend)
	}
	model, errHandle := native.Current().InstanceModel(instance)
	if errHandle != nil {
		return errHandle
	}
	wrapped := make([]Request, len(requests))
	for i, h := range requests {
		wrapped[i] = requestFromHandle(h)
	}
	return outcome(b.ModelInstanceExecute(modelFromHandle(model), wrapped))
}
