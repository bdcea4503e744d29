package triton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinfer/triton-go/internal/native"
	"github.com/openinfer/triton-go/internal/native/nativetest"
)

func newTestResponse(t *testing.T, host *nativetest.Host) *Response {
	t.Helper()
	req := requestFromHandle(host.NewRequest("").Handle())
	resp, err := NewResponse(req)
	require.NoError(t, err)
	return resp
}

func TestResponseOutputAndSend(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	resp := newTestResponse(t, host)

	out, err := resp.Output("output", DataTypeBytes, []int64{1})
	require.NoError(t, err)

	payload := EncodeString("you said: hi")
	buf, err := out.Buffer(len(payload))
	require.NoError(t, err)
	require.Len(t, buf, len(payload))
	copy(buf, payload)

	require.NoError(t, resp.Send())

	require.Len(t, host.Responses, 1)
	fr := host.Responses[0]
	assert.True(t, fr.Sent)
	assert.Equal(t, native.ResponseCompleteFinal, fr.SentFlags)
	require.Len(t, fr.Outputs, 1)
	assert.Equal(t, "output", fr.Outputs[0].Name)
	assert.Equal(t, uint32(DataTypeBytes), fr.Outputs[0].DataType)
	assert.Equal(t, []int64{1}, fr.Outputs[0].Shape)
	// The plugin fills host-owned memory: the bytes written through the
	// returned view are the bytes the host sees.
	assert.Equal(t, payload, fr.Outputs[0].Buf)
}

func TestResponseDoubleSend(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	resp := newTestResponse(t, host)

	require.NoError(t, resp.Send())
	err := resp.Send()
	require.ErrorIs(t, err, ErrResponseSent)
	assert.Equal(t, 1, host.Responses[0].SendCount)
}

func TestResponseSendFailure(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	resp := newTestResponse(t, host)
	host.Responses[0].FailSend = true

	err := resp.Send()
	require.Error(t, err)

	// A failed send is not a terminal send; Close still releases the
	// response.
	resp.Close()
	assert.Equal(t, 1, host.Responses[0].DeleteCount)
}

func TestResponseCloseWithoutSendDeletesOnce(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	resp := newTestResponse(t, host)

	resp.Close()
	resp.Close()
	fr := host.Responses[0]
	assert.False(t, fr.Sent)
	assert.Equal(t, 1, fr.DeleteCount)
}

func TestResponseCloseAfterSendIsNoop(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	resp := newTestResponse(t, host)

	require.NoError(t, resp.Send())
	resp.Close()
	assert.Equal(t, 0, host.Responses[0].DeleteCount)
}

func TestResponseCloseFailureIsSwallowed(t *testing.T) {
	host := nativetest.NewHost()
	host.Install(t)
	resp := newTestResponse(t, host)
	host.Responses[0].FailDelete = true

	// The discard is best-effort; the failure goes to the log side-channel.
	resp.Close()
	assert.Equal(t, 1, host.Responses[0].DeleteCount)
}
