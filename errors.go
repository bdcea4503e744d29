package triton

import "errors"

// Sentinel errors for boundary-contract violations. They are wrapped with
// context at the point of failure and matched with errors.Is.
var (
	// ErrTruncatedRecord reports a length-prefixed string record whose
	// declared length runs past the end of the buffer.
	ErrTruncatedRecord = errors.New("truncated length-prefixed record")

	// ErrUnsupportedMemory reports a buffer region residing in memory this
	// layer cannot read (anything other than CPU or pinned CPU).
	ErrUnsupportedMemory = errors.New("unsupported memory type")

	// ErrStateTypeMismatch reports attached model state read back as a
	// different type than was stored.
	ErrStateTypeMismatch = errors.New("model state type mismatch")

	// ErrResponseSent reports a second terminal send on a response.
	ErrResponseSent = errors.New("response already sent")
)
