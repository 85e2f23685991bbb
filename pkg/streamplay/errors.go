// ABOUTME: Sentinel errors for the player session
// ABOUTME: Callers match these with errors.Is
package streamplay

import "errors"

var (
	// ErrInvalidConfiguration covers bad config values, unsupported bit
	// depths and fragments that do not split into whole samples
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidState is returned by every operation after Stop
	ErrInvalidState = errors.New("invalid state")

	// ErrDecodeFailure is carried by EventError when the decoder rejects a fragment
	ErrDecodeFailure = errors.New("decode failure")

	// ErrDeviceRejected is carried by EventError when the device refuses a unit
	ErrDeviceRejected = errors.New("device rejected unit")
)

// ErrUnknownListener is returned by Off for an ID that is not registered
var ErrUnknownListener = errors.New("unknown listener")
