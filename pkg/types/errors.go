package types

import "errors"

// Sentinel errors shared by the transport and the client.
var (
	// ErrServerNotFound means the server executable is not on PATH.
	ErrServerNotFound = errors.New("language server not found")

	// ErrProcessSpawnFailed means the OS refused to start the server process.
	ErrProcessSpawnFailed = errors.New("failed to spawn language server")

	// ErrHandshakeFailed means the initialize round trip did not complete.
	ErrHandshakeFailed = errors.New("language server handshake failed")

	// ErrServerNotRunning means the client was never started or was stopped.
	ErrServerNotRunning = errors.New("language server not running")

	// ErrAlreadyStarted means Start was called on a running client.
	ErrAlreadyStarted = errors.New("language server already started")

	// ErrRequestTimeout means no matching response arrived before the deadline.
	ErrRequestTimeout = errors.New("language server request timed out")

	// ErrInvalidResponse means a frame or response could not be accepted.
	ErrInvalidResponse = errors.New("invalid language server response")

	// ErrIO means reading from or writing to the server pipes failed.
	ErrIO = errors.New("language server i/o error")
)

// User-facing messages for the canonical failure modes.
const (
	MessageNoReferences   = "no references found"
	MessageServerMissing  = "language server not available"
	MessageRequestTimeout = "request timed out"
)

// UserMessage maps an error from a query to the message shown to the user.
// A nil error maps to MessageNoReferences, which is what an empty result means.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return MessageNoReferences
	case errors.Is(err, ErrRequestTimeout):
		return MessageRequestTimeout
	case errors.Is(err, ErrServerNotFound),
		errors.Is(err, ErrProcessSpawnFailed),
		errors.Is(err, ErrHandshakeFailed),
		errors.Is(err, ErrServerNotRunning):
		return MessageServerMissing
	default:
		return err.Error()
	}
}
