package mhihvac

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSessionCookie is returned when the controller accepts the
	// credentials but the redirect carries no Set-Cookie header.
	ErrNoSessionCookie = errors.New("login did not return a session cookie")

	// ErrSessionNotInitialized is returned when an operation is attempted
	// after the client's transport has been released.
	ErrSessionNotInitialized = errors.New("http client is not initialized")

	// errSessionExpired is the internal signal that the controller rejected
	// the presented cookie. It never escapes the retry wrapper.
	errSessionExpired = errors.New("session expired")
)

// LoginFailedError is returned when the login endpoint answers with
// anything other than the expected redirect.
type LoginFailedError struct {
	Status int
}

func (e *LoginFailedError) Error() string {
	return fmt.Sprintf("login failed with status %d", e.Status)
}

// APICallFailedError is terminal: either the controller answered a command
// with a non-200 status, or the re-authentication budget ran out.
type APICallFailedError struct {
	Status int
	Reason string
	cause  error
}

func (e *APICallFailedError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("command failed with HTTP %d", e.Status)
	}
	return e.Reason
}

func (e *APICallFailedError) Unwrap() error {
	return e.cause
}
