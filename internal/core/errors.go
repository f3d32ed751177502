package core

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or invalid parameter detected before any network call
type ValidationError struct {
	Message string

	// ShowUsage asks the caller to print the add usage text along with the message
	ShowUsage bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InputFormatError reports an unusable tracking file or directory
type InputFormatError struct {
	Path    string
	Message string
}

func (e *InputFormatError) Error() string {
	return e.Message
}

// ExistenceCheckError reports that the server, a repository or a branch could not be confirmed
type ExistenceCheckError struct {
	Message string
	Err     error
}

func (e *ExistenceCheckError) Error() string {
	return e.Message
}

func (e *ExistenceCheckError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when the server rejects the credentials
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return "Authenticate Error. Please make sure user and password are correct."
}

// ServerProtocolError is returned when the server answers with an unexpected status or code
type ServerProtocolError struct {
	StatusCode int
	Code       string
	Body       string
	Message    string
}

func (e *ServerProtocolError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("Unexpected Error. status_code: %d, return text: %s", e.StatusCode, e.Body)
}

// ConnectivityError wraps an I/O failure while talking to the tracking server
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("Connect server error: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err stopped the pipeline before any network activity
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsAuthentication reports whether err is a credential rejection
func IsAuthentication(err error) bool {
	var aErr *AuthenticationError
	return errors.As(err, &aErr)
}

// IsConnectivity reports whether err is a transport failure
func IsConnectivity(err error) bool {
	var cErr *ConnectivityError
	return errors.As(err, &cErr)
}

// ShowUsage reports whether err asks for the usage text to be printed
func ShowUsage(err error) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.ShowUsage
	}

	return false
}
