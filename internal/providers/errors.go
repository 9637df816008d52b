package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrorClass groups upstream failures by cause.
type ErrorClass string

const (
	ErrorClassClient    ErrorClass = "client"
	ErrorClassServer    ErrorClass = "server"
	ErrorClassRateLimit ErrorClass = "rate_limit"
	ErrorClassAuth      ErrorClass = "auth"
	ErrorClassNetwork   ErrorClass = "network"
	ErrorClassTimeout   ErrorClass = "timeout"
	ErrorClassDecode    ErrorClass = "decode"
)

// UpstreamError reports a failed provider call. Its message may include
// upstream detail and must not be shown to end users as is.
type UpstreamError struct {
	Operation  Operation
	StatusCode int
	Class      ErrorClass
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream %s error (status %d): %v", e.Operation, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: upstream %s error: %v", e.Operation, e.Class, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(op Operation, status int, class ErrorClass, err error) *UpstreamError {
	return &UpstreamError{
		Operation:  op,
		StatusCode: status,
		Class:      class,
		Err:        err,
	}
}

func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorClassAuth
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status == http.StatusGatewayTimeout:
		return ErrorClassTimeout
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

func classifyTransportError(err error) ErrorClass {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return ErrorClassAuth
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}
	return ErrorClassNetwork
}
