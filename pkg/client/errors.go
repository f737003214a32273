package client

import (
	"errors"
	"fmt"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassNetwork represents failures before a response arrived
	// (DNS, connection, platform timeout, cancelled context).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassStatus represents any other non-2xx status.
	ErrorClassStatus ErrorClass = "status"

	// ErrorClassMalformed represents a 2xx response whose body is not a page.
	ErrorClassMalformed ErrorClass = "malformed"
)

// RequestError is returned by FetchPage for every failed page request.
type RequestError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("artist %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("artist %s error (status %d): %s",
			e.ErrorClass, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("artist %s error: %s: %v", e.ErrorClass, e.Message, e.Err)
	default:
		return fmt.Sprintf("artist %s error: %s", e.ErrorClass, e.Message)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// ClassOf returns the error class of err, or "" when err is not a RequestError.
func ClassOf(err error) ErrorClass {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ErrorClass
	}
	return ""
}

// StatusCodeOf returns the HTTP status carried by err, or 0 when there is none.
func StatusCodeOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// classifyStatus maps a non-2xx status code to its error class.
func classifyStatus(code int) ErrorClass {
	switch {
	case code >= 400 && code < 500:
		return ErrorClassClient
	case code >= 500:
		return ErrorClassServer
	default:
		return ErrorClassStatus
	}
}
