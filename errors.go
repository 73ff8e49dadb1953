package xfyun

import (
	"errors"
	"fmt"
)

type ErrorStatus string

const (
	ErrorStatusInvalidCredentials ErrorStatus = "invalid_credentials"
	ErrorStatusTextTooLong        ErrorStatus = "text_too_long"
	ErrorStatusEmptyText          ErrorStatus = "empty_text"
	ErrorStatusAPIError           ErrorStatus = "api_error"
	ErrorStatusAuthError          ErrorStatus = "auth_error"
	ErrorStatusBadRequest         ErrorStatus = "bad_request"
	ErrorStatusQuotaExceeded      ErrorStatus = "quota_exceeded"
	ErrorStatusNetworkError       ErrorStatus = "network_error"
	ErrorStatusWebSocketError     ErrorStatus = "websocket_error"
	ErrorStatusConnectionClosed   ErrorStatus = "connection_closed"
	ErrorStatusProtocolError      ErrorStatus = "protocol_error"
	ErrorStatusCanceled           ErrorStatus = "canceled"
	ErrorStatusInvalidState       ErrorStatus = "invalid_state"
	ErrorStatusInvalidOptions     ErrorStatus = "invalid_options"
)

// Error is returned by every operation in this package. Errors reported by
// the server carry the session id and the numeric code.
type Error struct {
	Status  ErrorStatus
	Message string
	Code    *int
	SID     string
	Cause   error
}

func (e *Error) Error() string {
	if e.Code != nil {
		if e.SID != "" {
			return fmt.Sprintf("xfyun: %s (code=%d, sid=%s): %s", e.Status, *e.Code, e.SID, e.Message)
		}
		return fmt.Sprintf("xfyun: %s (code=%d): %s", e.Status, *e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("xfyun: %s: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("xfyun: %s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(status ErrorStatus, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
	}
}

func NewErrorWithCode(status ErrorStatus, message string, code int) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Code:    &code,
	}
}

func NewErrorWithCause(status ErrorStatus, message string, cause error) *Error {
	return &Error{
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

func IsErrorStatus(err error, status ErrorStatus) bool {
	var xfErr *Error
	if errors.As(err, &xfErr) {
		return xfErr.Status == status
	}
	return false
}

// IsRemoteError reports whether err carries a code returned by the server.
func IsRemoteError(err error) bool {
	var xfErr *Error
	return errors.As(err, &xfErr) && xfErr.Code != nil
}

var (
	ErrEmptyText    = NewError(ErrorStatusEmptyText, "text is empty")
	ErrStreamClosed = NewError(ErrorStatusInvalidState, "stream is closed")
)

// MapAPIError maps a server code to a typed ErrorStatus.
func MapAPIError(code int, message, sid string) *Error {
	var status ErrorStatus
	switch code {
	case 11200, 10313:
		status = ErrorStatusAuthError
	case 11201:
		status = ErrorStatusQuotaExceeded
	case 10005, 10006, 10007, 10139, 10160, 10161, 10163:
		status = ErrorStatusBadRequest
	case 10019, 10114, 10200, 10222:
		status = ErrorStatusNetworkError
	default:
		status = ErrorStatusAPIError
	}
	err := NewErrorWithCode(status, message, code)
	err.SID = sid
	return err
}
