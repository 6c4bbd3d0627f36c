package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Wrap with %w so callers can errors.Is against these.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrAIResponseParse   = errors.New("ai response not parseable")
	ErrAIService         = errors.New("ai service error")
	ErrJobNotFound       = errors.New("import job not found")
	ErrJobNotReady       = errors.New("import job not ready")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDatabase          = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// TruncateMessage bounds an error message before it is persisted on a job row.
func TruncateMessage(msg string, n int) string {
	if n <= 0 || len(msg) <= n {
		return msg
	}
	const ellipsis = "..."
	if n <= len(ellipsis) {
		return msg[:n]
	}
	return msg[:n-len(ellipsis)] + ellipsis
}

// gRPC error helpers for the service boundary.
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func FailedPreconditionError(message string) error {
	return status.Error(codes.FailedPrecondition, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

// StatusFromError maps the pipeline taxonomy onto gRPC codes for callers that
// surface job operations over RPC.
func StatusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrJobNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, ErrJobNotReady):
		return FailedPreconditionError(err.Error())
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrInvalidInput):
		return InvalidArgumentError(err.Error())
	default:
		return InternalError("import pipeline failure")
	}
}
