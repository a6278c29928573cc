package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorCaller represents invalid arguments caught before any network call
	ErrorCaller ErrorClass = iota
	// ErrorProtocol represents an error signaled by the server inside a reply
	ErrorProtocol
	// ErrorTransport represents failures from the underlying connection
	ErrorTransport
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorCaller:
		return "caller"
	case ErrorProtocol:
		return "protocol"
	case ErrorTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Argument validation errors
	ErrParentRequired = errors.New("parent node ID must be specified")
	ErrNodeIDRequired = errors.New("node ID must be specified")
	ErrNoPoints       = errors.New("no points to send")

	// Connection errors
	ErrNotConnected      = errors.New("not connected to NATS")
	ErrConnectionTimeout = errors.New("connection timeout")

	// Protocol errors
	ErrDecodeFailed = errors.New("reply decode failed")
	ErrStreamClosed = errors.New("subscription stream closed")
)

// ClassifiedError wraps an error with its classification and the
// component/operation that produced it.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsCaller checks if an error is a caller error: invalid arguments
// rejected before any network call. Retrying the same call cannot
// succeed.
func IsCaller(err error) bool {
	return hasClass(err, ErrorCaller) ||
		errors.Is(err, ErrParentRequired) ||
		errors.Is(err, ErrNodeIDRequired) ||
		errors.Is(err, ErrNoPoints)
}

// IsProtocol checks if an error was signaled by the server inside an
// otherwise-successful reply.
func IsProtocol(err error) bool {
	return hasClass(err, ErrorProtocol) || errors.Is(err, ErrDecodeFailed)
}

// IsTransport checks if an error came from the underlying connection.
func IsTransport(err error) bool {
	return hasClass(err, ErrorTransport) ||
		errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrConnectionTimeout)
}

func hasClass(err error, class ErrorClass) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == class
	}
	return false
}

// Classify returns the error class for an error. Unclassified errors
// default to transport, since anything unexpected in this client comes
// out of the connection.
func Classify(err error) ErrorClass {
	if IsCaller(err) {
		return ErrorCaller
	}
	if IsProtocol(err) {
		return ErrorProtocol
	}
	return ErrorTransport
}

func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapCaller wraps an error as a caller error with context
func WrapCaller(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorCaller, wrappedErr, component, method, wrappedErr.Error())
}

// WrapProtocol wraps an error as a protocol error with context
func WrapProtocol(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorProtocol, wrappedErr, component, method, wrappedErr.Error())
}

// WrapTransport wraps an error as a transport error with context
func WrapTransport(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransport, wrappedErr, component, method, wrappedErr.Error())
}

// Protocolf creates a new protocol error from a server-supplied message.
func Protocolf(component, method, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return newClassified(ErrorProtocol, err, component, method, err.Error())
}
