package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorCaller, "caller"},
		{ErrorProtocol, "protocol"},
		{ErrorTransport, "transport"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsCaller(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"parent required", ErrParentRequired, true},
		{"node id required", ErrNodeIDRequired, true},
		{"no points", ErrNoPoints, true},
		{"not connected", ErrNotConnected, false},
		{"plain error", fmt.Errorf("something broke"), false},
		{"classified caller", &ClassifiedError{Class: ErrorCaller, Err: fmt.Errorf("test")}, true},
		{"classified transport", &ClassifiedError{Class: ErrorTransport, Err: fmt.Errorf("test")}, false},
		{"wrapped sentinel", fmt.Errorf("outer: %w", ErrParentRequired), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCaller(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsProtocol(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"decode failed", ErrDecodeFailed, true},
		{"server message", Protocolf("Client", "GetNode", "NodesRequest decode error: %s", "no such node"), true},
		{"caller sentinel", ErrParentRequired, false},
		{"classified protocol", &ClassifiedError{Class: ErrorProtocol, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsProtocol(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"caller sentinel", ErrParentRequired, ErrorCaller},
		{"protocol wrap", WrapProtocol(fmt.Errorf("bad reply"), "Client", "GetNode", "decode"), ErrorProtocol},
		{"transport wrap", WrapTransport(fmt.Errorf("timeout"), "Client", "GetNode", "request"), ErrorTransport},
		{"unknown defaults to transport", fmt.Errorf("mystery"), ErrorTransport},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap_Format(t *testing.T) {
	base := fmt.Errorf("boom")
	err := Wrap(base, "Client", "GetNodeChildren", "request children")

	expected := "Client.GetNodeChildren: request children failed: boom"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should match base via errors.Is")
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if Wrap(nil, "C", "M", "a") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WrapCaller(nil, "C", "M", "a") != nil {
		t.Error("WrapCaller(nil) should return nil")
	}
	if WrapProtocol(nil, "C", "M", "a") != nil {
		t.Error("WrapProtocol(nil) should return nil")
	}
	if WrapTransport(nil, "C", "M", "a") != nil {
		t.Error("WrapTransport(nil) should return nil")
	}
}

func TestClassifiedError_Unwrap(t *testing.T) {
	base := ErrNotConnected
	err := WrapTransport(base, "Client", "SendNodePoints", "publish")

	var ce *ClassifiedError
	if !errors.As(err, &ce) {
		t.Fatal("expected ClassifiedError in chain")
	}
	if ce.Component != "Client" || ce.Operation != "SendNodePoints" {
		t.Errorf("unexpected component/operation: %s/%s", ce.Component, ce.Operation)
	}
	if !errors.Is(err, base) {
		t.Error("classification should preserve the error chain")
	}
}
