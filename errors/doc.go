// Package errors provides standardized error handling for the nodewire
// protocol client.
//
// # Error Classification
//
// Every failure a protocol operation can produce falls into one of
// three classes:
//
//   - Caller: invalid arguments caught before any network call (for
//     example a missing or placeholder parent id passed to a
//     children fetch). Never retried.
//   - Protocol: the server answered, but the reply envelope carried an
//     error field, or a send reply contained error text. Not retried
//     by this layer.
//   - Transport: failures from the underlying NATS connection
//     (timeout, disconnect). Propagated unchanged; this layer adds no
//     retry logic of its own: traversal cache coherency is not
//     defined under partial-failure retry within one call, so retry
//     belongs to the caller.
//
// The classification integrates with Go's standard error handling:
// errors.Is, errors.As, and wrapping chains all work as expected.
//
// # Wrapping Pattern
//
// All wrapping follows the format "component.method: action failed: %w":
//
//	if err := c.transport.Publish(subject, payload); err != nil {
//	    return errors.WrapTransport(err, "Client", "SendNodePoints", "publish points")
//	}
//
// Three wrapper functions set classification while wrapping:
//
//	errors.WrapCaller(err, "Client", "GetNodeChildren", "validate parent")
//	errors.WrapProtocol(err, "Client", "GetNode", "decode reply")
//	errors.WrapTransport(err, "Client", "GetNode", "request")
//
// Check classification at the call site:
//
//	if errors.IsCaller(err) {
//	    // fix the arguments; retrying the same call cannot succeed
//	}
package errors
