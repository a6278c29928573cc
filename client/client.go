// Package client implements the node/edge/point protocol over NATS:
// tree retrieval with per-call memoization, point mutation, and
// streaming telemetry subscriptions.
//
// The client speaks the nodes.* generation of the protocol subjects:
//
//	nodes.<parent>.<id>     fetch a node relative to one parent
//	nodes.<parentID>.all    fetch the children of a parent
//	p.<nodeID>              node points (send and subscribe)
//	p.<nodeID>.<parentID>   edge points
//	node.<id>.msg           user messages
//	node.<id>.not           notifications
//
// The older node.<id> / node.<id>.children generation is wire
// incompatible and not supported.
package client

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/metric"
	"github.com/c360/nodewire/natsclient"
)

// DefaultRequestTimeout bounds request/reply round trips when neither
// the per-call options nor the context supply a tighter deadline.
const DefaultRequestTimeout = 20 * time.Second

// Transport is the subset of the NATS connection the protocol client
// needs. Both *nats.Conn and *natsclient.Client satisfy it.
type Transport interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Client is the protocol client. It holds a transport handle and is
// safe for concurrent use; every operation is a delegating method over
// the shared connection.
type Client struct {
	tr      Transport
	timeout time.Duration
	logger  natsclient.Logger
	metrics *metric.ClientMetrics
}

// Option configures a Client
type Option func(*Client) error

// WithRequestTimeout sets the default request/reply timeout
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.timeout = d
		return nil
	}
}

// WithLogger sets a custom logger for the client
func WithLogger(logger natsclient.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithMetrics attaches a metrics instrument set. Nil leaves
// instrumentation disabled.
func WithMetrics(m *metric.ClientMetrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// NewClient creates a protocol client over an established transport
func NewClient(tr Transport, opts ...Option) (*Client, error) {
	if tr == nil {
		return nil, errors.WrapCaller(
			errors.ErrNotConnected, "Client", "NewClient", "nil transport")
	}

	c := &Client{
		tr:      tr,
		timeout: DefaultRequestTimeout,
		logger:  natsclient.NoopLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapCaller(err, "Client", "NewClient", "apply option")
		}
	}

	return c, nil
}

// requestTimeout resolves the effective timeout for one round trip:
// the per-call override, tightened by the context deadline if closer.
func (c *Client) requestTimeout(ctx context.Context, override time.Duration) time.Duration {
	timeout := c.timeout
	if override > 0 {
		timeout = override
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// request performs one counted request/reply round trip
func (c *Client) request(ctx context.Context, op, subject string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransport(err, "Client", op, "context done")
	}

	c.metrics.IncRequest(op)
	msg, err := c.tr.Request(subject, data, c.requestTimeout(ctx, timeout))
	if err != nil {
		c.metrics.IncRequestError(op)
		return nil, errors.WrapTransport(err, "Client", op, "request "+subject)
	}
	return msg, nil
}
