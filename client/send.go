package client

import (
	"context"
	"time"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/point"
)

// SendOptions configures SendNodePoints and SendEdgePoints
type SendOptions struct {
	// Ack waits for the platform to confirm the write. When false the
	// points are additionally published fire-and-forget first; the
	// confirming request is still issued either way (see the package
	// notes on the inherited double-send).
	Ack bool
	// Timeout overrides the client's default request timeout
	Timeout time.Duration
}

// SendNodePoints sends points describing nodeID's own state
func (c *Client) SendNodePoints(ctx context.Context, nodeID string, points point.Points, o SendOptions) error {
	if nodeID == "" {
		return errors.WrapCaller(
			errors.ErrNodeIDRequired, "Client", "SendNodePoints", "node id required")
	}
	return c.sendPoints(ctx, "SendNodePoints", SubjectNodePoints(nodeID), nodeID, points, o)
}

// SendEdgePoints sends points describing the edge between nodeID and
// parentID, notably tombstone points that delete or undelete the
// relation.
func (c *Client) SendEdgePoints(ctx context.Context, nodeID, parentID string, points point.Points, o SendOptions) error {
	if nodeID == "" {
		return errors.WrapCaller(
			errors.ErrNodeIDRequired, "Client", "SendEdgePoints", "node id required")
	}
	if parentID == "" {
		return errors.WrapCaller(
			errors.ErrParentRequired, "Client", "SendEdgePoints", "parent id required")
	}
	return c.sendPoints(ctx, "SendEdgePoints", SubjectEdgePoints(nodeID, parentID), nodeID, points, o)
}

func (c *Client) sendPoints(ctx context.Context, op, subject, nodeID string, points point.Points, o SendOptions) error {
	if len(points) == 0 {
		return errors.WrapCaller(errors.ErrNoPoints, "Client", op, "empty batch")
	}

	payload, err := points.Encode()
	if err != nil {
		return errors.WrapCaller(err, "Client", op, "encode points")
	}

	if !o.Ack {
		if err := c.tr.Publish(subject, payload); err != nil {
			return errors.WrapTransport(err, "Client", op, "publish "+subject)
		}
	}

	msg, err := c.request(ctx, op, subject, payload, o.Timeout)
	if err != nil {
		return err
	}

	// The platform replies with an empty payload on success and an
	// error string otherwise.
	if len(msg.Data) > 0 {
		c.metrics.IncRequestError(op)
		return errors.Protocolf("Client", op,
			"error sending points for node '%s': %s", nodeID, string(msg.Data))
	}

	c.metrics.AddPointsSent(len(points))
	return nil
}
