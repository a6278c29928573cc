package client

import (
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/message"
	"github.com/c360/nodewire/point"
)

// streamBuffer bounds the hand-off channel between the NATS dispatch
// goroutine and the decode goroutine. Anything beyond this rides on
// the subscription's own pending limits; a slow consumer eventually
// hits the transport's slow-consumer behavior, which this layer does
// not mask.
const streamBuffer = 16

// stream is the shared decode pipeline behind the typed stream kinds.
// One goroutine decodes transport messages in arrival order and
// forwards the results; a message that fails to decode is skipped and
// recorded via Err.
type stream[T any] struct {
	sub  *nats.Subscription
	ch   chan T
	done chan struct{}

	mu   sync.Mutex
	err  error
	once sync.Once
}

// C returns the receive channel. It is closed when the stream is
// closed; it never closes on its own.
func (s *stream[T]) C() <-chan T {
	return s.ch
}

// Err returns the last decode error, if any. A decode error does not
// terminate the stream.
func (s *stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *stream[T]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Close unsubscribes and closes the receive channel. Safe to call more
// than once.
func (s *stream[T]) Close() error {
	var err error
	s.once.Do(func() {
		err = s.sub.Unsubscribe()
		close(s.done)
	})
	return err
}

// openStream subscribes to subject and starts the decode goroutine.
// decode maps one transport message to zero or more values.
func openStream[T any](c *Client, op, subject, kind string, decode func([]byte) ([]T, error)) (*stream[T], error) {
	s := &stream[T]{
		ch:   make(chan T, streamBuffer),
		done: make(chan struct{}),
	}

	msgCh := make(chan *nats.Msg, streamBuffer)

	sub, err := c.tr.Subscribe(subject, func(m *nats.Msg) {
		select {
		case msgCh <- m:
		case <-s.done:
		}
	})
	if err != nil {
		return nil, errors.WrapTransport(err, "Client", op, "subscribe "+subject)
	}
	s.sub = sub

	go func() {
		defer close(s.ch)
		for {
			select {
			case <-s.done:
				return
			case m := <-msgCh:
				values, err := decode(m.Data)
				if err != nil {
					s.setErr(err)
					c.logger.Errorf("%s: dropping undecodable message on %s: %v", op, subject, err)
					continue
				}
				for _, v := range values {
					c.metrics.IncStreamMessage(kind)
					select {
					case s.ch <- v:
					case <-s.done:
						return
					}
				}
			}
		}
	}()

	return s, nil
}

// PointStream is a live sequence of points for one node
type PointStream struct {
	*stream[point.Point]
}

// MessageStream is a live sequence of user messages for one node
type MessageStream struct {
	*stream[message.Message]
}

// NotificationStream is a live sequence of notifications for one node
type NotificationStream struct {
	*stream[message.Notification]
}

// SubscribePoints streams the points published for nodeID, decoded in
// arrival order. The stream never terminates on its own; the caller
// must Close it.
func (c *Client) SubscribePoints(nodeID string) (*PointStream, error) {
	if nodeID == "" {
		return nil, errors.WrapCaller(
			errors.ErrNodeIDRequired, "Client", "SubscribePoints", "node id required")
	}

	s, err := openStream(c, "SubscribePoints", SubjectNodePoints(nodeID), "points",
		func(data []byte) ([]point.Point, error) {
			pts, err := point.Decode(data)
			return pts, err
		})
	if err != nil {
		return nil, err
	}
	return &PointStream{stream: s}, nil
}

// SubscribeMessages streams the user messages addressed through nodeID
func (c *Client) SubscribeMessages(nodeID string) (*MessageStream, error) {
	if nodeID == "" {
		return nil, errors.WrapCaller(
			errors.ErrNodeIDRequired, "Client", "SubscribeMessages", "node id required")
	}

	s, err := openStream(c, "SubscribeMessages", SubjectNodeMessages(nodeID), "messages",
		func(data []byte) ([]message.Message, error) {
			m, err := message.DecodeMessage(data)
			if err != nil {
				return nil, err
			}
			return []message.Message{m}, nil
		})
	if err != nil {
		return nil, err
	}
	return &MessageStream{stream: s}, nil
}

// SubscribeNotifications streams the notifications raised by nodeID
func (c *Client) SubscribeNotifications(nodeID string) (*NotificationStream, error) {
	if nodeID == "" {
		return nil, errors.WrapCaller(
			errors.ErrNodeIDRequired, "Client", "SubscribeNotifications", "node id required")
	}

	s, err := openStream(c, "SubscribeNotifications", SubjectNodeNotifications(nodeID), "notifications",
		func(data []byte) ([]message.Notification, error) {
			n, err := message.DecodeNotification(data)
			if err != nil {
				return nil, err
			}
			return []message.Notification{n}, nil
		})
	if err != nil {
		return nil, err
	}
	return &NotificationStream{stream: s}, nil
}
