// Package message defines the user-message and notification envelopes
// streamed on node.<id>.msg and node.<id>.not subjects.
//
// A Notification is raised by a node (a rule firing, a device going
// offline); the platform resolves it against user preferences and
// fans it out as rendered Messages addressed to specific users.
package message

import (
	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/wire"
)

// Message is a rendered message to one user.
type Message struct {
	ID             string
	UserID         string
	ParentID       string
	NotificationID string
	Email          string
	Phone          string
	Subject        string
	Body           string
}

// Encode returns the wire encoding of the message.
func (m Message) Encode() ([]byte, error) {
	wm := wire.Message(m)
	return wm.Marshal(), nil
}

// DecodeMessage parses a wire-encoded message.
func DecodeMessage(data []byte) (Message, error) {
	var wm wire.Message
	if err := wm.Unmarshal(data); err != nil {
		return Message{}, errors.WrapProtocol(err, "Message", "DecodeMessage", "unmarshal")
	}
	return Message(wm), nil
}

// Notification is a message raised by a node, before user resolution.
type Notification struct {
	ID         string
	SourceNode string
	Subject    string
	Body       string
}

// Encode returns the wire encoding of the notification.
func (n Notification) Encode() ([]byte, error) {
	wn := wire.Notification(n)
	return wn.Marshal(), nil
}

// DecodeNotification parses a wire-encoded notification.
func DecodeNotification(data []byte) (Notification, error) {
	var wn wire.Notification
	if err := wn.Unmarshal(data); err != nil {
		return Notification{}, errors.WrapProtocol(err, "Notification", "DecodeNotification", "unmarshal")
	}
	return Notification(wn), nil
}
