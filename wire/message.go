package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Message is the wire form of a rendered user message (email/SMS
// style) delivered on node.<id>.msg subjects.
type Message struct {
	ID             string // field 1
	UserID         string // field 2
	ParentID       string // field 3
	NotificationID string // field 4
	Email          string // field 5
	Phone          string // field 6
	Subject        string // field 7
	Body           string // field 8
}

// Marshal returns the protobuf encoding of m.
func (m *Message) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.UserID)
	b = appendString(b, 3, m.ParentID)
	b = appendString(b, 4, m.NotificationID)
	b = appendString(b, 5, m.Email)
	b = appendString(b, 6, m.Phone)
	b = appendString(b, 7, m.Subject)
	b = appendString(b, 8, m.Body)
	return b
}

// Unmarshal parses a protobuf-encoded Message from b.
func (m *Message) Unmarshal(b []byte) error {
	*m = Message{}
	return consumeStrings(b, "Message", func(num protowire.Number, v string) {
		switch num {
		case 1:
			m.ID = v
		case 2:
			m.UserID = v
		case 3:
			m.ParentID = v
		case 4:
			m.NotificationID = v
		case 5:
			m.Email = v
		case 6:
			m.Phone = v
		case 7:
			m.Subject = v
		case 8:
			m.Body = v
		}
	})
}

// Notification is the wire form of a notification raised by a node,
// delivered on node.<id>.not subjects.
type Notification struct {
	ID         string // field 1
	SourceNode string // field 2
	Subject    string // field 3
	Body       string // field 4
}

// Marshal returns the protobuf encoding of n.
func (n *Notification) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, n.ID)
	b = appendString(b, 2, n.SourceNode)
	b = appendString(b, 3, n.Subject)
	b = appendString(b, 4, n.Body)
	return b
}

// Unmarshal parses a protobuf-encoded Notification from b.
func (n *Notification) Unmarshal(b []byte) error {
	*n = Notification{}
	return consumeStrings(b, "Notification", func(num protowire.Number, v string) {
		switch num {
		case 1:
			n.ID = v
		case 2:
			n.SourceNode = v
		case 3:
			n.Subject = v
		case 4:
			n.Body = v
		}
	})
}

// consumeStrings walks an all-string message, handing each string
// field to set; unrecognized fields are skipped.
func consumeStrings(b []byte, msg string, set func(num protowire.Number, v string)) error {
	for len(b) > 0 {
		num, typ, sz := protowire.ConsumeTag(b)
		if sz < 0 {
			return fieldError(msg, 0, protowire.ParseError(sz))
		}
		b = b[sz:]

		if typ == protowire.BytesType {
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError(msg, num, protowire.ParseError(m))
			}
			set(num, v)
			b = b[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return fieldError(msg, num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}
