package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Timestamp is the wire form of a point timestamp: whole seconds since
// the Unix epoch plus a non-negative nanosecond remainder.
type Timestamp struct {
	Seconds int64 // field 1
	Nanos   int32 // field 2
}

// Marshal appends the protobuf encoding of ts to b and returns the
// extended buffer.
func (ts *Timestamp) Marshal(b []byte) []byte {
	if ts.Seconds != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(ts.Seconds))
	}
	if ts.Nanos != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(ts.Nanos)))
	}
	return b
}

// Unmarshal parses a protobuf-encoded Timestamp from b.
func (ts *Timestamp) Unmarshal(b []byte) error {
	*ts = Timestamp{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fieldError("Timestamp", 0, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return fieldError("Timestamp", num, protowire.ParseError(m))
			}
			ts.Seconds = int64(v)
			b = b[m:]
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return fieldError("Timestamp", num, protowire.ParseError(m))
			}
			ts.Nanos = int32(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fieldError("Timestamp", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return nil
}

// fieldError reports a malformed field during decode.
func fieldError(msg string, num protowire.Number, err error) error {
	if num == 0 {
		return fmt.Errorf("wire: %s: invalid tag: %w", msg, err)
	}
	return fmt.Errorf("wire: %s: field %d: %w", msg, num, err)
}

// appendMessage appends a length-delimited submessage field.
func appendMessage(b []byte, num protowire.Number, body []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

// appendString appends a string field, omitting empty strings per
// proto3 semantics.
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}
