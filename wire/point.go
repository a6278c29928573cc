package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Point is the wire form of a single typed key/value record.
type Point struct {
	Type      string    // field 1
	Key       string    // field 2
	Time      Timestamp // field 3
	Index     float32   // field 4
	Value     float64   // field 5
	Text      string    // field 6
	Tombstone int32     // field 7
	Data      []byte    // field 8
}

// Marshal returns the protobuf encoding of p.
func (p *Point) Marshal() []byte {
	return p.append(nil)
}

func (p *Point) append(b []byte) []byte {
	b = appendString(b, 1, p.Type)
	b = appendString(b, 2, p.Key)
	if p.Time != (Timestamp{}) {
		b = appendMessage(b, 3, p.Time.Marshal(nil))
	}
	if p.Index != 0 {
		b = protowire.AppendTag(b, 4, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(p.Index))
	}
	if p.Value != 0 {
		b = protowire.AppendTag(b, 5, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(p.Value))
	}
	b = appendString(b, 6, p.Text)
	if p.Tombstone != 0 {
		b = protowire.AppendTag(b, 7, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(p.Tombstone)))
	}
	if len(p.Data) > 0 {
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendBytes(b, p.Data)
	}
	return b
}

// Unmarshal parses a protobuf-encoded Point from b.
func (p *Point) Unmarshal(b []byte) error {
	*p = Point{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fieldError("Point", 0, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Type = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Key = v
			b = b[m:]
		case num == 3 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			if err := p.Time.Unmarshal(v); err != nil {
				return err
			}
			b = b[m:]
		case num == 4 && typ == protowire.Fixed32Type:
			v, m := protowire.ConsumeFixed32(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Index = math.Float32frombits(v)
			b = b[m:]
		case num == 5 && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Value = math.Float64frombits(v)
			b = b[m:]
		case num == 6 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Text = v
			b = b[m:]
		case num == 7 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Tombstone = int32(v)
			b = b[m:]
		case num == 8 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			p.Data = append([]byte(nil), v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fieldError("Point", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return nil
}

// Points is the batch envelope wrapping an ordered point sequence for
// a single publish or request call.
type Points struct {
	Points []Point // field 1
}

// Marshal returns the protobuf encoding of ps.
func (ps *Points) Marshal() []byte {
	var b []byte
	for i := range ps.Points {
		b = appendMessage(b, 1, ps.Points[i].append(nil))
	}
	return b
}

// Unmarshal parses a protobuf-encoded Points batch from b. Order is
// preserved.
func (ps *Points) Unmarshal(b []byte) error {
	*ps = Points{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fieldError("Points", 0, protowire.ParseError(n))
		}
		b = b[n:]

		if num == 1 && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fieldError("Points", num, protowire.ParseError(m))
			}
			var p Point
			if err := p.Unmarshal(v); err != nil {
				return err
			}
			ps.Points = append(ps.Points, p)
			b = b[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return fieldError("Points", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}
