package point

import (
	"fmt"
	"math"
	"time"

	"github.com/c360/nodewire/wire"
)

// Well-known point types used by the protocol itself. Applications
// define their own types freely; these are the ones the client and the
// platform agree on.
const (
	TypeNodeType    = "nodeType"
	TypeTombstone   = "tombstone"
	TypeDescription = "description"
	TypeFirstName   = "firstName"
	TypeLastName    = "lastName"
	TypeEmail       = "email"
	TypePhone       = "phone"
)

// Point is a flexible typed key/value record describing one fact about
// a node or an edge.
type Point struct {
	// Type of point (temperature, firstName, tombstone, ...)
	Type string `json:"type"`

	// Key allows a group of points of one type to represent a map
	Key string `json:"key,omitempty"`

	// Time the point was taken. Zero means "now" when sending.
	Time time.Time `json:"time,omitempty"`

	// Index specifies a position in an array (which pump, which
	// sensor, ...)
	Index float32 `json:"index,omitempty"`

	// Value is the instantaneous analog or digital value. 0 and 1
	// represent digital values.
	Value float64 `json:"value,omitempty"`

	// Text carries data best represented as a string
	Text string `json:"text,omitempty"`

	// Tombstone marks a point deleted. Only ever incremented; odd
	// means deleted.
	Tombstone int `json:"tombstone,omitempty"`

	// Data is a catchall for payloads that fit neither Value nor Text
	Data []byte `json:"data,omitempty"`
}

// IsMatch returns true if the point matches the given type and key.
// An empty typ matches any type.
func (p Point) IsMatch(typ, key string) bool {
	if typ != "" && typ != p.Type {
		return false
	}
	return key == p.Key
}

// IsTombstone returns true if the point is a tombstone point marking
// deletion: type "tombstone" with an odd value. Even values mean the
// tombstone was cleared (undelete); the value only ever increments.
func (p Point) IsTombstone() bool {
	return p.Type == TypeTombstone && int64(p.Value)%2 == 1
}

// Bool returns a bool representation of the value
func (p Point) Bool() bool {
	return p.Value == 1
}

func (p Point) String() string {
	t := "T:" + p.Type + " "

	if p.Text != "" {
		t += fmt.Sprintf("V:%v ", p.Text)
	} else {
		t += fmt.Sprintf("V:%.3f ", p.Value)
	}

	if p.Key != "" {
		t += fmt.Sprintf("K:%v ", p.Key)
	}

	if p.Index != 0 {
		t += fmt.Sprintf("I:%v ", p.Index)
	}

	return t + p.Time.Format(time.RFC3339)
}

// ToWire converts the point to its wire form.
//
// A zero Time becomes the current time. The timestamp is carried as
// (seconds, nanos) derived from millisecond precision:
// seconds = round(ms/1000), nanos = (ms mod 1000) * 1e6, matching the
// platform's other clients exactly. Key, Index, Text, Tombstone, and
// Data are copied only when non-zero; Value is copied always,
// including 0.0.
func (p Point) ToWire() wire.Point {
	t := p.Time
	if t.IsZero() {
		t = time.Now()
	}
	ms := t.UnixMilli()

	wp := wire.Point{
		Type: p.Type,
		Time: wire.Timestamp{
			Seconds: int64(math.Round(float64(ms) / 1000)),
			Nanos:   int32(ms%1000) * 1e6,
		},
		Value: p.Value,
	}
	if p.Key != "" {
		wp.Key = p.Key
	}
	if p.Index != 0 {
		wp.Index = p.Index
	}
	if p.Text != "" {
		wp.Text = p.Text
	}
	if p.Tombstone != 0 {
		wp.Tombstone = int32(p.Tombstone)
	}
	if len(p.Data) > 0 {
		wp.Data = p.Data
	}
	return wp
}

// FromWire converts a wire point back to a Point, materializing the
// native timestamp from (seconds, nanos).
func FromWire(wp wire.Point) Point {
	return Point{
		Type:      wp.Type,
		Key:       wp.Key,
		Time:      time.Unix(wp.Time.Seconds, int64(wp.Time.Nanos)),
		Index:     wp.Index,
		Value:     wp.Value,
		Text:      wp.Text,
		Tombstone: int(wp.Tombstone),
		Data:      wp.Data,
	}
}
