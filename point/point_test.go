package point

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/nodewire/wire"
)

func TestPoint_ToWire_TimeConversion(t *testing.T) {
	tests := []struct {
		name        string
		time        time.Time
		wantSeconds int64
		wantNanos   int32
	}{
		{
			name:        "whole second",
			time:        time.UnixMilli(1700000000000),
			wantSeconds: 1700000000,
			wantNanos:   0,
		},
		{
			name:        "quarter second",
			time:        time.UnixMilli(1700000000250),
			wantSeconds: 1700000000,
			wantNanos:   250000000,
		},
		{
			name: "seconds round, remainder is carried as-is",
			// Matches the conversion used by the platform's other
			// clients: seconds = round(ms/1000), nanos = (ms%1000)*1e6.
			time:        time.UnixMilli(1700000000750),
			wantSeconds: 1700000001,
			wantNanos:   750000000,
		},
		{
			name:        "sub-millisecond precision dropped",
			time:        time.Unix(1700000000, 250123456),
			wantSeconds: 1700000000,
			wantNanos:   250000000,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			wp := Point{Type: "temperature", Time: test.time}.ToWire()
			assert.Equal(t, test.wantSeconds, wp.Time.Seconds)
			assert.Equal(t, test.wantNanos, wp.Time.Nanos)
		})
	}
}

func TestPoint_ToWire_ZeroTimeBecomesNow(t *testing.T) {
	before := time.Now().Add(-time.Second)

	wp := Point{Type: "temperature"}.ToWire()
	got := time.Unix(wp.Time.Seconds, int64(wp.Time.Nanos))

	assert.True(t, got.After(before), "expected time near now, got %v", got)
	assert.True(t, got.Before(time.Now().Add(2*time.Second)))
}

func TestPoint_ToWire_FalsyFieldsOmitted(t *testing.T) {
	p := Point{
		Type:  "temperature",
		Key:   "",
		Index: 0,
		Text:  "",
		Time:  time.UnixMilli(1000),
	}

	wp := p.ToWire()
	assert.Empty(t, wp.Key)
	assert.Zero(t, wp.Index)
	assert.Empty(t, wp.Text)
	assert.Zero(t, wp.Tombstone)
	assert.Nil(t, wp.Data)
}

func TestPoint_ToWire_ZeroValueCopied(t *testing.T) {
	// 0.0 is a legitimate measurement, the one exception to the
	// falsy-omission rule.
	wp := Point{Type: "switch", Value: 0, Time: time.UnixMilli(1000)}.ToWire()
	assert.Equal(t, 0.0, wp.Value)

	data := (&wire.Points{Points: []wire.Point{wp}}).Marshal()
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, 0.0, decoded[0].Value)
}

func TestPoint_ToWire_PassthroughFields(t *testing.T) {
	p := Point{
		Type:      "position",
		Key:       "pump2",
		Index:     3,
		Value:     1.5,
		Text:      "running",
		Tombstone: 2,
		Data:      []byte{0xde, 0xad},
		Time:      time.UnixMilli(42000),
	}

	wp := p.ToWire()
	assert.Equal(t, "position", wp.Type)
	assert.Equal(t, "pump2", wp.Key)
	assert.Equal(t, float32(3), wp.Index)
	assert.Equal(t, 1.5, wp.Value)
	assert.Equal(t, "running", wp.Text)
	assert.Equal(t, int32(2), wp.Tombstone)
	assert.Equal(t, []byte{0xde, 0xad}, wp.Data)
}

func TestDecode_EncodeRoundTrip(t *testing.T) {
	// Round trip is exact at millisecond precision for times whose
	// sub-second part stays below 500ms (above that the seconds
	// rounding quirk shifts the timestamp; see ToWire docs).
	orig := Points{
		{Type: "temperature", Key: "cpu0", Value: 23.5, Time: time.UnixMilli(1700000000250)},
		{Type: "firstName", Text: "admin", Time: time.UnixMilli(1700000000100)},
		{Type: "tombstone", Value: 2, Tombstone: 2, Time: time.UnixMilli(1700000000000)},
	}

	data, err := orig.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got, len(orig))

	for i := range orig {
		assert.Equal(t, orig[i].Type, got[i].Type, "point %d", i)
		assert.Equal(t, orig[i].Key, got[i].Key, "point %d", i)
		assert.Equal(t, orig[i].Value, got[i].Value, "point %d", i)
		assert.Equal(t, orig[i].Text, got[i].Text, "point %d", i)
		assert.True(t, orig[i].Time.Equal(got[i].Time), "point %d time: want %v got %v",
			i, orig[i].Time, got[i].Time)
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestPoint_IsTombstone(t *testing.T) {
	tests := []struct {
		name     string
		point    Point
		expected bool
	}{
		{"odd value deleted", Point{Type: TypeTombstone, Value: 1}, true},
		{"even value active", Point{Type: TypeTombstone, Value: 2}, false},
		{"zero value active", Point{Type: TypeTombstone, Value: 0}, false},
		{"large odd", Point{Type: TypeTombstone, Value: 7}, true},
		{"wrong type", Point{Type: "temperature", Value: 1}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.point.IsTombstone())
		})
	}
}

func TestPoints_Tombstoned(t *testing.T) {
	active := Points{{Type: TypeTombstone, Value: 2}}
	deleted := Points{{Type: TypeTombstone, Value: 3}}
	missing := Points{{Type: "temperature", Value: 20}}

	assert.False(t, active.Tombstoned())
	assert.True(t, deleted.Tombstoned())
	assert.False(t, missing.Tombstoned())
}

func TestPoints_FindHelpers(t *testing.T) {
	ps := Points{
		{Type: TypeFirstName, Text: "admin"},
		{Type: "setpoint", Key: "pump1", Value: 42},
		{Type: "enabled", Value: 1},
	}

	text, ok := ps.Text(TypeFirstName, "")
	require.True(t, ok)
	assert.Equal(t, "admin", text)

	v, ok := ps.Value("setpoint", "pump1")
	require.True(t, ok)
	assert.Equal(t, 42.0, v)

	b, ok := ps.ValueBool("enabled", "")
	require.True(t, ok)
	assert.True(t, b)

	_, ok = ps.Find("setpoint", "pump9")
	assert.False(t, ok)
}

func TestPoints_Add(t *testing.T) {
	t0 := time.Now().Add(-time.Hour)
	t1 := time.Now()

	ps := Points{{Type: "temperature", Value: 20, Time: t0, Tombstone: 2}}

	// Older point does not replace, but tombstone still ratchets up
	ps.Add(Point{Type: "temperature", Value: 25, Time: t0.Add(-time.Minute), Tombstone: 3})
	assert.Equal(t, 20.0, ps[0].Value)
	assert.Equal(t, 3, ps[0].Tombstone)

	// Newer point replaces
	ps.Add(Point{Type: "temperature", Value: 22, Time: t1, Tombstone: 1})
	assert.Equal(t, 22.0, ps[0].Value)
	assert.Equal(t, 3, ps[0].Tombstone, "largest tombstone wins")

	// Different key appends
	ps.Add(Point{Type: "temperature", Key: "outside", Value: 5, Time: t1})
	assert.Len(t, ps, 2)
}
