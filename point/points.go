package point

import (
	"time"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/wire"
)

// Points is an ordered sequence of Point. Order is insertion order;
// nothing sorts by type.
type Points []Point

func (ps Points) String() string {
	ret := ""
	for _, p := range ps {
		ret += p.String() + "\n"
	}
	return ret
}

// Find returns the first point matching type and key, and whether one
// was found.
func (ps Points) Find(typ, key string) (Point, bool) {
	for _, p := range ps {
		if p.IsMatch(typ, key) {
			return p, true
		}
	}
	return Point{}, false
}

// Text returns the text of the first point matching type and key.
func (ps Points) Text(typ, key string) (string, bool) {
	p, ok := ps.Find(typ, key)
	return p.Text, ok
}

// Value returns the value of the first point matching type and key.
func (ps Points) Value(typ, key string) (float64, bool) {
	p, ok := ps.Find(typ, key)
	return p.Value, ok
}

// ValueBool returns the value of the first matching point as a bool.
func (ps Points) ValueBool(typ, key string) (bool, bool) {
	v, ok := ps.Value(typ, key)
	return v == 1, ok
}

// Tombstoned returns true if the sequence carries a tombstone point
// with an odd value. Used on edge points to decide whether a specific
// parent/child relation is deleted; an edge with no tombstone point,
// or an even tombstone value, is active.
func (ps Points) Tombstoned() bool {
	p, ok := ps.Find(TypeTombstone, "")
	if !ok {
		return false
	}
	return int64(p.Value)%2 == 1
}

// LatestTime returns the latest timestamp in the sequence.
func (ps Points) LatestTime() time.Time {
	ret := time.Time{}
	for _, p := range ps {
		if p.Time.After(ret) {
			ret = p.Time
		}
	}
	return ret
}

// Add merges pIn into the sequence. An existing point with the same
// type and key is replaced if pIn is newer; the largest tombstone
// value always wins. A zero pIn time becomes the current time.
func (ps *Points) Add(pIn Point) {
	if pIn.Time.IsZero() {
		pIn.Time = time.Now()
	}

	for i, p := range *ps {
		if p.Type == pIn.Type && p.Key == pIn.Key {
			tombstone := p.Tombstone
			if pIn.Tombstone > tombstone {
				tombstone = pIn.Tombstone
			}
			if pIn.Time.After(p.Time) {
				(*ps)[i] = pIn
			}
			(*ps)[i].Tombstone = tombstone
			return
		}
	}

	*ps = append(*ps, pIn)
}

// Encode batches the sequence into one wire envelope for a single
// publish or request call. Used identically for node points and edge
// points; only the subject differs.
func (ps Points) Encode() ([]byte, error) {
	batch := wire.Points{Points: make([]wire.Point, len(ps))}
	for i, p := range ps {
		batch.Points[i] = p.ToWire()
	}
	return batch.Marshal(), nil
}

// Decode parses a wire points envelope into native points, converting
// every timestamp. Order is preserved.
func Decode(data []byte) (Points, error) {
	var batch wire.Points
	if err := batch.Unmarshal(data); err != nil {
		return nil, errors.WrapProtocol(err, "Points", "Decode", "unmarshal points")
	}

	ret := make(Points, len(batch.Points))
	for i, wp := range batch.Points {
		ret[i] = FromWire(wp)
	}
	return ret, nil
}
