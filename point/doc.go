// Package point defines the Point type, the atomic unit of state and
// telemetry in the node graph, and its conversion to and from the
// wire schema.
//
// A point is a typed key/value record: a type tag, optional key and
// index sub-identifiers, a numeric value and/or text payload, an
// optional raw data payload, and a timestamp. Points describe both
// node state (a device's temperature, a user's first name) and edge
// state (most importantly the tombstone marking a parent/child
// relation deleted).
//
// # Codec contract
//
// Converting a Point to its wire form is deliberately lossy in two
// ways, both inherited from the platform's wire conventions:
//
//   - Timestamps are carried at millisecond precision. Sub-millisecond
//     precision is not representable on the wire.
//   - Zero-valued Key, Index, Text, Tombstone, and Data fields are
//     omitted from the wire point rather than encoded as zero/empty,
//     so a point cannot explicitly encode key="" or index=0 as "set".
//     Value is the exception: 0.0 is a legitimate measurement and
//     survives the round trip.
//
// Callers should treat decode(encode(p)) == p as holding only up to
// those two caveats.
package point
