// Package wire defines the protobuf wire schema for the nodewire
// protocol and implements its codecs directly on
// google.golang.org/protobuf/encoding/protowire.
//
// The schema is a fixed external contract shared with the server and
// the other platform clients; the field numbers documented on each
// type must never change. The equivalent .proto definition is:
//
//	message Timestamp {
//	  int64 seconds = 1;
//	  int32 nanos   = 2;
//	}
//
//	message Point {
//	  string    type      = 1;
//	  string    key       = 2;
//	  Timestamp time      = 3;
//	  float     index     = 4;
//	  double    value     = 5;
//	  string    text      = 6;
//	  int32     tombstone = 7;
//	  bytes     data      = 8;
//	}
//
//	message Points {
//	  repeated Point points = 1;
//	}
//
//	message Node {
//	  string id              = 1;
//	  string type            = 2;
//	  string parent          = 3;
//	  repeated Point points  = 4;
//	  repeated Point edge_points = 5;
//	}
//
//	message NodesRequest {
//	  repeated Node nodes = 1;
//	  string error        = 2;
//	}
//
//	message Message {
//	  string id              = 1;
//	  string user_id         = 2;
//	  string parent_id       = 3;
//	  string notification_id = 4;
//	  string email           = 5;
//	  string phone           = 6;
//	  string subject         = 7;
//	  string body            = 8;
//	}
//
//	message Notification {
//	  string id          = 1;
//	  string source_node = 2;
//	  string subject     = 3;
//	  string body        = 4;
//	}
//
// Codecs follow proto3 semantics: zero-valued scalar fields are
// omitted on encode, and unknown fields are skipped on decode so newer
// servers can add fields without breaking older clients.
package wire
