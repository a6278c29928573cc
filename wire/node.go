package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Node is the wire form of a node plus the points of one edge to a
// parent.
type Node struct {
	ID         string  // field 1
	Type       string  // field 2
	Parent     string  // field 3
	Points     []Point // field 4
	EdgePoints []Point // field 5
}

// Marshal returns the protobuf encoding of n.
func (n *Node) Marshal() []byte {
	return n.append(nil)
}

func (n *Node) append(b []byte) []byte {
	b = appendString(b, 1, n.ID)
	b = appendString(b, 2, n.Type)
	b = appendString(b, 3, n.Parent)
	for i := range n.Points {
		b = appendMessage(b, 4, n.Points[i].append(nil))
	}
	for i := range n.EdgePoints {
		b = appendMessage(b, 5, n.EdgePoints[i].append(nil))
	}
	return b
}

// Unmarshal parses a protobuf-encoded Node from b.
func (n *Node) Unmarshal(b []byte) error {
	*n = Node{}
	for len(b) > 0 {
		num, typ, sz := protowire.ConsumeTag(b)
		if sz < 0 {
			return fieldError("Node", 0, protowire.ParseError(sz))
		}
		b = b[sz:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("Node", num, protowire.ParseError(m))
			}
			n.ID = v
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("Node", num, protowire.ParseError(m))
			}
			n.Type = v
			b = b[m:]
		case num == 3 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("Node", num, protowire.ParseError(m))
			}
			n.Parent = v
			b = b[m:]
		case num == 4 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fieldError("Node", num, protowire.ParseError(m))
			}
			var p Point
			if err := p.Unmarshal(v); err != nil {
				return err
			}
			n.Points = append(n.Points, p)
			b = b[m:]
		case num == 5 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fieldError("Node", num, protowire.ParseError(m))
			}
			var p Point
			if err := p.Unmarshal(v); err != nil {
				return err
			}
			n.EdgePoints = append(n.EdgePoints, p)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fieldError("Node", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return nil
}

// NodesRequest is the reply envelope for tree queries: an ordered node
// list, or a server-signaled error. A non-empty Error means the node
// list must not be used.
type NodesRequest struct {
	Nodes []Node // field 1
	Error string // field 2
}

// Marshal returns the protobuf encoding of nr.
func (nr *NodesRequest) Marshal() []byte {
	var b []byte
	for i := range nr.Nodes {
		b = appendMessage(b, 1, nr.Nodes[i].append(nil))
	}
	b = appendString(b, 2, nr.Error)
	return b
}

// Unmarshal parses a protobuf-encoded NodesRequest from b. Node order
// is preserved.
func (nr *NodesRequest) Unmarshal(b []byte) error {
	*nr = NodesRequest{}
	for len(b) > 0 {
		num, typ, sz := protowire.ConsumeTag(b)
		if sz < 0 {
			return fieldError("NodesRequest", 0, protowire.ParseError(sz))
		}
		b = b[sz:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return fieldError("NodesRequest", num, protowire.ParseError(m))
			}
			var n Node
			if err := n.Unmarshal(v); err != nil {
				return err
			}
			nr.Nodes = append(nr.Nodes, n)
			b = b[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return fieldError("NodesRequest", num, protowire.ParseError(m))
			}
			nr.Error = v
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fieldError("NodesRequest", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return nil
}
