// Package node defines the NodeEdge type, a node plus the points of
// one edge to a parent, and the decoder for tree-query replies.
//
// A node can have multiple parents, and each parent/child relation has
// its own deletion state: the tombstone on the edge points, not
// anything on the node itself, decides whether that specific relation
// is deleted.
package node

import (
	"fmt"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/point"
	"github.com/c360/nodewire/wire"
)

// Well-known node types
const (
	TypeDevice = "device"
	TypeUser   = "user"
	TypeGroup  = "group"
)

// NodeEdge combines a node with the edge-specific points describing
// its relation to one parent. Children is populated only by recursive
// (non-flat) tree retrieval.
type NodeEdge struct {
	ID         string
	Type       string
	Parent     string
	Points     point.Points
	EdgePoints point.Points
	Children   []NodeEdge
}

// IsDeleted returns true if this specific parent/child relation is
// tombstoned. The node may still be live under other parents.
func (ne NodeEdge) IsDeleted() bool {
	return ne.EdgePoints.Tombstoned()
}

// Desc returns a human-readable description of the node: first/last
// name for users, the description point otherwise, falling back to
// the id.
func (ne NodeEdge) Desc() string {
	if first, _ := ne.Points.Text(point.TypeFirstName, ""); first != "" {
		if last, _ := ne.Points.Text(point.TypeLastName, ""); last != "" {
			return first + " " + last
		}
		return first
	}

	if desc, _ := ne.Points.Text(point.TypeDescription, ""); desc != "" {
		return desc
	}

	return ne.ID
}

func (ne NodeEdge) String() string {
	ret := fmt.Sprintf("NODE: %v (%v) parent:%v\n", ne.ID, ne.Type, ne.Parent)
	for _, p := range ne.Points {
		ret += fmt.Sprintf("  - Point: %v\n", p)
	}
	for _, p := range ne.EdgePoints {
		ret += fmt.Sprintf("  - Edge point: %v\n", p)
	}
	return ret
}

// fromWire converts a wire node, running every point through the
// timestamp conversion.
func fromWire(wn wire.Node) NodeEdge {
	ne := NodeEdge{
		ID:     wn.ID,
		Type:   wn.Type,
		Parent: wn.Parent,
	}
	if len(wn.Points) > 0 {
		ne.Points = make(point.Points, len(wn.Points))
		for i, wp := range wn.Points {
			ne.Points[i] = point.FromWire(wp)
		}
	}
	if len(wn.EdgePoints) > 0 {
		ne.EdgePoints = make(point.Points, len(wn.EdgePoints))
		for i, wp := range wn.EdgePoints {
			ne.EdgePoints[i] = point.FromWire(wp)
		}
	}
	return ne
}

// DecodeNodesRequest decodes a tree-query reply envelope into node
// edges. If the envelope carries a server-signaled error, that error
// is returned and the node list is discarded with no partial results.
// Node order is preserved.
func DecodeNodesRequest(data []byte) ([]NodeEdge, error) {
	var req wire.NodesRequest
	if err := req.Unmarshal(data); err != nil {
		return nil, errors.WrapProtocol(err, "NodeEdge", "DecodeNodesRequest", "unmarshal reply")
	}

	if req.Error != "" {
		return nil, errors.Protocolf("NodeEdge", "DecodeNodesRequest",
			"NodesRequest decode error: %s", req.Error)
	}

	ret := make([]NodeEdge, len(req.Nodes))
	for i, wn := range req.Nodes {
		ret[i] = fromWire(wn)
	}
	return ret, nil
}

// Flatten returns edges and all their nested children as one flat
// list, depth first, clearing Children on the copies it returns.
func Flatten(edges []NodeEdge) []NodeEdge {
	var ret []NodeEdge
	for _, ne := range edges {
		children := ne.Children
		ne.Children = nil
		ret = append(ret, ne)
		ret = append(ret, Flatten(children)...)
	}
	return ret
}

// RemoveDuplicates removes nodes that appear more than once with the
// same id and parent, keeping first occurrences.
func RemoveDuplicates(edges []NodeEdge) []NodeEdge {
	seen := make(map[string]bool)
	ret := []NodeEdge{}

	for _, ne := range edges {
		key := ne.ID + ":" + ne.Parent
		if !seen[key] {
			seen[key] = true
			ret = append(ret, ne)
		}
	}
	return ret
}
