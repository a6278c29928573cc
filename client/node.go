package client

import (
	"context"
	"sync"
	"time"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/node"
	"github.com/c360/nodewire/point"
)

// Recursion selects how GetNodeChildren shapes recursive results
type Recursion int

const (
	// RecurseNone returns direct children only
	RecurseNone Recursion = iota
	// RecurseNested attaches each node's descendants as Children
	RecurseNested
	// RecurseFlat returns one flattened sequence, direct children
	// first, no Children attributes
	RecurseFlat
)

// GetNodeOptions configures GetNode
type GetNodeOptions struct {
	// Parent scopes the lookup to one parent edge. Empty means "any
	// parent" ("all").
	Parent string
	// Type filters by node type when non-empty
	Type string
	// IncludeDel includes tombstoned nodes
	IncludeDel bool
	// Timeout overrides the client's default request timeout
	Timeout time.Duration
}

// GetChildrenOptions configures GetNodeChildren
type GetChildrenOptions struct {
	// Type filters by node type when non-empty. The filter also
	// applies during recursive descent.
	Type string
	// IncludeDel includes tombstoned nodes
	IncludeDel bool
	// Recurse selects none, nested, or flat descendant retrieval
	Recurse Recursion
	// Timeout overrides the client's default request timeout
	Timeout time.Duration
}

// filterPoints builds the two-point query filter every tree request
// carries: a nodeType point (text empty for "any") and a tombstone
// point (value 1 to include deleted nodes, 0 to exclude).
func filterPoints(typ string, includeDel bool) ([]byte, error) {
	tombstone := 0.0
	if includeDel {
		tombstone = 1.0
	}
	pts := point.Points{
		{Type: point.TypeNodeType, Text: typ},
		{Type: point.TypeTombstone, Value: tombstone},
	}
	return pts.Encode()
}

// traversalCache memoizes computed child lists by node id within one
// top-level call. It is never shared across top-level calls; the
// mutex exists for GetNodesForUser, whose per-root fetches share one
// cache concurrently.
type traversalCache struct {
	mu sync.Mutex
	m  map[string][]node.NodeEdge
}

func newTraversalCache() *traversalCache {
	return &traversalCache{m: make(map[string][]node.NodeEdge)}
}

func (tc *traversalCache) get(id string) ([]node.NodeEdge, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	children, ok := tc.m[id]
	return children, ok
}

func (tc *traversalCache) put(id string, children []node.NodeEdge) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.m[id] = children
}

// GetNode fetches one node by id. An id of "all" or "" delegates to
// GetNodeChildren for o.Parent. A missing node surfaces as whatever
// the reply decodes to, typically an empty list or a protocol error.
func (c *Client) GetNode(ctx context.Context, id string, o GetNodeOptions) ([]node.NodeEdge, error) {
	if id == "all" || id == "" {
		return c.GetNodeChildren(ctx, o.Parent, GetChildrenOptions{
			Type:       o.Type,
			IncludeDel: o.IncludeDel,
			Timeout:    o.Timeout,
		})
	}

	payload, err := filterPoints(o.Type, o.IncludeDel)
	if err != nil {
		return nil, errors.WrapCaller(err, "Client", "GetNode", "encode filter")
	}

	msg, err := c.request(ctx, "GetNode", SubjectNode(o.Parent, id), payload, o.Timeout)
	if err != nil {
		return nil, err
	}

	return node.DecodeNodesRequest(msg.Data)
}

// GetNodeChildren fetches the children of parentID, optionally
// recursing into descendants. parentID must be a concrete node id;
// "all", "none", and "" fail before any network call.
//
// Recursion is serial, one child subtree at a time, and memoizes
// computed child lists by node id for the duration of this call: a
// node reachable through two paths is fetched once. The cache never
// outlives the call.
func (c *Client) GetNodeChildren(ctx context.Context, parentID string, o GetChildrenOptions) ([]node.NodeEdge, error) {
	if parentID == "" || parentID == "all" || parentID == "none" {
		return nil, errors.WrapCaller(
			errors.ErrParentRequired, "Client", "GetNodeChildren", "parent id '"+parentID+"'")
	}

	return c.getChildren(ctx, parentID, o, newTraversalCache())
}

func (c *Client) getChildren(ctx context.Context, parentID string, o GetChildrenOptions, cache *traversalCache) ([]node.NodeEdge, error) {
	payload, err := filterPoints(o.Type, o.IncludeDel)
	if err != nil {
		return nil, errors.WrapCaller(err, "Client", "GetNodeChildren", "encode filter")
	}

	msg, err := c.request(ctx, "GetNodeChildren", SubjectNodeChildren(parentID), payload, o.Timeout)
	if err != nil {
		return nil, err
	}

	edges, err := node.DecodeNodesRequest(msg.Data)
	if err != nil {
		return nil, err
	}

	if o.Recurse == RecurseNone {
		return edges, nil
	}

	out := edges
	for i := range edges {
		children, ok := cache.get(edges[i].ID)
		if ok {
			c.metrics.IncCacheHit()
		} else {
			children, err = c.getChildren(ctx, edges[i].ID, o, cache)
			if err != nil {
				return nil, err
			}
			// Cache before moving to the next sibling so shared
			// descendants hit immediately.
			cache.put(edges[i].ID, children)
		}

		if o.Recurse == RecurseFlat {
			out = append(out, children...)
		} else {
			edges[i].Children = children
		}
	}

	return out, nil
}
