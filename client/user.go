package client

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/node"
)

// GetNodesForUserOptions configures GetNodesForUser
type GetNodesForUserOptions struct {
	// Type filters the user's node instances by type when non-empty
	Type string
	// IncludeDel includes tombstoned instances
	IncludeDel bool
	// Recurse selects none, nested, or flat descendant retrieval
	Recurse Recursion
	// Timeout overrides the client's default request timeout
	Timeout time.Duration
}

// GetNodesForUser fetches the nodes a user is attached to: one entry
// per parent of userID that survives the type and tombstone filters,
// optionally with its full descendant tree. A parent reachable under
// several grandparents still yields a single entry.
//
// Flat results are deduplicated by id and parent. The platform's
// browser client skips that pass and returns shared subtrees once per
// path; callers comparing output across clients should expect the
// difference.
//
// Parents are fetched concurrently with no ordering guarantee among
// themselves; the result preserves the order the user's instances
// were returned in. All roots share one traversal cache for the
// duration of this call, so subtrees reachable from several roots are
// fetched once. Within one root the descent is serial.
func (c *Client) GetNodesForUser(ctx context.Context, userID string, o GetNodesForUserOptions) ([]node.NodeEdge, error) {
	if userID == "" {
		return nil, errors.WrapCaller(
			errors.ErrNodeIDRequired, "Client", "GetNodesForUser", "user id required")
	}

	instances, err := c.GetNode(ctx, userID, GetNodeOptions{
		Parent:     "all",
		IncludeDel: o.IncludeDel,
		Timeout:    o.Timeout,
	})
	if err != nil {
		return nil, err
	}

	roots := make([]node.NodeEdge, 0, len(instances))
	for _, ne := range instances {
		if o.Type != "" && ne.Type != o.Type {
			continue
		}
		if !o.IncludeDel && ne.IsDeleted() {
			continue
		}
		roots = append(roots, ne)
	}

	cache := newTraversalCache()
	results := make([][]node.NodeEdge, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			instances, err := c.GetNode(gctx, root.Parent, GetNodeOptions{
				IncludeDel: o.IncludeDel,
				Timeout:    o.Timeout,
			})
			if err != nil {
				return err
			}
			if len(instances) == 0 {
				return nil
			}

			// A node can live under several grandparents; the result
			// carries one entry per user edge, so only the first
			// instance represents this root.
			parent := instances[0]

			if o.Recurse == RecurseNone {
				results[i] = []node.NodeEdge{parent}
				return nil
			}

			children, ok := cache.get(root.Parent)
			if ok {
				c.metrics.IncCacheHit()
			} else {
				children, err = c.getChildren(gctx, root.Parent, GetChildrenOptions{
					Type:       o.Type,
					IncludeDel: o.IncludeDel,
					Recurse:    o.Recurse,
					Timeout:    o.Timeout,
				}, cache)
				if err != nil {
					return err
				}
				cache.put(root.Parent, children)
			}

			if o.Recurse == RecurseFlat {
				results[i] = append([]node.NodeEdge{parent}, children...)
			} else {
				parent.Children = children
				results[i] = []node.NodeEdge{parent}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []node.NodeEdge
	for _, r := range results {
		out = append(out, r...)
	}
	if o.Recurse == RecurseFlat {
		out = node.RemoveDuplicates(out)
	}
	return out, nil
}
