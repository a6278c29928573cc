package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/c360/nodewire/client"
	"github.com/c360/nodewire/node"
	"github.com/c360/nodewire/point"
)

func dispatch(ctx context.Context, c *client.Client, command string, args []string) error {
	switch command {
	case "tree":
		return cmdTree(ctx, c, args)
	case "get":
		return cmdGet(ctx, c, args)
	case "user":
		return cmdUser(ctx, c, args)
	case "send":
		return cmdSend(ctx, c, args)
	case "send-edge":
		return cmdSendEdge(ctx, c, args)
	case "delete":
		return cmdDelete(ctx, c, args)
	case "listen":
		return cmdListen(ctx, c, args)
	case "msgs":
		return cmdMsgs(ctx, c, args)
	case "notifications":
		return cmdNotifications(ctx, c, args)
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", command)
	}
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s %s", appName, usage)
	}
	return nil
}

func cmdTree(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 1, "tree <node-id>"); err != nil {
		return err
	}

	edges, err := c.GetNodeChildren(ctx, args[0], client.GetChildrenOptions{
		Recurse: client.RecurseNested,
	})
	if err != nil {
		return err
	}

	fmt.Println(args[0])
	printTree(edges, "")
	return nil
}

func printTree(edges []node.NodeEdge, indent string) {
	for i, ne := range edges {
		connector := "├── "
		childIndent := indent + "│   "
		if i == len(edges)-1 {
			connector = "└── "
			childIndent = indent + "    "
		}

		label := ne.Desc()
		if label != ne.ID {
			label = fmt.Sprintf("%s (%s)", label, ne.ID)
		}
		fmt.Printf("%s%s[%s] %s\n", indent, connector, ne.Type, label)
		printTree(ne.Children, childIndent)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdGet(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 1, "get <node-id>"); err != nil {
		return err
	}

	edges, err := c.GetNode(ctx, args[0], client.GetNodeOptions{})
	if err != nil {
		return err
	}
	return printJSON(edges)
}

func cmdUser(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 1, "user <user-id>"); err != nil {
		return err
	}

	edges, err := c.GetNodesForUser(ctx, args[0], client.GetNodesForUserOptions{
		Recurse: client.RecurseNested,
	})
	if err != nil {
		return err
	}
	return printJSON(edges)
}

// readPoints loads and validates a JSON points file ("-" reads stdin)
func readPoints(path string) (point.Points, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}

	if err := validatePointsJSON(data); err != nil {
		return nil, err
	}

	var pts point.Points
	if err := json.Unmarshal(data, &pts); err != nil {
		return nil, fmt.Errorf("parse points: %w", err)
	}
	return pts, nil
}

func cmdSend(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 2, "send <node-id> <points.json>"); err != nil {
		return err
	}

	nodeID := args[0]
	if nodeID == "new" {
		nodeID = uuid.New().String()
		slog.Info("Minted new node id", "id", nodeID)
	}

	pts, err := readPoints(args[1])
	if err != nil {
		return err
	}

	if err := c.SendNodePoints(ctx, nodeID, pts, client.SendOptions{Ack: true}); err != nil {
		return err
	}
	slog.Info("Points sent", "node", nodeID, "count", len(pts))
	return nil
}

func cmdSendEdge(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 3, "send-edge <node-id> <parent-id> <points.json>"); err != nil {
		return err
	}

	pts, err := readPoints(args[2])
	if err != nil {
		return err
	}

	if err := c.SendEdgePoints(ctx, args[0], args[1], pts, client.SendOptions{Ack: true}); err != nil {
		return err
	}
	slog.Info("Edge points sent", "node", args[0], "parent", args[1], "count", len(pts))
	return nil
}

// cmdDelete tombstones the edge between a node and one parent. The
// current tombstone value is read first so the new value flips parity
// by incrementing, never by overwriting.
func cmdDelete(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 2, "delete <node-id> <parent-id>"); err != nil {
		return err
	}

	nodeID, parentID := args[0], args[1]

	edges, err := c.GetNode(ctx, nodeID, client.GetNodeOptions{Parent: parentID, IncludeDel: true})
	if err != nil {
		return err
	}

	current := 0.0
	if len(edges) > 0 {
		if v, ok := edges[0].EdgePoints.Value(point.TypeTombstone, ""); ok {
			current = v
		}
	}
	if int64(current)%2 == 1 {
		slog.Info("Edge already deleted", "node", nodeID, "parent", parentID)
		return nil
	}

	err = c.SendEdgePoints(ctx, nodeID, parentID, point.Points{
		{Type: point.TypeTombstone, Value: current + 1},
	}, client.SendOptions{Ack: true})
	if err != nil {
		return err
	}
	slog.Info("Edge deleted", "node", nodeID, "parent", parentID)
	return nil
}

func cmdListen(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 1, "listen <node-id>"); err != nil {
		return err
	}

	s, err := c.SubscribePoints(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	slog.Info("Listening for points", "node", args[0])
	for {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-s.C():
			if !ok {
				return s.Err()
			}
			fmt.Printf("%s %s\n", p.Time.Format("15:04:05.000"), p.String())
		}
	}
}

func cmdMsgs(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 1, "msgs <node-id>"); err != nil {
		return err
	}

	s, err := c.SubscribeMessages(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	slog.Info("Listening for messages", "node", args[0])
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-s.C():
			if !ok {
				return s.Err()
			}
			fmt.Printf("%s: %s\n", strings.TrimSpace(m.Subject), m.Body)
		}
	}
}

func cmdNotifications(ctx context.Context, c *client.Client, args []string) error {
	if err := requireArgs(args, 1, "notifications <node-id>"); err != nil {
		return err
	}

	s, err := c.SubscribeNotifications(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	slog.Info("Listening for notifications", "node", args[0])
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-s.C():
			if !ok {
				return s.Err()
			}
			fmt.Printf("[%s] %s: %s\n", n.SourceNode, n.Subject, n.Body)
		}
	}
}
