package client

// Subject helpers for the protocol's NATS subject conventions. These
// are string builders only; interop depends on them exactly matching
// what the platform serves.

// SubjectNode returns the subject to fetch node id relative to parent.
// An empty parent means "relative to any parent".
func SubjectNode(parent, id string) string {
	if parent == "" {
		parent = "all"
	}
	return "nodes." + parent + "." + id
}

// SubjectNodeChildren returns the subject to fetch the children of
// parentID.
func SubjectNodeChildren(parentID string) string {
	return "nodes." + parentID + ".all"
}

// SubjectNodePoints returns the subject node points are sent and
// streamed on.
func SubjectNodePoints(nodeID string) string {
	return "p." + nodeID
}

// SubjectEdgePoints returns the subject for points on the edge between
// nodeID and parentID.
func SubjectEdgePoints(nodeID, parentID string) string {
	return "p." + nodeID + "." + parentID
}

// SubjectNodeMessages returns the subject user messages for nodeID are
// streamed on.
func SubjectNodeMessages(nodeID string) string {
	return "node." + nodeID + ".msg"
}

// SubjectNodeNotifications returns the subject notifications for
// nodeID are streamed on.
func SubjectNodeNotifications(nodeID string) string {
	return "node." + nodeID + ".not"
}
