package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/nodewire/point"
	"github.com/c360/nodewire/wire"
)

func TestDecodeNodesRequest(t *testing.T) {
	req := wire.NodesRequest{
		Nodes: []wire.Node{
			{
				ID:     "user1",
				Type:   "user",
				Parent: "root",
				Points: []wire.Point{
					{Type: "firstName", Text: "admin", Time: wire.Timestamp{Seconds: 1700000000}},
					{Type: "email", Text: "admin@admin.com", Time: wire.Timestamp{Seconds: 1700000000}},
				},
				EdgePoints: []wire.Point{
					{Type: "tombstone", Time: wire.Timestamp{Seconds: 1700000000}},
				},
			},
			{ID: "dev1", Type: "device", Parent: "root"},
		},
	}

	edges, err := DecodeNodesRequest(req.Marshal())
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, "user1", edges[0].ID)
	assert.Equal(t, "user", edges[0].Type)
	assert.Equal(t, "root", edges[0].Parent)
	require.Len(t, edges[0].Points, 2)

	first, ok := edges[0].Points.Text("firstName", "")
	require.True(t, ok)
	assert.Equal(t, "admin", first)

	// Timestamps materialized as native time
	want := time.Unix(1700000000, 0)
	assert.True(t, edges[0].Points[0].Time.Equal(want))

	assert.Equal(t, "dev1", edges[1].ID)
	assert.Empty(t, edges[1].Points)
}

func TestDecodeNodesRequest_ServerError(t *testing.T) {
	req := wire.NodesRequest{
		Nodes: []wire.Node{{ID: "ignored"}},
		Error: "node not found",
	}

	edges, err := DecodeNodesRequest(req.Marshal())
	require.Error(t, err)
	assert.Nil(t, edges, "no partial results on a reply-level error")
	assert.Contains(t, err.Error(), "node not found")
}

func TestDecodeNodesRequest_EmptyReply(t *testing.T) {
	edges, err := DecodeNodesRequest(nil)
	require.NoError(t, err)
	assert.Empty(t, edges, "zero children is an empty list, not an error")
}

func TestNodeEdge_IsDeleted(t *testing.T) {
	tests := []struct {
		name     string
		edge     NodeEdge
		expected bool
	}{
		{
			name: "odd edge tombstone means deleted",
			edge: NodeEdge{EdgePoints: point.Points{{Type: point.TypeTombstone, Value: 1}}},

			expected: true,
		},
		{
			name:     "even edge tombstone means active",
			edge:     NodeEdge{EdgePoints: point.Points{{Type: point.TypeTombstone, Value: 2}}},
			expected: false,
		},
		{
			name:     "no tombstone means active",
			edge:     NodeEdge{EdgePoints: point.Points{{Type: "temperature", Value: 20}}},
			expected: false,
		},
		{
			name: "node points do not govern edge deletion",
			edge: NodeEdge{
				Points:     point.Points{{Type: point.TypeTombstone, Value: 1}},
				EdgePoints: point.Points{{Type: point.TypeTombstone, Value: 0}},
			},
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.edge.IsDeleted())
		})
	}
}

func TestNodeEdge_Desc(t *testing.T) {
	user := NodeEdge{
		ID:   "u1",
		Type: "user",
		Points: point.Points{
			{Type: point.TypeFirstName, Text: "Ada"},
			{Type: point.TypeLastName, Text: "Lovelace"},
		},
	}
	assert.Equal(t, "Ada Lovelace", user.Desc())

	device := NodeEdge{
		ID:     "d1",
		Points: point.Points{{Type: point.TypeDescription, Text: "pump house"}},
	}
	assert.Equal(t, "pump house", device.Desc())

	bare := NodeEdge{ID: "d2"}
	assert.Equal(t, "d2", bare.Desc())
}

func TestFlatten(t *testing.T) {
	tree := []NodeEdge{
		{
			ID: "a",
			Children: []NodeEdge{
				{ID: "b", Children: []NodeEdge{{ID: "c"}}},
				{ID: "d"},
			},
		},
		{ID: "e"},
	}

	flat := Flatten(tree)
	require.Len(t, flat, 5)

	ids := make([]string, len(flat))
	for i, ne := range flat {
		ids[i] = ne.ID
		assert.Nil(t, ne.Children, "flattened edges carry no children")
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestRemoveDuplicates(t *testing.T) {
	edges := []NodeEdge{
		{ID: "a", Parent: "root"},
		{ID: "a", Parent: "root"},
		{ID: "a", Parent: "group1"},
		{ID: "b", Parent: "root"},
	}

	got := RemoveDuplicates(edges)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "group1", got[1].Parent)
	assert.Equal(t, "b", got[2].ID)
}
