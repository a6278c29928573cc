package client

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/nodewire/errors"
	"github.com/c360/nodewire/natsclient"
	"github.com/c360/nodewire/point"
	"github.com/c360/nodewire/wire"
)

// startIntegration spins up a NATS container and returns a protocol
// client over it plus the raw connection used to emulate the platform
// side of the protocol.
func startIntegration(t *testing.T) (*Client, *nats.Conn) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := natsclient.NewTestClient(t)
	c, err := NewClient(tc.Client)
	require.NoError(t, err)
	return c, tc.GetNativeConnection()
}

func TestIntegration_GetNodeChildren(t *testing.T) {
	c, conn := startIntegration(t)

	sub, err := conn.Subscribe("nodes.root.all", func(m *nats.Msg) {
		reply := wire.NodesRequest{Nodes: []wire.Node{
			{
				ID: "user1", Type: "user", Parent: "root",
				Points: []wire.Point{
					{Type: point.TypeFirstName, Text: "admin"},
					{Type: point.TypeEmail, Text: "admin@admin.com"},
				},
			},
		}}
		_ = m.Respond(reply.Marshal())
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	edges, err := c.GetNodeChildren(context.Background(), "root", GetChildrenOptions{
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)

	first, ok := edges[0].Points.Text(point.TypeFirstName, "")
	require.True(t, ok)
	assert.Equal(t, "admin", first)
}

func TestIntegration_SendNodePoints(t *testing.T) {
	c, conn := startIntegration(t)

	sub, err := conn.Subscribe("p.dev1", func(m *nats.Msg) {
		if m.Reply != "" {
			_ = m.Respond(nil)
		}
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = c.SendNodePoints(context.Background(), "dev1", point.Points{
		{Type: "temperature", Value: 21.5},
	}, SendOptions{Ack: true, Timeout: 5 * time.Second})
	require.NoError(t, err)
}

func TestIntegration_SendNodePoints_ServerError(t *testing.T) {
	c, conn := startIntegration(t)

	sub, err := conn.Subscribe("p.dev2", func(m *nats.Msg) {
		if m.Reply != "" {
			_ = m.Respond([]byte("node unknown"))
		}
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = c.SendNodePoints(context.Background(), "dev2", point.Points{
		{Type: "temperature", Value: 21.5},
	}, SendOptions{Ack: true, Timeout: 5 * time.Second})
	require.Error(t, err)
	assert.True(t, errors.IsProtocol(err))
}

func TestIntegration_SubscribePoints_Ordered(t *testing.T) {
	c, conn := startIntegration(t)

	s, err := c.SubscribePoints("sensor1")
	require.NoError(t, err)
	defer s.Close()

	const batches = 10
	const perBatch = 2
	for i := 0; i < batches; i++ {
		data, err := point.Points{
			{Type: "seq", Value: float64(i * perBatch)},
			{Type: "seq", Value: float64(i*perBatch + 1)},
		}.Encode()
		require.NoError(t, err)
		require.NoError(t, conn.Publish("p.sensor1", data))
	}
	require.NoError(t, conn.Flush())

	got := collect(t, s.C(), batches*perBatch)
	for i, p := range got {
		require.Equal(t, float64(i), p.Value, fmt.Sprintf("point %d out of order", i))
	}
	assert.NoError(t, s.Err())
}
