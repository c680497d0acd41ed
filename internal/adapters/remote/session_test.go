package remote_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariunbolor/cozmo-tools/internal/adapters/remote"
	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// startBridge listens on a loopback port and answers each request line with
// whatever respond returns for its op.
func startBridge(t *testing.T, respond func(op string) any) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		enc := json.NewEncoder(conn)
		for sc.Scan() {
			var req struct {
				Op string `json:"op"`
			}
			if json.Unmarshal(sc.Bytes(), &req) != nil {
				return
			}
			if enc.Encode(respond(req.Op)) != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func dialBridge(t *testing.T, addr string) *remote.Session {
	t.Helper()
	s, err := remote.Dial(context.Background(), addr, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPoseRoundTrip(t *testing.T) {
	addr := startBridge(t, func(op string) any {
		assert.Equal(t, "pose", op)
		return map[string]any{"pose": map[string]any{"x": 10.0, "y": -4.0, "theta": 1.5}}
	})
	s := dialBridge(t, addr)

	pose, err := s.Pose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.Pose{X: 10, Y: -4, Theta: 1.5}, pose)
}

func TestBridgeErrorSurfaces(t *testing.T) {
	addr := startBridge(t, func(string) any {
		return map[string]any{"error": "no robot"}
	})
	s := dialBridge(t, addr)

	_, err := s.Pose(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no robot")
}

func TestLargeWorldSnapshot(t *testing.T) {
	// A full particle set serializes well past bufio's default 64 KiB
	// token limit; the snapshot must still arrive intact.
	particles := make([]ports.Particle, 6000)
	for i := range particles {
		particles[i] = ports.Particle{
			Pose:   ports.Pose{X: float64(i), Y: 1, Theta: 0.5},
			Weight: 0.25,
		}
	}
	addr := startBridge(t, func(op string) any {
		assert.Equal(t, "world", op)
		return map[string]any{"particles": particles}
	})
	s := dialBridge(t, addr)

	got := s.World().Particles()
	require.Len(t, got, len(particles))
	assert.Equal(t, float64(5999), got[5999].Pose.X)
}

func TestCubeIndexBounds(t *testing.T) {
	addr := startBridge(t, func(string) any { return map[string]any{} })
	s := dialBridge(t, addr)

	_, ok := s.Cube(0)
	assert.False(t, ok)
	_, ok = s.Cube(ports.NumCubes + 1)
	assert.False(t, ok)
	c, ok := s.Cube(1)
	require.True(t, ok)
	assert.Equal(t, 1, c.ID())
}

func TestClosedSessionRejectsRequests(t *testing.T) {
	addr := startBridge(t, func(string) any { return map[string]any{} })
	s := dialBridge(t, addr)

	require.NoError(t, s.Close())
	_, err := s.Pose(context.Background())
	assert.Error(t, err)
}
