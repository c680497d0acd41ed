// Package remote implements ports.Session over a TCP bridge speaking
// newline-delimited JSON: one request object out, one response object back.
// The bridge process owns the actual robot link.
package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

const requestTimeout = 2 * time.Second

// maxResponseBytes caps one response line. World snapshots with full
// particle sets overflow bufio's default 64 KiB token limit.
const maxResponseBytes = 4 << 20

type request struct {
	Op string `json:"op"`
}

type response struct {
	Error     string             `json:"error,omitempty"`
	Pose      *ports.Pose        `json:"pose,omitempty"`
	OnCharger *bool              `json:"on_charger,omitempty"`
	Particles []ports.Particle   `json:"particles,omitempty"`
	Path      []ports.Pose       `json:"path,omitempty"`
	Landmarks []ports.Landmark   `json:"landmarks,omitempty"`
	Camera    *ports.CameraFrame `json:"camera,omitempty"`
	Charger   *ports.Pose        `json:"charger,omitempty"`
	Cubes     []cubeInfo         `json:"cubes,omitempty"`
}

type cubeInfo struct {
	ID   int        `json:"id"`
	Pose ports.Pose `json:"pose"`
}

// Session is safe for the shell's single control goroutine plus the viewer
// server; the connection is serialized behind a mutex.
type Session struct {
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
	enc  *json.Encoder
	sc   *bufio.Scanner
}

// Dial connects to the bridge. Failure here is fatal to the process by
// contract; the caller reports and exits non-zero.
func Dial(ctx context.Context, addr string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to robot bridge at %s: %w", addr, err)
	}
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), maxResponseBytes)
	return &Session{
		logger: logger,
		conn:   conn,
		enc:    json.NewEncoder(conn),
		sc:     sc,
	}, nil
}

func (s *Session) roundTrip(ctx context.Context, op string) (*response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, fmt.Errorf("bridge connection closed")
	}

	deadline := time.Now().Add(requestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	s.conn.SetDeadline(deadline)

	if err := s.enc.Encode(request{Op: op}); err != nil {
		return nil, fmt.Errorf("sending %s: %w", op, err)
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return nil, fmt.Errorf("reading %s response: %w", op, err)
		}
		return nil, fmt.Errorf("bridge closed during %s", op)
	}
	var resp response
	if err := json.Unmarshal(s.sc.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", op, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("bridge %s: %s", op, resp.Error)
	}
	return &resp, nil
}

func (s *Session) Pose(ctx context.Context) (ports.Pose, error) {
	resp, err := s.roundTrip(ctx, "pose")
	if err != nil {
		return ports.Pose{}, err
	}
	if resp.Pose == nil {
		return ports.Pose{}, fmt.Errorf("bridge pose: empty response")
	}
	return *resp.Pose, nil
}

func (s *Session) OnCharger(ctx context.Context) (bool, error) {
	resp, err := s.roundTrip(ctx, "on_charger")
	if err != nil {
		return false, err
	}
	return resp.OnCharger != nil && *resp.OnCharger, nil
}

func (s *Session) StopAllMotors(ctx context.Context) error {
	_, err := s.roundTrip(ctx, "stop_all_motors")
	return err
}

func (s *Session) World() ports.World     { return &world{s: s} }
func (s *Session) Charger() ports.Charger { return &charger{s: s} }

func (s *Session) Cube(i int) (ports.Cube, bool) {
	if i < 1 || i > ports.NumCubes {
		return nil, false
	}
	return &cube{s: s, id: i}, true
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// world queries the bridge per call. The ports.World accessors have no error
// returns, so failures degrade to empty snapshots and a debug log line.
type world struct {
	s *Session
}

func (w *world) snapshot() *response {
	resp, err := w.s.roundTrip(context.Background(), "world")
	if err != nil {
		w.s.logger.Debug("world query failed", "err", err)
		return &response{}
	}
	return resp
}

func (w *world) Particles() []ports.Particle { return w.snapshot().Particles }
func (w *world) Path() []ports.Pose          { return w.snapshot().Path }
func (w *world) Landmarks() []ports.Landmark { return w.snapshot().Landmarks }

func (w *world) Camera() ports.CameraFrame {
	if c := w.snapshot().Camera; c != nil {
		return *c
	}
	return ports.CameraFrame{}
}

type charger struct {
	s *Session
}

func (c *charger) Pose() ports.Pose {
	resp, err := c.s.roundTrip(context.Background(), "world")
	if err != nil || resp.Charger == nil {
		return ports.Pose{}
	}
	return *resp.Charger
}

type cube struct {
	s  *Session
	id int
}

func (c *cube) ID() int { return c.id }

func (c *cube) Pose() ports.Pose {
	resp, err := c.s.roundTrip(context.Background(), "world")
	if err != nil {
		return ports.Pose{}
	}
	for _, info := range resp.Cubes {
		if info.ID == c.id {
			return info.Pose
		}
	}
	return ports.Pose{}
}
