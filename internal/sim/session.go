// Package sim provides an in-memory robot session used by --sim mode and by
// tests. It mirrors the shape of a live connection without any transport.
package sim

import (
	"context"
	"sync"

	"github.com/ariunbolor/cozmo-tools/pkg/ports"
)

// Session is a fully in-memory ports.Session. All state is settable so tests
// can script charger docking, pose errors, and motor halts.
type Session struct {
	mu         sync.Mutex
	pose       ports.Pose
	docked     bool
	poseErr    error
	motorStops int
	closed     bool

	world   *World
	charger *Charger
	cubes   []*Cube
}

// New creates a session parked at the origin, off the charger.
func New() *Session {
	s := &Session{
		world:   NewWorld(),
		charger: &Charger{pose: ports.Pose{X: -100, Y: 0}},
	}
	for i := 1; i <= ports.NumCubes; i++ {
		s.cubes = append(s.cubes, &Cube{id: i, pose: ports.Pose{X: float64(100 * i)}})
	}
	return s
}

func (s *Session) Pose(ctx context.Context) (ports.Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poseErr != nil {
		return ports.Pose{}, s.poseErr
	}
	return s.pose, nil
}

func (s *Session) OnCharger(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docked, nil
}

func (s *Session) StopAllMotors(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motorStops++
	return nil
}

func (s *Session) World() ports.World     { return s.world }
func (s *Session) Charger() ports.Charger { return s.charger }

func (s *Session) Cube(i int) (ports.Cube, bool) {
	if i < 1 || i > len(s.cubes) {
		return nil, false
	}
	return s.cubes[i-1], true
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SetPose moves the simulated robot.
func (s *Session) SetPose(p ports.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pose = p
}

// SetDocked places the robot on or off the charger.
func (s *Session) SetDocked(docked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docked = docked
}

// SetPoseError makes subsequent pose queries fail, simulating a stale
// connection.
func (s *Session) SetPoseError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poseErr = err
}

// MotorStops reports how many times actuation was halted.
func (s *Session) MotorStops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motorStops
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// World is a canned world model good enough for the viewers.
type World struct {
	mu        sync.Mutex
	particles []ports.Particle
	path      []ports.Pose
	landmarks []ports.Landmark
	frame     ports.CameraFrame
}

// NewWorld seeds a small deterministic world.
func NewWorld() *World {
	return &World{
		particles: []ports.Particle{
			{Pose: ports.Pose{X: 0, Y: 0}, Weight: 0.6},
			{Pose: ports.Pose{X: 5, Y: -3}, Weight: 0.4},
		},
		path: []ports.Pose{{X: 0, Y: 0}, {X: 50, Y: 0}},
		landmarks: []ports.Landmark{
			{ID: "charger", Pose: ports.Pose{X: -100, Y: 0}},
		},
		frame: ports.CameraFrame{Seq: 1, Width: 320, Height: 240},
	}
}

func (w *World) Particles() []ports.Particle {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ports.Particle, len(w.particles))
	copy(out, w.particles)
	return out
}

func (w *World) Path() []ports.Pose {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ports.Pose, len(w.path))
	copy(out, w.path)
	return out
}

func (w *World) Landmarks() []ports.Landmark {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ports.Landmark, len(w.landmarks))
	copy(out, w.landmarks)
	return out
}

func (w *World) Camera() ports.CameraFrame {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame
}

// Charger is the dock handle.
type Charger struct {
	pose ports.Pose
}

func (c *Charger) Pose() ports.Pose { return c.pose }

// Cube is one simulated light cube.
type Cube struct {
	id   int
	pose ports.Pose
}

func (c *Cube) ID() int          { return c.id }
func (c *Cube) Pose() ports.Pose { return c.pose }
