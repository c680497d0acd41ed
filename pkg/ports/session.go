package ports

import "context"

// NumCubes is the fixed number of addressable light cubes on a session.
const NumCubes = 3

// Pose is a planar robot pose in millimeters and radians.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Particle is one localization hypothesis.
type Particle struct {
	Pose   Pose    `json:"pose"`
	Weight float64 `json:"weight"`
}

// Landmark is a named fixed feature on the world map.
type Landmark struct {
	ID   string `json:"id"`
	Pose Pose   `json:"pose"`
}

// CameraFrame is one camera snapshot descriptor.
type CameraFrame struct {
	Seq    int `json:"seq"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// World is the session's world model, read by the viewers and by program
// code. Accessors return snapshots; failures degrade to empty values because
// the viewers must never take the shell down.
type World interface {
	Particles() []Particle
	Path() []Pose
	Landmarks() []Landmark
	Camera() CameraFrame
}

// Charger is the charging dock handle.
type Charger interface {
	Pose() Pose
}

// Cube is one addressable light cube.
type Cube interface {
	ID() int
	Pose() Pose
}

// Session is the connection to the robot. The shell owns exactly one and
// injects it, its world, and its sub-objects into every loaded program.
type Session interface {
	// Pose doubles as the per-cycle liveness probe.
	Pose(ctx context.Context) (Pose, error)

	// OnCharger reports whether the robot is docked (motion disabled).
	OnCharger(ctx context.Context) (bool, error)

	// StopAllMotors halts actuation immediately. Called on every interrupt
	// and before any program teardown.
	StopAllMotors(ctx context.Context) error

	World() World
	Charger() Charger

	// Cube returns the i-th cube (1-based); ok is false outside [1, NumCubes].
	Cube(i int) (Cube, bool)

	Close() error
}
