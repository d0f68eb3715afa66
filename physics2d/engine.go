// Package physics2d declares the contract for the rigid-body solver the
// networked physics core treats as a black box. Nothing in this module
// implements a real solver: the world package only ever calls through this
// interface, and a host application supplies the concrete engine (an
// existing 2D physics library, or, for tests, the in-memory stub in this
// package).
package physics2d

import "github.com/go-gl/mathgl/mgl32"

// AABB is an axis-aligned bounding box used by QueryAABB.
type AABB struct {
	Min, Max mgl32.Vec2
}

// RayCastResult is the fraction/normal pair a ray cast callback receives,
// mirroring standard 2D-physics ray-cast semantics.
type RayCastResult struct {
	Point    mgl32.Vec2
	Normal   mgl32.Vec2
	Fraction float32
}

// RayCastCallback follows the conventional 2D-physics contract: -1 ignores
// the fixture, 0 stops the cast, a value in (0,1] clips the ray to that
// fraction, and 1 continues the cast unmodified.
type RayCastCallback func(handle Handle, result RayCastResult) float32

// QueryCallback is invoked for every fixture overlapping an AABB query. It
// returns false to stop the query early.
type QueryCallback func(handle Handle) bool

// Handle identifies a body inside the underlying solver. The world package
// never interprets it; it only stores it alongside an Obstacle and hands it
// back to the Engine.
type Handle any

// Engine is the black-box 2D physics solver. Bodies are described purely
// by the kinematic/flag/parameter state already modeled by the obstacle
// package; Engine is responsible for turning that into whatever internal
// representation the solver needs.
type Engine interface {
	// CreateBody registers a new body with the solver and returns a handle
	// used for all further calls about that body.
	CreateBody(spec BodySpec) Handle

	// DestroyBody removes a body from the solver.
	DestroyBody(h Handle)

	// Step advances the simulation by dt seconds.
	Step(dt float32)

	// State returns the solver's current kinematic state for a body.
	State(h Handle) BodyState

	// SetState pushes kinematic state into the solver, used when applying
	// a remote update or an interpolation step.
	SetState(h Handle, s BodyState)

	// QueryAABB invokes cb for every body whose fixture overlaps rect.
	QueryAABB(cb QueryCallback, rect AABB)

	// RayCast casts a ray from p1 to p2, invoking cb per intersecting
	// fixture in solver-defined order.
	RayCast(cb RayCastCallback, p1, p2 mgl32.Vec2)
}

// BodySpec is the subset of an Obstacle's state a solver needs to create a
// body.
type BodySpec struct {
	Position mgl32.Vec2
	Angle    float32
	Density  float32
	Friction float32
}

// BodyState is the kinematic state the synchronizer replicates.
type BodyState struct {
	Position   mgl32.Vec2
	Angle      float32
	LinearVel  mgl32.Vec2
	AngularVel float32
}
