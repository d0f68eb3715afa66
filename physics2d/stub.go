package physics2d

import "github.com/go-gl/mathgl/mgl32"

// StubEngine is a minimal in-memory Engine used by this module's own tests
// and by hosts that want to exercise the session/world/synchronizer stack
// without a real solver. It does not integrate any equations of motion: it
// only stores and returns whatever state it was given.
type StubEngine struct {
	next  int
	state map[int]BodyState
}

// NewStubEngine returns an empty StubEngine.
func NewStubEngine() *StubEngine {
	return &StubEngine{state: make(map[int]BodyState)}
}

func (e *StubEngine) CreateBody(spec BodySpec) Handle {
	e.next++
	h := e.next
	e.state[h] = BodyState{Position: spec.Position, Angle: spec.Angle}
	return h
}

func (e *StubEngine) DestroyBody(h Handle) {
	delete(e.state, h.(int))
}

// Step is a no-op: StubEngine never integrates motion on its own, it only
// reflects whatever SetState last pushed in.
func (e *StubEngine) Step(dt float32) {}

func (e *StubEngine) State(h Handle) BodyState {
	return e.state[h.(int)]
}

func (e *StubEngine) SetState(h Handle, s BodyState) {
	e.state[h.(int)] = s
}

func (e *StubEngine) QueryAABB(cb QueryCallback, rect AABB) {
	for h, s := range e.state {
		if s.Position.X() < rect.Min.X() || s.Position.X() > rect.Max.X() {
			continue
		}
		if s.Position.Y() < rect.Min.Y() || s.Position.Y() > rect.Max.Y() {
			continue
		}
		if !cb(h) {
			return
		}
	}
}

// RayCast is unimplemented on the stub: it has no fixtures to intersect.
func (e *StubEngine) RayCast(cb RayCastCallback, p1, p2 mgl32.Vec2) {}
