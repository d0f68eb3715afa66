package netsync

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func vecAdd(a, b mgl32.Vec2) mgl32.Vec2   { return mgl32.Vec2{a.X() + b.X(), a.Y() + b.Y()} }
func vecSub(a, b mgl32.Vec2) mgl32.Vec2   { return mgl32.Vec2{a.X() - b.X(), a.Y() - b.Y()} }
func vecScale(a mgl32.Vec2, k float32) mgl32.Vec2 { return mgl32.Vec2{a.X() * k, a.Y() * k} }
func vecLen(a mgl32.Vec2) float32         { return a.Len() }

// lerpVec and lerpF implement the fixed update's linear interpolation step:
// next = (target - current) / stepsLeft + current.
func lerpVec(current, target mgl32.Vec2, inv float32) mgl32.Vec2 {
	return vecAdd(vecScale(vecSub(target, current), inv), current)
}

func lerpF(current, target, inv float32) float32 {
	return (target-current)*inv + current
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func roundI(v float32) int {
	return int(math.Round(float64(v)))
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
