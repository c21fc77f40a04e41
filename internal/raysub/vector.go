package raysub

import "math"

// Vec3 represents a direction (not a position) in 3D space.
type Vec3 struct {
	X, Y, Z Real
}

// Dot returns the dot product between two 3D vectors.
func (a Vec3) Dot(b Vec3) Real {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Len returns the Euclidean length of the vector.
func (v Vec3) Len() Real { return math.Sqrt(v.Dot(v)) }

// Norm returns a unit-length version of the vector.  Lengths below dirEps are
// floored so a degenerate zero direction cannot produce Inf components.
func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l < dirEps {
		l = dirEps
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}
