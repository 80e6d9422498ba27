// Package geometry - Planar helpers for object-aligned boxes and coordinate
// transforms around the (center, target, width) pose of an object.
package geometry

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate is returned when a direction is requested between two
// coincident points.
var ErrDegenerate = errors.New("degenerate direction vector")

// Pt is shorthand for r2.Vec{X: x, Y: y}.
func Pt(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}

// direction returns the unit vector from p0 to p1.
func direction(p0, p1 r2.Vec) (r2.Vec, error) {
	d := r2.Sub(p1, p0)
	if r2.Norm(d) == 0 {
		return r2.Vec{}, errors.Wrapf(ErrDegenerate, "points %v and %v coincide", p0, p1)
	}
	return r2.Unit(d), nil
}

// AlongVector moves p0 by dist in the direction of p1.
//
// Arguments:
// - p0: The starting point.
// - p1: A point giving the direction.
// - dist: The distance to travel; negative values travel away from p1.
//
// Returns:
// - The new point.
// - ErrDegenerate if p0 and p1 coincide.
//
// @example
// p, _ := AlongVector(Pt(0, 0), Pt(10, 0), 3) // (3, 0)
func AlongVector(p0, p1 r2.Vec, dist float64) (r2.Vec, error) {
	u, err := direction(p0, p1)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Add(p0, r2.Scale(dist, u)), nil
}

// Perpendicular returns the two points at distance dist from p1 along the
// perpendicular of the segment p0-p1. The first is rotated +90 degrees from
// the direction p0->p1, the second -90 degrees.
func Perpendicular(p0, p1 r2.Vec, dist float64) (r2.Vec, r2.Vec, error) {
	u, err := direction(p0, p1)
	if err != nil {
		return r2.Vec{}, r2.Vec{}, err
	}
	v1 := r2.Vec{X: -u.Y, Y: u.X}
	v2 := r2.Vec{X: u.Y, Y: -u.X}
	return r2.Add(p1, r2.Scale(dist, v1)), r2.Add(p1, r2.Scale(dist, v2)), nil
}

// RotatePoint rotates p counterclockwise by angle radians around origin.
func RotatePoint(origin, p r2.Vec, angle float64) r2.Vec {
	return r2.Rotate(p, angle, origin)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// finite reports whether both coordinates are finite.
func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
