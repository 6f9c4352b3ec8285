// Package core provides fundamental types and utilities for the autosplitter.
// It contains no external dependencies (especially no Bubble Tea) to keep the
// trigger logic pure and testable.
package core

import "fmt"

// Vec3 is a point in game world units.
type Vec3 struct {
	X, Y, Z float64
}

// V creates a new point from its coordinates.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// DistSq returns the squared Euclidean distance between two points.
// Triggers compare against squared radii so no square root is needed.
func (v Vec3) DistSq(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// IsOrigin reports whether all three coordinates are exactly zero.
func (v Vec3) IsOrigin() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// String formats the point the way the debug log prints positions.
func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// Predicate is a geometric containment or threshold test over a point.
type Predicate interface {
	// Contains reports whether the point is inside or past the trigger.
	Contains(p Vec3) bool
}

// Sphere is satisfied by any point within its radius (inclusive).
type Sphere struct {
	Center   Vec3
	RadiusSq float64
}

// NewSphere creates a sphere trigger from a center and a plain radius.
func NewSphere(x, y, z, radius float64) Sphere {
	return Sphere{Center: V(x, y, z), RadiusSq: radius * radius}
}

// Contains returns true if p lies within the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return s.Center.DistSq(p) <= s.RadiusSq
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere %v r²=%g", s.Center, s.RadiusSq)
}

// UpperSphere is a sphere that only counts points at or above its center.
// Used where a checkpoint must be reached from below.
type UpperSphere struct {
	Center   Vec3
	RadiusSq float64
}

// NewUpperSphere creates an upper-hemisphere trigger from a plain radius.
func NewUpperSphere(x, y, z, radius float64) UpperSphere {
	return UpperSphere{Center: V(x, y, z), RadiusSq: radius * radius}
}

// Contains returns true if p lies within the sphere and not below its center.
func (s UpperSphere) Contains(p Vec3) bool {
	return s.Center.DistSq(p) <= s.RadiusSq && s.Center.Z <= p.Z
}

func (s UpperSphere) String() string {
	return fmt.Sprintf("upper-sphere %v r²=%g", s.Center, s.RadiusSq)
}

// Box is an axis-aligned rectangle in the XY plane with unbounded height.
type Box struct {
	X1, X2 float64
	Y1, Y2 float64
}

// NewBox creates a box trigger. Argument order is x-range then y-range.
func NewBox(x1, x2, y1, y2 float64) Box {
	return Box{X1: x1, X2: x2, Y1: y1, Y2: y2}
}

// Contains returns true if p's x and y fall within both ranges, inclusive.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.X1 && p.X <= b.X2 && p.Y >= b.Y1 && p.Y <= b.Y2
}

func (b Box) String() string {
	return fmt.Sprintf("box x[%g, %g] y[%g, %g]", b.X1, b.X2, b.Y1, b.Y2)
}

// Height is satisfied once the point climbs to Z or above.
type Height struct {
	Z float64
}

// NewHeight creates a height plane trigger.
func NewHeight(z float64) Height {
	return Height{Z: z}
}

// Contains returns true if p is at or above the plane.
func (h Height) Contains(p Vec3) bool {
	return p.Z >= h.Z
}

func (h Height) String() string {
	return fmt.Sprintf("height z>=%g", h.Z)
}
