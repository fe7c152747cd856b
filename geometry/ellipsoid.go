// Package geometry provides the geometric primitives behind the
// depositional object generators: ellipsoid membership and surface
// gradients, dip-plane partitioning and meandering channel centrelines.
package geometry

import (
	"fmt"
	"math"
)

// Ellipsoid is a truncated ellipsoid with semi-axes a, b, c rotated about
// the vertical axis. Depositional objects only extend downward from their
// top surface, so membership requires the vertical offset to be <= 0.
type Ellipsoid struct {
	A, B, C    float64
	AlphaDeg   float64
	cosA, sinA float64
}

// NewEllipsoid validates the semi-axes and creates an ellipsoid rotated by
// alpha degrees about the vertical axis.
func NewEllipsoid(a, b, c, alphaDeg float64) (Ellipsoid, error) {
	for name, v := range map[string]float64{"a": a, "b": b, "c": c} {
		if v <= 0 {
			return Ellipsoid{}, fmt.Errorf("ellipsoid semi-axis %s cannot be <= 0, got %g", name, v)
		}
	}
	rad := alphaDeg * math.Pi / 180
	return Ellipsoid{A: a, B: b, C: c, AlphaDeg: alphaDeg, cosA: math.Cos(rad), sinA: math.Sin(rad)}, nil
}

// RadiusSq returns the rotated-and-scaled squared radius for offsets
// (dx, dy, dz) from the ellipsoid centre.
func (e Ellipsoid) RadiusSq(dx, dy, dz float64) float64 {
	u := dx*e.cosA + dy*e.sinA
	v := dx*e.sinA - dy*e.cosA
	return u*u/(e.A*e.A) + v*v/(e.B*e.B) + dz*dz/(e.C*e.C)
}

// Contains reports whether the offset point is inside the truncated
// ellipsoid.
func (e Ellipsoid) Contains(dx, dy, dz float64) bool {
	return dz <= 0 && e.RadiusSq(dx, dy, dz) <= 1
}

// SurfaceDipAzimuth derives the internal bedding orientation at the
// horizontal offset (dx, dy) from the tangent-plane normal of the lower
// ellipsoid surface. The dip is capped at maxDip degrees; the azimuth is
// the ellipsoid's rotation angle. Offsets outside the ellipsoid footprint
// yield a zero dip.
func (e Ellipsoid) SurfaceDipAzimuth(dx, dy, maxDip float64) (dip, azim float64) {
	u := dx*e.cosA + dy*e.sinA
	v := dx*e.sinA - dy*e.cosA

	rem := 1 - u*u/(e.A*e.A) - v*v/(e.B*e.B)
	if rem <= 0 {
		return 0, e.AlphaDeg
	}
	w := -e.C * math.Sqrt(rem)

	// gradient of the scaled radius in the ellipsoid frame
	gu := 2 * u / (e.A * e.A)
	gv := 2 * v / (e.B * e.B)
	gw := 2 * w / (e.C * e.C)

	norm := math.Sqrt(gu*gu + gv*gv + gw*gw)
	if norm == 0 {
		return 0, e.AlphaDeg
	}
	dip = math.Acos(math.Abs(gw)/norm) * 180 / math.Pi
	if dip > maxDip {
		dip = maxDip
	}
	return dip, e.AlphaDeg
}
