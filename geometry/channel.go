package geometry

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sedsim/sedsim/grid"
)

// CentrelinePoint is one sample of a channel centreline: position and the
// local flow velocity vector.
type CentrelinePoint struct {
	X, Y   float64
	Vx, Vy float64
}

// ar2Coefficients returns the Ferguson (1976, eq. 15) autoregression
// coefficients for wavenumber k and damping h.
func ar2Coefficients(k, h float64) (b1, b2 float64) {
	b1 = 2 * math.Exp(-k*h) * math.Cos(k*math.Asin(h))
	b2 = -math.Exp(-2 * k * h)
	return b1, b2
}

func thetaAR2(t1, t2, k, h, eps float64) float64 {
	b1, b2 := ar2Coefficients(k, h)
	return eps + b1*t1 + b2*t2
}

// fergusonTheta generates the direction-angle sequence of the disturbed
// meander model. The first step carries no disturbance.
func fergusonTheta(n int, epsFactor, k, h float64, rng *rand.Rand) []float64 {
	theta := make([]float64, n)
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	for i := 1; i < n; i++ {
		t2 := 0.0
		if i >= 2 {
			t2 = theta[i-2]
		}
		eps := norm.Rand() * epsFactor
		theta[i] = thetaAR2(theta[i-1], t2, k, h, eps)
	}
	return theta
}

// Ferguson simulates a channel centreline with the Ferguson (1976)
// disturbed AR(2) meander model: integrate the direction-angle sequence at
// fixed step length, resample to uniform arc-length spacing, rotate into
// the mean flow direction, shift to a randomised start and clip to the
// domain's x extent. dist overrides the generated length (defaults to
// twice the domain length); display pins the channel to the y origin.
func Ferguson(g *grid.Grid, h, k, ds, epsFactor, dist float64, display bool, rng *rand.Rand) []CentrelinePoint {
	ds += 1e-10
	length := dist
	if length <= 0 {
		length = g.Lx() * 2
	}
	n := int(length / ds)
	if n < 2 {
		n = 2
	}

	theta := fergusonTheta(n, epsFactor, k, h, rng)

	xs := make([]float64, n)
	ys := make([]float64, n)
	x, y := 0.0, 0.0
	meanTheta := 0.0
	for i, th := range theta {
		x += ds * math.Cos(th)
		y += ds * math.Sin(th)
		xs[i] = x
		ys[i] = y
		meanTheta += th
	}
	meanTheta /= float64(n)

	// rotate the polyline so the mean direction aligns with the x axis
	rot := -meanTheta
	cosR, sinR := math.Cos(rot), math.Sin(rot)
	for i := range xs {
		xr := cosR*xs[i] - sinR*ys[i]
		yr := sinR*xs[i] + cosR*ys[i]
		xs[i], ys[i] = xr, yr
	}

	xn, yn, err := CurveInterp(xs, ys, ds)
	if err != nil || len(xn) < 2 {
		return nil
	}

	// randomised upstream entry point
	xShift := distuv.Uniform{Min: -50, Max: -10, Src: rng}.Rand()
	if display {
		xShift = 0
	}
	for i := range xn {
		xn[i] += xShift
	}

	// clip to the domain's x extent
	var pts []CentrelinePoint
	for i := range xn {
		if xn[i] < g.Ox || xn[i] > g.Ox+g.Lx() {
			continue
		}
		pts = append(pts, CentrelinePoint{X: xn[i], Y: yn[i]})
	}
	if len(pts) < 2 {
		return nil
	}

	// randomise the y origin unless a display channel is requested
	startY := 0.0
	if display {
		startY = pts[0].Y
	} else if math.Abs(pts[0].Y) > g.Ly()/4 {
		startY = pts[0].Y - distuv.Uniform{Min: -g.Ly() / 4, Max: g.Ly() / 4, Src: rng}.Rand()
	}
	for i := range pts {
		pts[i].Y -= startY
	}

	// local velocity from consecutive samples
	for i := 0; i < len(pts)-1; i++ {
		pts[i].Vx = pts[i+1].X - pts[i].X
		pts[i].Vy = pts[i+1].Y - pts[i].Y
	}
	pts[len(pts)-1].Vx = pts[len(pts)-2].Vx
	pts[len(pts)-1].Vy = pts[len(pts)-2].Vy

	return pts
}

// CurveInterp resamples a polyline to evenly spaced points, walking the
// segments and emitting a linearly interpolated point every time the
// accumulated distance crosses the spacing.
func CurveInterp(xc, yc []float64, spacing float64) ([]float64, []float64, error) {
	if spacing <= 0 {
		return nil, nil, fmt.Errorf("curve spacing cannot be <= 0, got %g", spacing)
	}
	if len(xc) != len(yc) || len(xc) < 2 {
		return nil, nil, fmt.Errorf("curve needs at least two matching points, got %d/%d", len(xc), len(yc))
	}

	xn := []float64{xc[0]}
	yn := []float64{yc[0]}
	acc := 0.0
	for i := 1; i < len(xc); i++ {
		segX := xc[i] - xc[i-1]
		segY := yc[i] - yc[i-1]
		segLen := math.Hypot(segX, segY)
		if segLen == 0 {
			continue
		}
		pos := 0.0
		for acc+(segLen-pos) >= spacing {
			step := spacing - acc
			pos += step
			f := pos / segLen
			xn = append(xn, xc[i-1]+f*segX)
			yn = append(yn, yc[i-1]+f*segY)
			acc = 0
		}
		acc += segLen - pos
	}
	return xn, yn, nil
}
