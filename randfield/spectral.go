// Package randfield generates correlated Gaussian random fields used for
// contact surfaces and internal heterogeneity.
package randfield

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/voxel"
)

// CovModel tags the covariance model of a simulated field.
type CovModel string

// Supported covariance models.
const (
	Gaussian    CovModel = "gau"
	Exponential CovModel = "exp"
)

// Provider produces correlated random fields over 2D or 3D domains. Fields
// are zero-mean; callers add their own mean or trend.
type Provider interface {
	Simulate2D(g *grid.Grid, variance float64, corl [2]float64, model CovModel) (*voxel.Plane, error)
	Simulate3D(g *grid.Grid, variance float64, corl [3]float64, model CovModel) (*voxel.Field, error)
}

// Spectral simulates random fields with the spectral (FFT) method: the
// covariance spectrum is sampled with complex Gaussian noise and transformed
// back to real space.
type Spectral struct {
	Rand *rand.Rand
}

// NewSpectral creates a spectral simulator drawing from the given stream.
func NewSpectral(rng *rand.Rand) *Spectral {
	return &Spectral{Rand: rng}
}

func covValue(variance, h float64, model CovModel) float64 {
	switch model {
	case Gaussian:
		return variance * math.Exp(-h*h)
	default:
		return variance * math.Exp(-h)
	}
}

// wrapped lag in units of the correlation length, respecting grid
// periodicity implied by the FFT.
func lag(i, n int, d, corl float64) float64 {
	m := i
	if n-i < m {
		m = n - i
	}
	if corl <= 0 {
		return 0
	}
	return float64(m) * d / corl
}

// Simulate2D returns a zero-mean correlated field over the (x, y) plane.
func (s *Spectral) Simulate2D(g *grid.Grid, variance float64, corl [2]float64, model CovModel) (*voxel.Plane, error) {
	if variance < 0 {
		return nil, fmt.Errorf("random field variance cannot be < 0, got %g", variance)
	}
	out := voxel.NewPlane(g.Nx, g.Ny)
	if variance == 0 {
		return out, nil
	}

	cov := make([][]complex128, g.Nx)
	for i := range cov {
		cov[i] = make([]complex128, g.Ny)
		for j := range cov[i] {
			hx := lag(i, g.Nx, g.Dx, corl[0])
			hy := lag(j, g.Ny, g.Dy, corl[1])
			cov[i][j] = complex(covValue(variance, math.Hypot(hx, hy), model), 0)
		}
	}

	spectrum := fft.FFT2(cov)
	ntot := float64(g.Nx * g.Ny)
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: s.Rand}
	for i := range spectrum {
		for j := range spectrum[i] {
			amp := math.Sqrt(cmplxAbs(spectrum[i][j]) / ntot)
			eps := complex(norm.Rand(), norm.Rand())
			spectrum[i][j] = eps * complex(amp, 0)
		}
	}

	field := fft.IFFT2(spectrum)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			out.Set(i, j, real(field[i][j])*ntot)
		}
	}
	return out, nil
}

// Simulate3D returns a zero-mean correlated field over the full voxel grid.
func (s *Spectral) Simulate3D(g *grid.Grid, variance float64, corl [3]float64, model CovModel) (*voxel.Field, error) {
	if variance < 0 {
		return nil, fmt.Errorf("random field variance cannot be < 0, got %g", variance)
	}
	out := voxel.NewField(g.Nx, g.Ny, g.Nz)
	if variance == 0 {
		return out, nil
	}

	cov := newCube(g.Nx, g.Ny, g.Nz)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				hx := lag(i, g.Nx, g.Dx, corl[0])
				hy := lag(j, g.Ny, g.Dy, corl[1])
				hz := lag(k, g.Nz, g.Dz, corl[2])
				h := math.Sqrt(hx*hx + hy*hy + hz*hz)
				cov[i][j][k] = complex(covValue(variance, h, model), 0)
			}
		}
	}

	fft3(cov, false)
	ntot := float64(g.Cells())
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: s.Rand}
	for i := range cov {
		for j := range cov[i] {
			for k := range cov[i][j] {
				amp := math.Sqrt(cmplxAbs(cov[i][j][k]) / ntot)
				eps := complex(norm.Rand(), norm.Rand())
				cov[i][j][k] = eps * complex(amp, 0)
			}
		}
	}
	fft3(cov, true)

	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				out.Set(i, j, k, real(cov[i][j][k])*ntot)
			}
		}
	}
	return out, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func newCube(nx, ny, nz int) [][][]complex128 {
	c := make([][][]complex128, nx)
	for i := range c {
		c[i] = make([][]complex128, ny)
		for j := range c[i] {
			c[i][j] = make([]complex128, nz)
		}
	}
	return c
}

// fft3 transforms the cube in place, one dimension at a time.
func fft3(c [][][]complex128, inverse bool) {
	nx, ny, nz := len(c), len(c[0]), len(c[0][0])
	apply := fft.FFT
	if inverse {
		apply = fft.IFFT
	}

	sliceZ := make([]complex128, nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			copy(sliceZ, c[i][j])
			copy(c[i][j], apply(sliceZ))
		}
	}

	sliceY := make([]complex128, ny)
	for i := 0; i < nx; i++ {
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				sliceY[j] = c[i][j][k]
			}
			for j, v := range apply(sliceY) {
				c[i][j][k] = v
			}
		}
	}

	sliceX := make([]complex128, nx)
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			for i := 0; i < nx; i++ {
				sliceX[i] = c[i][j][k]
			}
			for i, v := range apply(sliceX) {
				c[i][j][k] = v
			}
		}
	}
}
