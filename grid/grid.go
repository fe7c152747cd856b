// Package grid provides the structured, cell-centred voxel grid that all
// simulation fields are defined on.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid describes a regular three-dimensional grid by its origin, cell
// spacing and cell counts. Grid nodes are cell-centred.
type Grid struct {
	Ox, Oy, Oz float64
	Dx, Dy, Dz float64
	Nx, Ny, Nz int
}

// New validates and creates a grid from origin, spacing and cell counts.
func New(ox, oy, oz, dx, dy, dz float64, nx, ny, nz int) (*Grid, error) {
	for axis, d := range map[string]float64{"x": dx, "y": dy, "z": dz} {
		if d <= 0 {
			return nil, fmt.Errorf("grid spacing in %s axis cannot be <= 0", axis)
		}
	}
	for axis, n := range map[string]int{"x": nx, "y": ny, "z": nz} {
		if n <= 0 {
			return nil, fmt.Errorf("grid cell count in %s axis cannot be <= 0", axis)
		}
	}
	return &Grid{Ox: ox, Oy: oy, Oz: oz, Dx: dx, Dy: dy, Dz: dz, Nx: nx, Ny: ny, Nz: nz}, nil
}

// FromExtents derives cell counts from domain lengths and spacings, the way
// parameter files describe the model domain.
func FromExtents(lx, ly, lz, dx, dy, dz float64) (*Grid, error) {
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, fmt.Errorf("domain lengths must be > 0, got (%g, %g, %g)", lx, ly, lz)
	}
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return nil, fmt.Errorf("grid spacings must be > 0, got (%g, %g, %g)", dx, dy, dz)
	}
	return New(0, 0, 0, dx, dy, dz, int(lx/dx), int(ly/dy), int(lz/dz))
}

// Lx returns the domain size along x.
func (g *Grid) Lx() float64 { return g.Dx * float64(g.Nx) }

// Ly returns the domain size along y.
func (g *Grid) Ly() float64 { return g.Dy * float64(g.Ny) }

// Lz returns the domain size along z.
func (g *Grid) Lz() float64 { return g.Dz * float64(g.Nz) }

// Cells returns the total number of grid cells.
func (g *Grid) Cells() int { return g.Nx * g.Ny * g.Nz }

// VecX returns the cell-centred x coordinates. The domain starts at the
// origin, with cell centres offset by half a spacing.
func (g *Grid) VecX() []float64 {
	v := make([]float64, g.Nx)
	if g.Nx == 1 {
		v[0] = g.Ox + g.Dx/2
		return v
	}
	floats.Span(v, g.Ox+g.Dx/2, g.Ox+g.Lx()-g.Dx/2)
	return v
}

// VecY returns the cell-centred y coordinates. The y axis is centred on the
// origin so channels and troughs meander symmetrically about y = Oy.
func (g *Grid) VecY() []float64 {
	v := make([]float64, g.Ny)
	if g.Ny == 1 {
		v[0] = g.Oy
		return v
	}
	floats.Span(v, g.Oy-g.Ly()/2+g.Dy/2, g.Oy+g.Ly()/2-g.Dy/2)
	return v
}

// VecZ returns the cell z coordinates, starting at the origin elevation.
func (g *Grid) VecZ() []float64 {
	v := make([]float64, g.Nz)
	if g.Nz == 1 {
		v[0] = g.Oz
		return v
	}
	floats.Span(v, g.Oz, g.Oz+g.Lz()-g.Dz)
	return v
}

// NodeVecZ returns the z coordinates of bounding nodes (one more entry than
// cells).
func (g *Grid) NodeVecZ() []float64 {
	v := make([]float64, g.Nz+1)
	floats.Span(v, g.Oz, g.Oz+g.Lz())
	return v
}

// IdxZ maps an elevation to the k index of the cell containing it. The
// result is not clamped to the grid.
func (g *Grid) IdxZ(z float64) int {
	return int(math.Round((z - g.Oz) / g.Dz))
}

// ClampZ restricts a k index to the valid [0, Nz) range.
func (g *Grid) ClampZ(k int) int {
	if k < 0 {
		return 0
	}
	if k >= g.Nz {
		return g.Nz - 1
	}
	return k
}

func (g *Grid) String() string {
	return fmt.Sprintf("grid origin (%g, %g, %g) spacing (%g, %g, %g) cells (%d, %d, %d)",
		g.Ox, g.Oy, g.Oz, g.Dx, g.Dy, g.Dz, g.Nx, g.Ny, g.Nz)
}
