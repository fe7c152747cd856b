// Package generator paints depositional objects into the shared voxel
// world. All generators honour the same contract: a voxel may only be
// painted while its current element id is <= the active unit's id, so later
// units overwrite earlier ones (painter's algorithm) but never units that
// have not been generated yet.
package generator

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/stratigraphy"
	"github.com/sedsim/sedsim/voxel"
)

// World is the shared mutable set of voxel fields produced by the facies
// stage. It is owned by the orchestrator and lent to one generator at a
// time.
type World struct {
	Seq *voxel.IntField
	AE  *voxel.IntField
	Mat *voxel.IntField
	Fac *voxel.IntField

	Azim *voxel.Field
	Dip  *voxel.Field
}

// NewWorld allocates the world fields for a grid.
func NewWorld(g *grid.Grid) *World {
	return &World{
		Seq:  voxel.NewIntField(g.Nx, g.Ny, g.Nz),
		AE:   voxel.NewIntField(g.Nx, g.Ny, g.Nz),
		Mat:  voxel.NewIntField(g.Nx, g.Ny, g.Nz),
		Fac:  voxel.NewIntField(g.Nx, g.Ny, g.Nz),
		Azim: voxel.NewField(g.Nx, g.Ny, g.Nz),
		Dip:  voxel.NewField(g.Nx, g.Ny, g.Nz),
	}
}

// Context carries everything a generator call needs: the grid, the single
// random stream, the domain flags, the world and the running material-id
// counter. Generators never retain it beyond the call.
type Context struct {
	Grid   *grid.Grid
	Rand   *rand.Rand
	Domain *model.Domain
	World  *World

	matCounter int32
}

// NewContext creates a context whose material counter starts at the given
// value (the world background id).
func NewContext(g *grid.Grid, rng *rand.Rand, d *model.Domain, w *World, firstMaterial int32) *Context {
	return &Context{Grid: g, Rand: rng, Domain: d, World: w, matCounter: firstMaterial}
}

// NextMaterial advances the counter and returns a fresh material id.
func (c *Context) NextMaterial() int32 {
	c.matCounter++
	return c.matCounter
}

// ReserveMaterials reserves n consecutive ids and returns the first.
func (c *Context) ReserveMaterials(n int32) int32 {
	first := c.matCounter + 1
	c.matCounter += n
	return first
}

// MaterialCount returns the highest id handed out so far.
func (c *Context) MaterialCount() int32 { return c.matCounter }

// FillUnitBackground paints the unit's region with a fresh material id and
// the background facies and bedding, before any objects run.
func (c *Context) FillUnitBackground(unit *stratigraphy.Unit, elem *model.Element, seq *model.Sequence) {
	bg := model.Background{Facies: seq.BgFacies, Azimuth: seq.BgAzimuth, Dip: seq.BgDip}
	if elem != nil && elem.Background != nil {
		bg = *elem.Background
	}
	id := c.NextMaterial()
	w := c.World
	for i := 0; i < c.Grid.Nx; i++ {
		for j := 0; j < c.Grid.Ny; j++ {
			for k := 0; k < c.Grid.Nz; k++ {
				if w.AE.At(i, j, k) != unit.ID {
					continue
				}
				w.Mat.Set(i, j, k, id)
				w.Fac.Set(i, j, k, bg.Facies)
				w.Azim.Set(i, j, k, bg.Azimuth)
				w.Dip.Set(i, j, k, bg.Dip)
			}
		}
	}
}

// Generator paints one architectural-element unit into the world.
type Generator interface {
	Generate(ctx *Context, unit *stratigraphy.Unit, elem *model.Element) error
}

// ForElement returns the generator matching an element's geometry.
func ForElement(e *model.Element) (Generator, error) {
	switch e.Geometry {
	case model.TruncEllip:
		return Trough{}, nil
	case model.Channel:
		return ChannelGen{}, nil
	case model.Sheet:
		return SheetGen{}, nil
	default:
		return nil, fmt.Errorf("element %q: no generator for geometry %q", e.Name, e.Geometry)
	}
}

// geoZFactor interpolates a depth trend factor at elevation z.
func geoZFactor(g *grid.Grid, trend *[2]float64, z float64) float64 {
	if trend == nil {
		return 1
	}
	t := (z - g.Oz) / g.Lz()
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return trend[0] + t*(trend[1]-trend[0])
}

// paint writes one voxel under the AE mask, claiming it for the unit.
func (w *World) paint(i, j, k int, unit *stratigraphy.Unit, mat, fac int32, azim, dip float64) {
	w.AE.Set(i, j, k, unit.ID)
	w.Seq.Set(i, j, k, int32(unit.SeqIndex))
	w.Mat.Set(i, j, k, mat)
	w.Fac.Set(i, j, k, fac)
	w.Azim.Set(i, j, k, azim)
	w.Dip.Set(i, j, k, dip)
}

func clampIdx(v, lo, hi int) int {
	return int(math.Min(math.Max(float64(v), float64(lo)), float64(hi)))
}
