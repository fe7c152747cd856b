package geometry

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sedsim/sedsim/grid"
)

// DipSets partitions an object into parallel inclined bedding intervals.
// Evenly spaced reference points, placed along an azimuth direction or
// along a channel centreline, each carry a plane whose normal is tilted by
// the sampled dip angle; voxels are classified by signed distance to
// successive planes.
type DipSets struct {
	px, py     []float64 // plane reference points
	nx, ny, nz []float64 // plane normals (not normalised)
	z          float64   // elevation of the reference points

	Dip     float64 // sampled dip angle in degrees
	Azimuth float64 // azimuth of the set direction in degrees
}

// NewLinearDipSets lays reference points along the azimuth direction,
// spanning well past the domain so every voxel falls between two planes.
// The dip angle is drawn once from dipRange.
func NewLinearDipSets(g *grid.Grid, spacing, azimuthDeg float64, dipRange [2]float64, z float64, rng *rand.Rand) (*DipSets, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("dip set spacing cannot be <= 0, got %g", spacing)
	}
	dip := distuv.Uniform{Min: dipRange[0], Max: dipRange[1], Src: rng}.Rand()

	// jitter the start so set boundaries differ between instances
	start := -spacing*20 + distuv.Uniform{Min: 0, Max: spacing, Src: rng}.Rand()
	end := g.Lx()*1.5 - start

	az := azimuthDeg * math.Pi / 180
	cosAz, sinAz := math.Cos(az), math.Sin(az)
	vert := math.Tan((90 - dip) * math.Pi / 180)

	d := &DipSets{z: z, Dip: dip, Azimuth: azimuthDeg}
	for lamb := start; lamb < end; lamb += spacing {
		d.px = append(d.px, lamb*cosAz)
		d.py = append(d.py, lamb*sinAz)
		d.nx = append(d.nx, cosAz)
		d.ny = append(d.ny, sinAz)
		d.nz = append(d.nz, vert)
	}
	if len(d.px) < 2 {
		return nil, fmt.Errorf("dip set spacing %g yields fewer than two planes", spacing)
	}
	return d, nil
}

// NewChannelDipSets lays reference points along a channel centreline,
// resampled to the set spacing; each plane's normal follows the local
// centreline direction.
func NewChannelDipSets(xc, yc []float64, spacing float64, dipRange [2]float64, z float64, rng *rand.Rand) (*DipSets, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("dip set spacing cannot be <= 0, got %g", spacing)
	}
	px, py, err := CurveInterp(xc, yc, spacing)
	if err != nil {
		return nil, err
	}
	if len(px) < 2 {
		return nil, fmt.Errorf("channel centreline too short for dip sets")
	}

	dip := distuv.Uniform{Min: dipRange[0], Max: dipRange[1], Src: rng}.Rand()
	vertFactor := math.Tan((90 - dip) * math.Pi / 180)

	d := &DipSets{px: px, py: py, z: z, Dip: dip}
	for i := range px {
		i2 := i
		if i2 == len(px)-1 {
			i2 = len(px) - 2
		}
		dx := px[i2+1] - px[i2]
		dy := py[i2+1] - py[i2]
		h := math.Hypot(dx, dy)
		d.nx = append(d.nx, dx)
		d.ny = append(d.ny, dy)
		d.nz = append(d.nz, h*vertFactor)
	}
	return d, nil
}

// NumSets returns the number of intervals voxels can be assigned to,
// including the default interval 0.
func (d *DipSets) NumSets() int { return len(d.px) }

func (d *DipSets) distance(i int, x, y, z float64) float64 {
	dx := d.px[i] - x
	dy := d.py[i] - y
	dz := d.z - z
	dot := d.nx[i]*dx + d.ny[i]*dy + d.nz[i]*dz
	return dot / math.Sqrt(d.nx[i]*d.nx[i]+d.ny[i]*d.ny[i]+d.nz[i]*d.nz[i])
}

// SetIndex classifies a point into the first interval whose leading plane
// is behind it and trailing plane ahead of it. Unclassified points fall
// into interval 0.
func (d *DipSets) SetIndex(x, y, z float64) int {
	prev := d.distance(0, x, y, z)
	for i := 1; i < len(d.px); i++ {
		next := d.distance(i, x, y, z)
		if prev <= 0 && next > 0 {
			return i
		}
		prev = next
	}
	return 0
}

// AssignFacies draws one facies per interval, either uniformly from the
// facies list or by cycling an alternation table keyed by the previous
// interval's facies.
func (d *DipSets) AssignFacies(facies []int32, alt [][]int32, rng *rand.Rand) []int32 {
	out := make([]int32, d.NumSets())
	if len(facies) == 0 {
		return out
	}
	if len(alt) == len(facies) {
		current := facies[rng.Intn(len(facies))]
		for i := range out {
			out[i] = current
			idx := 0
			for fi, f := range facies {
				if f == current {
					idx = fi
					break
				}
			}
			choices := alt[idx]
			if len(choices) == 0 {
				choices = facies
			}
			current = choices[rng.Intn(len(choices))]
		}
		return out
	}
	for i := range out {
		out[i] = facies[rng.Intn(len(facies))]
	}
	return out
}
