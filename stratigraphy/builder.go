package stratigraphy

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/randfield"
	"github.com/sedsim/sedsim/voxel"
)

// thickness draws use a fixed 10% relative standard deviation
const thicknessSDRatio = 0.1

// Stratigraphy is the builder's product: the sequence and element id
// fields, the ordered unit table and the per-unit bottom contact surfaces
// needed for the erosion amendment.
type Stratigraphy struct {
	SeqField *voxel.IntField
	AEField  *voxel.IntField
	Units    []*Unit

	// bottom contact surface of each unit, by unit id
	UnitBottoms []*voxel.Plane

	SeqBottoms []float64
	SeqTops    []float64
}

// Builder produces the stratigraphic decomposition for one realization.
type Builder struct {
	Grid      *grid.Grid
	Rand      *rand.Rand
	Fields    randfield.Provider
	Sequences []model.Sequence
	Elements  map[string]*model.Element
}

// Build runs contact simulation, unit allocation and field painting.
func (b *Builder) Build() (*Stratigraphy, error) {
	s := &Stratigraphy{
		SeqField: voxel.NewIntField(b.Grid.Nx, b.Grid.Ny, b.Grid.Nz),
		AEField:  voxel.NewIntField(b.Grid.Nx, b.Grid.Ny, b.Grid.Nz),
	}

	seqTopPlanes, err := b.buildSequences(s)
	if err != nil {
		return nil, err
	}
	if err := b.allocateUnits(s); err != nil {
		return nil, err
	}
	if err := b.paintUnits(s, seqTopPlanes); err != nil {
		return nil, err
	}
	return s, nil
}

// buildSequences classifies voxels into sequences by simulating one top
// contact per sequence (flat or correlated random, rounded to the vertical
// resolution). A single-sequence domain skips contact simulation entirely.
func (b *Builder) buildSequences(s *Stratigraphy) ([]*voxel.Plane, error) {
	g := b.Grid
	n := len(b.Sequences)
	if n == 0 {
		return nil, fmt.Errorf("no sequences defined")
	}

	tops := make([]*voxel.Plane, n)
	s.SeqBottoms = make([]float64, n)
	s.SeqTops = make([]float64, n)

	if n == 1 {
		s.SeqBottoms[0] = g.Oz
		s.SeqTops[0] = g.Oz + g.Lz()
		tops[0] = voxel.NewPlane(g.Nx, g.Ny)
		tops[0].Fill(g.Oz + g.Lz())
		return tops, nil
	}

	log.Debug("generating sequence contacts")
	zv := g.VecZ()
	zBot := voxel.NewPlane(g.Nx, g.Ny)
	zBot.Fill(g.Oz)

	for si, seq := range b.Sequences {
		zTop := voxel.NewPlane(g.Nx, g.Ny)
		if seq.ContactModel != nil && si != n-1 {
			cm := *seq.ContactModel
			field, err := b.Fields.Simulate2D(g, cm[0], [2]float64{cm[1], cm[2]}, randfield.Gaussian)
			if err != nil {
				return nil, err
			}
			for i := 0; i < g.Nx; i++ {
				for j := 0; j < g.Ny; j++ {
					zTop.Set(i, j, roundTo(field.At(i, j)+seq.Top, g.Dz))
				}
			}
		} else {
			zTop.Fill(seq.Top)
		}

		s.SeqBottoms[si] = math.Max(zBot.Mean(), g.Oz)
		s.SeqTops[si] = math.Min(zTop.Mean(), g.Oz+g.Lz())

		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				bot, top := zBot.At(i, j), zTop.At(i, j)
				for k, z := range zv {
					if z >= bot && z < top {
						s.SeqField.Set(i, j, k, int32(si))
					}
				}
			}
		}

		zBot = zTop
		tops[si] = zTop
	}
	return tops, nil
}

// allocateUnits walks each sequence bottom-up, sampling element type,
// thickness and avulsion until the sequence top is reached.
func (b *Builder) allocateUnits(s *Stratigraphy) error {
	g := b.Grid
	log.Debug("allocating architectural element units")

	var id int32
	for si, seq := range b.Sequences {
		seqTop := math.Min(g.Oz+g.Lz(), s.SeqTops[si])

		if len(seq.Elements) == 0 {
			// no catalog: a single uniform unit spans the sequence
			s.Units = append(s.Units, &Unit{
				ID: id, SeqIndex: si,
				BottomZ: s.SeqBottoms[si], TopZ: seqTop,
			})
			id++
			continue
		}

		znow := s.SeqBottoms[si]
		for znow < seqTop {
			ei := b.chooseElement(seq)
			mean := seq.MeanThickness[ei]
			thickness := roundTo(distuv.Normal{Mu: mean, Sigma: mean * thicknessSDRatio, Src: b.Rand}.Rand(), g.Dz)
			if thickness < g.Dz {
				thickness = g.Dz
			}

			s.Units = append(s.Units, &Unit{
				ID:       id,
				Element:  seq.Elements[ei],
				SeqIndex: si,
				BottomZ:  znow,
				TopZ:     math.Min(znow+thickness, g.Oz+g.Lz()),
			})
			id++

			jump := 0.0
			if b.Rand.Float64() < seq.AvulsionProb {
				jump = -distuv.Uniform{Min: seq.AvulsionRange[0], Max: seq.AvulsionRange[1], Src: b.Rand}.Rand()
			}
			znow += thickness + jump
		}
	}
	if len(s.Units) == 0 {
		return fmt.Errorf("no architectural element units allocated")
	}
	return nil
}

// chooseElement samples an element index by cumulative weight.
func (b *Builder) chooseElement(seq model.Sequence) int {
	w := sampleuv.NewWeighted(seq.Probabilities, b.Rand)
	i, ok := w.Take()
	if !ok {
		return 0
	}
	return i
}

// paintUnits computes the top contact surface of every unit in creation
// order and classifies voxels into units, masked by sequence membership.
func (b *Builder) paintUnits(s *Stratigraphy, seqTops []*voxel.Plane) error {
	g := b.Grid
	zv := g.VecZ()

	zBot := voxel.NewPlane(g.Nx, g.Ny)
	zBot.Fill(g.Oz)
	s.UnitBottoms = make([]*voxel.Plane, len(s.Units))

	for ui, unit := range s.Units {
		var zTop *voxel.Plane
		elem := b.Elements[unit.Element]

		switch {
		case ui == len(s.Units)-1:
			// uppermost unit in the domain
			zTop = voxel.NewPlane(g.Nx, g.Ny)
			zTop.Fill(g.Oz + g.Lz())
		case s.Units[ui+1].SeqIndex != unit.SeqIndex:
			// uppermost unit in its sequence
			zTop = seqTops[unit.SeqIndex]
		case elem != nil && elem.Contact == model.ContactRandom:
			cm := elem.ContactModel
			field, err := b.Fields.Simulate2D(g, cm[0], [2]float64{cm[1], cm[2]}, randfield.Gaussian)
			if err != nil {
				return err
			}
			zTop = voxel.NewPlane(g.Nx, g.Ny)
			for i := 0; i < g.Nx; i++ {
				for j := 0; j < g.Ny; j++ {
					zTop.Set(i, j, roundTo(field.At(i, j)+unit.TopZ, g.Dz))
				}
			}
			unit.TopZ = zTop.Mean()
		default:
			zTop = voxel.NewPlane(g.Nx, g.Ny)
			zTop.Fill(unit.TopZ)
		}

		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				bot, top := zBot.At(i, j), zTop.At(i, j)
				for k, z := range zv {
					if z >= bot && z < top && s.SeqField.At(i, j, k) == int32(unit.SeqIndex) {
						s.AEField.Set(i, j, k, unit.ID)
					}
				}
			}
		}

		bottom := voxel.NewPlane(g.Nx, g.Ny)
		copy(bottom.Data, zBot.Data)
		s.UnitBottoms[ui] = bottom
		zBot = zTop
	}
	return nil
}

func roundTo(x, base float64) float64 {
	return math.Round(x/base) * base
}
