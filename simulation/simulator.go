// Package simulation orchestrates whole realizations: stratigraphy, object
// generation, hydraulic property assignment and output.
package simulation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/sedsim/sedsim/format"
	"github.com/sedsim/sedsim/generator"
	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/hydraulics"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/randfield"
	"github.com/sedsim/sedsim/stratigraphy"
	"github.com/sedsim/sedsim/voxel"
)

// Realization bundles everything one model run produced.
type Realization struct {
	Grid  *grid.Grid
	World *generator.World
	Strat *stratigraphy.Stratigraphy
	Props *hydraulics.Result
}

// Simulator runs the configured number of realizations and writes their
// outputs.
type Simulator struct {
	Run        *model.Run
	Domain     *model.Domain
	Sequences  []model.Sequence
	Elements   map[string]*model.Element
	Hydraulics *model.Hydraulics
}

// Execute runs all realizations. The random stream is seeded once, so a
// fixed seed reproduces the whole batch.
func (s *Simulator) Execute() error {
	g, err := grid.FromExtents(s.Domain.Lx, s.Domain.Ly, s.Domain.Lz, s.Domain.Dx, s.Domain.Dy, s.Domain.Dz)
	if err != nil {
		return err
	}

	seed := s.Run.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	log.Infof("run %q: %d realization(s) on %s, seed %d", s.Run.Name, s.Run.NumSim, g, seed)

	for n := 0; n < s.Run.NumSim; n++ {
		start := time.Now()
		r, err := s.Realize(g, rng)
		if err != nil {
			return fmt.Errorf("realization %d: %w", n+1, err)
		}
		log.Infof("realization %d/%d finished in %s", n+1, s.Run.NumSim, time.Since(start).Round(time.Millisecond))
		if err := s.write(r, n); err != nil {
			return err
		}
	}
	return nil
}

// Realize produces a single realization on the given grid using the given
// random stream.
func (s *Simulator) Realize(g *grid.Grid, rng *rand.Rand) (*Realization, error) {
	fields := &randfield.Spectral{Rand: rng}

	builder := &stratigraphy.Builder{
		Grid:      g,
		Rand:      rng,
		Fields:    fields,
		Sequences: s.Sequences,
		Elements:  s.Elements,
	}
	strat, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := checkUnitOrder(strat.Units); err != nil {
		return nil, err
	}

	world := generator.NewWorld(g)
	world.Seq = strat.SeqField
	world.AE = strat.AEField

	ctx := generator.NewContext(g, rng, s.Domain, world, 0)
	for ui, unit := range strat.Units {
		elem := s.Elements[unit.Element]
		if elem == nil || elem.Geometry != model.Sheet {
			ctx.FillUnitBackground(unit, elem, &s.Sequences[unit.SeqIndex])
		}
		if elem == nil {
			continue
		}

		log.Infof("generating %s (unit %d) from %.2f m", unit.Element, unit.ID, unit.BottomZ)
		gen, err := generator.ForElement(elem)
		if err != nil {
			return nil, err
		}
		if err := gen.Generate(ctx, unit, elem); err != nil {
			return nil, err
		}

		// single erosion amendment of the bottom record
		bottom := strat.UnitBottoms[ui]
		if elem.Erosive() {
			err = unit.AmendBottom(bottom.Max())
		} else {
			err = unit.AmendBottom(bottom.Min())
		}
		if err != nil {
			return nil, err
		}
	}

	reindexMaterials(world.Mat)
	log.Debugf("%d material bodies after reindexing", len(world.Mat.Unique()))

	if !s.Domain.Anisotropy {
		world.Dip.Fill(0)
		world.Azim.Fill(0)
	}

	assembler := &hydraulics.Assembler{
		Grid:       g,
		Rand:       rng,
		Fields:     fields,
		Domain:     s.Domain,
		Hydraulics: s.Hydraulics,
		Elements:   s.Elements,
		Sequences:  s.Sequences,
	}
	props, err := assembler.Assign(world, strat.Units)
	if err != nil {
		return nil, err
	}
	return &Realization{Grid: g, World: world, Strat: strat, Props: props}, nil
}

// checkUnitOrder rejects a unit catalog whose ids are not strictly
// increasing in deposition order. Erosion masks rely on the ordering.
func checkUnitOrder(units []*stratigraphy.Unit) error {
	for i := 1; i < len(units); i++ {
		if units[i].ID <= units[i-1].ID {
			return fmt.Errorf("unit %d breaks deposition order: id %d after %d",
				i, units[i].ID, units[i-1].ID)
		}
	}
	return nil
}

// reindexMaterials remaps surviving material ids onto a dense range
// starting at 1. Ids of fully eroded bodies vanish here. Id 0 is the
// unassigned sentinel and stays 0 so the background pass can find those
// cells.
func reindexMaterials(f *voxel.IntField) {
	ids := f.Unique()
	remap := make(map[int32]int32, len(ids))
	var next int32
	for _, id := range ids {
		if id == 0 {
			remap[0] = 0
			continue
		}
		next++
		remap[id] = next
	}
	for i := range f.Data {
		f.Data[i] = remap[f.Data[i]]
	}
}

func (s *Simulator) write(r *Realization, n int) error {
	if len(s.Run.Outputs) == 0 {
		return nil
	}
	dir := s.Run.OutDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := filepath.Join(dir, fmt.Sprintf("%s_%03d", s.Run.Name, n+1))

	for _, out := range s.Run.Outputs {
		switch out {
		case "vtk":
			ints := []format.IntArray{
				{Name: "sequence", Field: r.World.Seq},
				{Name: "ae", Field: r.World.AE},
				{Name: "material", Field: r.World.Mat},
				{Name: "facies", Field: r.World.Fac},
			}
			floats := []format.FloatArray{
				{Name: "azimuth", Field: r.World.Azim},
				{Name: "dip", Field: r.World.Dip},
				{Name: "k_iso", Field: r.Props.Kiso},
				{Name: "porosity", Field: r.Props.Poros},
				{Name: "anirat", Field: r.Props.Anirat},
			}
			if err := format.WriteVTK(base+".vtk", s.Run.Name, r.Grid, ints, floats); err != nil {
				return err
			}
		case "gob":
			cp := &format.Checkpoint{
				Grid:     *r.Grid,
				Seq:      r.World.Seq,
				AE:       r.World.AE,
				Mat:      r.World.Mat,
				Fac:      r.World.Fac,
				Azim:     r.World.Azim,
				Dip:      r.World.Dip,
				Kiso:     r.Props.Kiso,
				Poros:    r.Props.Poros,
				Anirat:   r.Props.Anirat,
				Ktensors: r.Props.Ktensors,
			}
			if err := format.WriteCheckpoint(base+".gob", cp); err != nil {
				return err
			}
		}
	}
	return nil
}
