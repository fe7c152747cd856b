package generator

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sedsim/sedsim/geometry"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/stratigraphy"
)

// SheetGen generates tabular bodies: either one massive body spanning the
// unit or a stack of horizontal lenses of fixed thickness. Sheets never cut
// downward into earlier units.
type SheetGen struct{}

// Generate implements Generator.
func (SheetGen) Generate(ctx *Context, unit *stratigraphy.Unit, elem *model.Element) error {
	if elem.LensThickness < 0 {
		return paintMassiveSheet(ctx, unit, elem)
	}
	return paintLenses(ctx, unit, elem)
}

func paintMassiveSheet(ctx *Context, unit *stratigraphy.Unit, elem *model.Element) error {
	g := ctx.Grid
	rng := ctx.Rand
	w := ctx.World

	if elem.Dip[1]-elem.Dip[0] != 0 {
		azim := distuv.Uniform{Min: elem.Azimuth[0], Max: elem.Azimuth[1], Src: rng}.Rand()
		ds, err := geometry.NewLinearDipSets(g, elem.DipSetSpacing, azim, elem.Dip, unit.BottomZ, rng)
		if err != nil {
			return err
		}
		facSet := ds.AssignFacies(elem.Facies, elem.AltFacies, rng)
		first := ctx.ReserveMaterials(int32(ds.NumSets()))

		xv, yv, zv := g.VecX(), g.VecY(), g.VecZ()
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				for k := 0; k < g.Nz; k++ {
					if w.AE.At(i, j, k) != unit.ID {
						continue
					}
					set := ds.SetIndex(xv[i], yv[j], zv[k])
					w.paint(i, j, k, unit, first+int32(set), facSet[set], 0, ds.Dip)
				}
			}
		}
		return nil
	}

	id := ctx.NextMaterial()
	fac := elem.Facies[rng.Intn(len(elem.Facies))]
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				if w.AE.At(i, j, k) != unit.ID {
					continue
				}
				w.paint(i, j, k, unit, id, fac, 0, 0)
			}
		}
	}
	return nil
}

func paintLenses(ctx *Context, unit *stratigraphy.Unit, elem *model.Element) error {
	g := ctx.Grid
	rng := ctx.Rand
	w := ctx.World

	thickness := elem.LensThickness
	if elem.GeoZTrend != nil {
		thickness *= geoZFactor(g, elem.GeoZTrend, (unit.BottomZ+unit.TopZ)/2)
	}
	if thickness <= 0 {
		thickness = g.Dz
	}

	hasDip := elem.Dip[1]-elem.Dip[0] != 0
	xv, yv, zv := g.VecX(), g.VecY(), g.VecZ()

	// extend past the unit top so the uppermost slab is never left empty
	for znow := unit.BottomZ; znow < unit.TopZ+thickness; znow += thickness {
		kLo := clampIdx(g.IdxZ(znow), 0, g.Nz)
		kHi := clampIdx(g.IdxZ(znow+thickness), 0, g.Nz)
		if kLo >= kHi {
			continue
		}

		if hasDip {
			azim := distuv.Uniform{Min: elem.Azimuth[0], Max: elem.Azimuth[1], Src: rng}.Rand()
			ds, err := geometry.NewLinearDipSets(g, elem.DipSetSpacing, azim, elem.Dip, znow, rng)
			if err != nil {
				return err
			}
			facSet := ds.AssignFacies(elem.Facies, elem.AltFacies, rng)
			first := ctx.ReserveMaterials(int32(ds.NumSets()))
			for i := 0; i < g.Nx; i++ {
				for j := 0; j < g.Ny; j++ {
					for k := kLo; k < kHi; k++ {
						if w.AE.At(i, j, k) != unit.ID {
							continue
						}
						set := ds.SetIndex(xv[i], yv[j], zv[k])
						w.paint(i, j, k, unit, first+int32(set), facSet[set], 0, ds.Dip)
					}
				}
			}
			continue
		}

		id := ctx.NextMaterial()
		fac := elem.Facies[rng.Intn(len(elem.Facies))]
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				for k := kLo; k < kHi; k++ {
					if w.AE.At(i, j, k) != unit.ID {
						continue
					}
					w.paint(i, j, k, unit, id, fac, 0, 0)
				}
			}
		}
	}
	return nil
}
