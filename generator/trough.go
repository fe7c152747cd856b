package generator

import (
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sedsim/sedsim/geometry"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/stratigraphy"
)

// Trough generates truncated-ellipsoid fill. At every aggradation level it
// spawns randomly placed (or migrating) ellipsoids with randomized
// orientation and semi-axes, each painted with one of the internal
// structures: flat dip layering, a single surface-conformal bulb, nested
// bulb shells with alternating facies, or dip-plane sets. Erosive.
type Trough struct{}

// Generate implements Generator.
func (Trough) Generate(ctx *Context, unit *stratigraphy.Unit, elem *model.Element) error {
	g := ctx.Grid
	rng := ctx.Rand

	trBot := unit.BottomZ
	if elem.Buffer > 0 {
		trBot += elem.Depth * elem.Buffer
	}
	trTop := unit.TopZ
	if trBot > trTop {
		trTop = trBot
	}
	trTop += elem.Aggradation

	perLevel := int(math.Ceil(elem.Density * g.Lx() * g.Ly()))
	if perLevel < 1 {
		perLevel = 1
	}

	var xnow, ynow float64
	firstLevel := true
	for znow := trBot; znow < trTop; znow += elem.Aggradation {
		for n := 0; n < perLevel; n++ {
			zf := geoZFactor(g, elem.GeoZTrend, znow)
			a := elem.Length * zf / 2
			b := elem.Width * zf / 2
			c := elem.Depth * zf

			switch {
			case ctx.Domain.Display:
				xnow, ynow = g.Lx()/2, 0
			case elem.Migration != nil && !firstLevel:
				m := *elem.Migration
				xnow += distuv.Uniform{Min: m[0], Max: m[1], Src: rng}.Rand()
				ynow += distuv.Uniform{Min: m[2], Max: m[3], Src: rng}.Rand()
			default:
				xnow = distuv.Uniform{Min: 0, Max: g.Lx(), Src: rng}.Rand()
				ynow = distuv.Uniform{Min: -g.Ly() / 2, Max: g.Ly() / 2, Src: rng}.Rand()
			}

			alpha := distuv.Uniform{Min: elem.Paleoflow[0], Max: elem.Paleoflow[1], Src: rng}.Rand()
			azim := distuv.Uniform{Min: elem.Azimuth[0], Max: elem.Azimuth[1], Src: rng}.Rand()

			ell, err := geometry.NewEllipsoid(a, b, c, alpha)
			if err != nil {
				return err
			}
			if err := paintEllipsoid(ctx, unit, elem, ell, xnow, ynow, znow, azim); err != nil {
				return err
			}
		}
		firstLevel = false
	}
	return nil
}

// troughSelection is the set of voxels inside one ellipsoid that the unit
// is allowed to paint, with their offsets from the ellipsoid centre.
type troughSelection struct {
	i, j, k    []int
	dx, dy, dz []float64
}

func (s *troughSelection) add(i, j, k int, dx, dy, dz float64) {
	s.i = append(s.i, i)
	s.j = append(s.j, j)
	s.k = append(s.k, k)
	s.dx = append(s.dx, dx)
	s.dy = append(s.dy, dy)
	s.dz = append(s.dz, dz)
}

// selectEllipsoid collects paintable voxels inside the ellipsoid. With
// periodic boundaries, offsets wrap at the domain half-length before the
// membership test.
func selectEllipsoid(ctx *Context, unit *stratigraphy.Unit, ell geometry.Ellipsoid, xc, yc, zc float64) *troughSelection {
	g := ctx.Grid
	xv, yv, zv := g.VecX(), g.VecY(), g.VecZ()
	sel := &troughSelection{}

	iLo, iHi := 0, g.Nx
	jLo, jHi := 0, g.Ny
	kLo, kHi := 0, g.Nz
	if !ctx.Domain.Periodic {
		r := ell.A
		if ell.B > r {
			r = ell.B
		}
		iLo = clampIdx(int((xc-r-g.Ox)/g.Dx)-1, 0, g.Nx)
		iHi = clampIdx(int((xc+r-g.Ox)/g.Dx)+2, 0, g.Nx)
		jLo = clampIdx(int((yc-r-(yv[0]))/g.Dy)-1, 0, g.Ny)
		jHi = clampIdx(int((yc+r-(yv[0]))/g.Dy)+2, 0, g.Ny)
		kLo = clampIdx(g.IdxZ(zc-ell.C)-1, 0, g.Nz)
		kHi = clampIdx(g.IdxZ(zc)+2, 0, g.Nz)
	}

	for i := iLo; i < iHi; i++ {
		for j := jLo; j < jHi; j++ {
			for k := kLo; k < kHi; k++ {
				dx := xv[i] - xc
				dy := yv[j] - yc
				dz := zv[k] - zc
				if ctx.Domain.Periodic {
					dx = wrap(dx, g.Lx())
					dy = wrap(dy, g.Ly())
					dz = wrap(dz, g.Lz())
				}
				if !ell.Contains(dx, dy, dz) {
					continue
				}
				if ctx.World.AE.At(i, j, k) > unit.ID {
					continue
				}
				sel.add(i, j, k, dx, dy, dz)
			}
		}
	}
	return sel
}

func wrap(d, l float64) float64 {
	if d > l/2 {
		return d - l
	}
	if d < -l/2 {
		return d + l
	}
	return d
}

func paintEllipsoid(ctx *Context, unit *stratigraphy.Unit, elem *model.Element, ell geometry.Ellipsoid, xc, yc, zc float64, azim float64) error {
	g := ctx.Grid
	rng := ctx.Rand
	w := ctx.World
	id := ctx.NextMaterial()

	sel := selectEllipsoid(ctx, unit, ell, xc, yc, zc)
	if len(sel.i) == 0 {
		// sparse placement is expected, not an error
		log.Debugf("trough ellipsoid at (%.1f, %.1f, %.1f) selected no voxels", xc, yc, zc)
		return nil
	}

	structure := elem.Structure
	if structure == model.StructureRandom {
		if rng.Intn(2) == 0 {
			structure = model.StructureDip
		} else {
			structure = model.StructureBulbL
		}
	}
	if ctx.Domain.HetLevel == model.HetAE {
		structure = model.StructureFlat
	}

	switch structure {
	case model.StructureBulb:
		fac := elem.Facies[rng.Intn(len(elem.Facies))]
		paintBulb(ctx, unit, sel, ell, elem.Dip[1], id, fac)

	case model.StructureBulbL:
		paintBulbShells(ctx, unit, elem, sel, ell, id)

	case model.StructureDip:
		// dip planes run relative to the ellipsoid's paleoflow direction
		azTotal := ell.AlphaDeg + distuv.Uniform{Min: elem.Azimuth[0], Max: elem.Azimuth[1], Src: rng}.Rand()
		ds, err := geometry.NewLinearDipSets(g, elem.DipSetSpacing, azTotal, elem.Dip, zc, rng)
		if err != nil {
			return err
		}
		facSet := ds.AssignFacies(elem.Facies, elem.AltFacies, rng)
		xv, yv, zv := g.VecX(), g.VecY(), g.VecZ()
		for n := range sel.i {
			i, j, k := sel.i[n], sel.j[n], sel.k[n]
			set := ds.SetIndex(xv[i], yv[j], zv[k])
			w.paint(i, j, k, unit, id, facSet[set], ds.Azimuth, ds.Dip)
		}

	default: // flat layering
		fac := elem.Facies[rng.Intn(len(elem.Facies))]
		dip := distuv.Uniform{Min: elem.Dip[0], Max: elem.Dip[1], Src: rng}.Rand()
		for n := range sel.i {
			w.paint(sel.i[n], sel.j[n], sel.k[n], unit, id, fac, azim, dip)
		}
	}
	return nil
}

// paintBulb paints one surface-conformal shell: dip and azimuth derive from
// the ellipsoid surface gradient at the top of each column and are
// broadcast down through the column.
func paintBulb(ctx *Context, unit *stratigraphy.Unit, sel *troughSelection, ell geometry.Ellipsoid, maxDip float64, id, fac int32) {
	w := ctx.World

	// topmost selected layer per column
	type colKey struct{ i, j int }
	topDip := map[colKey]float64{}
	topAzim := map[colKey]float64{}
	topK := map[colKey]int{}
	for n := range sel.i {
		key := colKey{sel.i[n], sel.j[n]}
		if k, ok := topK[key]; !ok || sel.k[n] > k {
			topK[key] = sel.k[n]
			dip, azim := ell.SurfaceDipAzimuth(sel.dx[n], sel.dy[n], maxDip)
			topDip[key] = dip
			topAzim[key] = azim
		}
	}
	for n := range sel.i {
		key := colKey{sel.i[n], sel.j[n]}
		w.paint(sel.i[n], sel.j[n], sel.k[n], unit, id, fac, topAzim[key], topDip[key])
	}
}

// paintBulbShells paints nested shells at shrinking scale, outermost first,
// with facies alternating per shell.
func paintBulbShells(ctx *Context, unit *stratigraphy.Unit, elem *model.Element, sel *troughSelection, ell geometry.Ellipsoid, id int32) {
	rng := ctx.Rand

	var fac int32
	first := true
	for cNow := ell.C; cNow > 0; cNow -= elem.BulbSetSpacing {
		scale := cNow / ell.C
		shell, err := geometry.NewEllipsoid(ell.A*scale, ell.B*scale, cNow, ell.AlphaDeg)
		if err != nil {
			return
		}

		inner := &troughSelection{}
		for n := range sel.i {
			if shell.Contains(sel.dx[n], sel.dy[n], sel.dz[n]) {
				inner.add(sel.i[n], sel.j[n], sel.k[n], sel.dx[n], sel.dy[n], sel.dz[n])
			}
		}
		if len(inner.i) == 0 {
			continue
		}

		if first {
			fac = elem.Facies[rng.Intn(len(elem.Facies))]
			first = false
		} else if len(elem.AltFacies) == len(elem.Facies) {
			idx := 0
			for fi, f := range elem.Facies {
				if f == fac {
					idx = fi
					break
				}
			}
			choices := elem.AltFacies[idx]
			if len(choices) == 0 {
				choices = elem.Facies
			}
			fac = choices[rng.Intn(len(choices))]
		} else {
			fac = elem.Facies[rng.Intn(len(elem.Facies))]
		}

		paintBulb(ctx, unit, inner, shell, elem.Dip[1], id, fac)
	}
}
