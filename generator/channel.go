package generator

import (
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sedsim/sedsim/geometry"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/stratigraphy"
)

// ChannelGen generates meandering channel fill. Per vertical step it lays
// one centreline per configured channel, rasterises the distance to the
// centreline and an inverse-distance-weighted flow velocity per column, and
// paints an elliptical cross-section that narrows parabolically with depth.
// Erosive.
type ChannelGen struct{}

// Generate implements Generator.
func (ChannelGen) Generate(ctx *Context, unit *stratigraphy.Unit, elem *model.Element) error {
	g := ctx.Grid
	rng := ctx.Rand
	yv := g.VecY()

	chBot := unit.BottomZ
	if elem.Buffer > 0 {
		chBot += elem.Depth * elem.Buffer
	}
	chTop := unit.TopZ + elem.ChannelMigration[2]

	// per-channel start offsets, migrated between vertical steps
	xStart := make([]float64, elem.ChannelNo)
	yStart := make([]float64, elem.ChannelNo)
	for c := range xStart {
		if !ctx.Domain.Display {
			xStart[c] = distuv.Uniform{Min: -10, Max: 0, Src: rng}.Rand()
		}
		yStart[c] = distuv.Uniform{Min: yv[0], Max: yv[len(yv)-1], Src: rng}.Rand()
	}

	for znow := chBot; znow < chTop; znow += elem.ChannelMigration[2] {
		log.Debugf("channel unit %d: level z = %.2f", unit.ID, znow)
		zf := geoZFactor(g, elem.GeoZTrend, znow)
		width := elem.Width * zf
		depth := elem.Depth * zf

		for c := 0; c < elem.ChannelNo; c++ {
			pts := geometry.Ferguson(g, elem.MeanderH, elem.MeanderK, elem.MeanderDs, elem.MeanderEps, 0, ctx.Domain.Display, rng)
			if len(pts) == 0 {
				// centreline missed the domain; sparse placement is fine
				continue
			}
			for i := range pts {
				pts[i].X += xStart[c]
				pts[i].Y += yStart[c]
				if ctx.Domain.Periodic {
					for pts[i].Y < yv[0] {
						pts[i].Y += g.Ly()
					}
					for pts[i].Y > yv[len(yv)-1] {
						pts[i].Y -= g.Ly()
					}
				}
			}
			if err := paintChannelLevel(ctx, unit, elem, pts, znow, width, depth); err != nil {
				return err
			}
		}

		for c := range xStart {
			xStart[c] += elem.ChannelMigration[0]
			yStart[c] += elem.ChannelMigration[1]
		}
	}
	return nil
}

func paintChannelLevel(ctx *Context, unit *stratigraphy.Unit, elem *model.Element, pts []geometry.CentrelinePoint, znow, width, depth float64) error {
	g := ctx.Grid
	rng := ctx.Rand
	w := ctx.World
	xv, yv, zv := g.VecX(), g.VecY(), g.VecZ()

	kTop := g.IdxZ(znow)
	kLo := clampIdx(g.IdxZ(znow-depth), 0, g.Nz)
	kHi := clampIdx(kTop, 0, g.Nz)
	if kLo >= kHi {
		return nil
	}

	// minimum centreline distance and inverse-distance-weighted velocity
	// per column
	n := g.Nx * g.Ny
	dist := make([]float64, n)
	sumW := make([]float64, n)
	vx := make([]float64, n)
	vy := make([]float64, n)
	for i := range dist {
		dist[i] = 1e20
	}
	for _, p := range pts {
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				idx := i*g.Ny + j
				r := math.Hypot(xv[i]-p.X, yv[j]-p.Y)
				if r < dist[idx] {
					dist[idx] = r
				}
				wgt := 1e-20
				if r < width/2 {
					wgt = 1 / (r + 1e-20)
				}
				vx[idx] += p.Vx * wgt
				vy[idx] += p.Vy * wgt
				sumW[idx] += wgt
			}
		}
	}
	for i := range vx {
		vx[i] /= sumW[i]
		vy[i] /= sumW[i]
	}

	// facies: dip sets along the centreline, or one random facies
	var ds *geometry.DipSets
	var facSet []int32
	var fac int32
	if elem.Dip[0]+elem.Dip[1] > 0 {
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ys[i] = p.X, p.Y
		}
		var err error
		ds, err = geometry.NewChannelDipSets(xs, ys, elem.DipSetSpacing, elem.Dip, znow, rng)
		if err != nil {
			log.Debugf("channel unit %d: dip sets skipped: %v", unit.ID, err)
			ds = nil
		}
		if ds != nil {
			facSet = ds.AssignFacies(elem.Facies, elem.AltFacies, rng)
		}
	}
	if ds == nil {
		fac = elem.Facies[rng.Intn(len(elem.Facies))]
	}

	id := ctx.NextMaterial()
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			idx := i*g.Ny + j
			if math.IsNaN(vx[idx]) || math.IsNaN(vy[idx]) {
				continue
			}
			d2 := dist[idx] * dist[idx]
			for k := kLo; k < kHi; k++ {
				// elliptical cross-section shrinking with depth
				dzBelow := float64(kTop-k) * g.Dz
				lim := width*width/4 - math.Pow(dzBelow*width/(2*depth), 2)
				if d2 > lim {
					continue
				}
				if w.AE.At(i, j, k) > unit.ID {
					continue
				}

				f := fac
				if ds != nil {
					f = facSet[ds.SetIndex(xv[i], yv[j], zv[k])]
				}
				if elem.LagDeposit != nil && znow-depth+elem.LagDeposit.Depth > zv[k] {
					f = elem.LagDeposit.Facies
				}

				azim := math.Round((math.Atan2(vx[idx], vy[idx]) - math.Pi/2) * 180 / math.Pi)
				dip := 0.0
				if ds != nil {
					dip = ds.Dip
				}
				w.paint(i, j, k, unit, id, f, azim, dip)
			}
		}
	}
	return nil
}
