// Package hydraulics populates conductivity, porosity and anisotropy from
// the finished facies fields and assembles the per-voxel conductivity
// tensor.
package hydraulics

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/sedsim/sedsim/generator"
	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/model"
	"github.com/sedsim/sedsim/randfield"
	"github.com/sedsim/sedsim/stratigraphy"
	"github.com/sedsim/sedsim/voxel"
)

// Result holds the hydraulic property fields of one realization.
type Result struct {
	Kiso     *voxel.Field
	Poros    *voxel.Field
	Anirat   *voxel.Field
	Ktensors *voxel.TensorField
}

// Assembler assigns hydraulic properties per (material, facies) group and
// builds the anisotropic conductivity tensor field.
type Assembler struct {
	Grid       *grid.Grid
	Rand       *rand.Rand
	Fields     randfield.Provider
	Domain     *model.Domain
	Hydraulics *model.Hydraulics
	Elements   map[string]*model.Element
	Sequences  []model.Sequence
}

// Assign produces the hydraulic fields for a finished world.
func (a *Assembler) Assign(w *generator.World, units []*stratigraphy.Unit) (*Result, error) {
	g := a.Grid
	res := &Result{
		Kiso:   voxel.NewField(g.Nx, g.Ny, g.Nz),
		Poros:  voxel.NewField(g.Nx, g.Ny, g.Nz),
		Anirat: voxel.NewField(g.Nx, g.Ny, g.Nz),
	}
	res.Anirat.Fill(1)

	facIdx := map[int32]int{}
	for i, f := range a.Hydraulics.Facies {
		facIdx[f] = i
	}

	if a.Domain.Heterogeneity {
		if err := a.assignHeterogeneous(w, units, res, facIdx); err != nil {
			return nil, err
		}
	} else {
		a.assignHomogeneous(w, res, facIdx)
	}

	if err := a.applyTrends(w, units, res); err != nil {
		return nil, err
	}

	res.Ktensors = a.assembleTensors(w, res)
	return res, nil
}

func (a *Assembler) assignHeterogeneous(w *generator.World, units []*stratigraphy.Unit, res *Result, facIdx map[int32]int) error {
	log.Debug("assigning hydraulic properties per material group")
	for _, mi := range w.Mat.Unique() {
		if mi == 0 {
			// unassigned cells get the background field below
			continue
		}
		for _, fi := range faciesUnder(w, mi) {
			hi, ok := facIdx[fi]
			if !ok {
				return fmt.Errorf("no hydraulic parameters for facies %d", fi)
			}
			switch a.Domain.HetLevel {
			case model.HetInternal:
				if err := a.nestGroupFields(w, mi, fi, hi, res); err != nil {
					return err
				}
			default:
				a.fillGroup(w, mi, fi, res.Kiso, a.Hydraulics.KMean[hi])
				a.fillGroup(w, mi, fi, res.Poros, a.Hydraulics.Porosity[hi])
			}
			if a.Domain.Anisotropy {
				a.fillGroup(w, mi, fi, res.Anirat, a.Hydraulics.KRatio[hi])
			}
		}
	}

	return a.assignBackground(w, units, res, facIdx)
}

// faciesUnder returns the distinct facies ids within one material body.
func faciesUnder(w *generator.World, mi int32) []int32 {
	sub := voxel.NewIntField(w.Mat.Nx, w.Mat.Ny, w.Mat.Nz)
	nodata := int32(-1)
	for i := range sub.Data {
		sub.Data[i] = nodata
		if w.Mat.Data[i] == mi {
			sub.Data[i] = w.Fac.Data[i]
		}
	}
	var out []int32
	for _, f := range sub.Unique() {
		if f != nodata {
			out = append(out, f)
		}
	}
	return out
}

func (a *Assembler) fillGroup(w *generator.World, mi, fi int32, field *voxel.Field, v float64) {
	for i := range field.Data {
		if w.Mat.Data[i] == mi && w.Fac.Data[i] == fi {
			field.Data[i] = v
		}
	}
}

// nestGroupFields simulates correlated sub-fields over the group's bounding
// box and nests them back into the full-size arrays. Insertion bounds are
// derived from the sub-field's own shape, so box and slice always agree.
func (a *Assembler) nestGroupFields(w *generator.World, mi, fi int32, hi int, res *Result) error {
	g := a.Grid
	iLo, iHi, jLo, jHi, kLo, kHi, any := groupBounds(w, mi, fi)
	if !any {
		return nil
	}

	sub, err := grid.New(g.Ox, g.Oy, g.Oz, g.Dx, g.Dy, g.Dz, iHi-iLo+1, jHi-jLo+1, kHi-kLo+1)
	if err != nil {
		return err
	}

	h := a.Hydraulics
	kField, err := a.Fields.Simulate3D(sub, h.KSigma[hi], h.KCorl[hi], randfield.Exponential)
	if err != nil {
		return err
	}
	nField, err := a.Fields.Simulate3D(sub, h.PorosSigma[hi], h.PorosCorl[hi], randfield.Exponential)
	if err != nil {
		return err
	}

	for i := 0; i < kField.Nx; i++ {
		for j := 0; j < kField.Ny; j++ {
			for k := 0; k < kField.Nz; k++ {
				gi, gj, gk := i+iLo, j+jLo, k+kLo
				if w.Mat.At(gi, gj, gk) != mi || w.Fac.At(gi, gj, gk) != fi {
					continue
				}
				// log-normal conductivity, normal porosity
				res.Kiso.Set(gi, gj, gk, math.Exp(kField.At(i, j, k))*h.KMean[hi])
				res.Poros.Set(gi, gj, gk, nField.At(i, j, k)+h.Porosity[hi])
			}
		}
	}
	return nil
}

func groupBounds(w *generator.World, mi, fi int32) (iLo, iHi, jLo, jHi, kLo, kHi int, any bool) {
	iLo, jLo, kLo = w.Mat.Nx, w.Mat.Ny, w.Mat.Nz
	iHi, jHi, kHi = -1, -1, -1
	for i := 0; i < w.Mat.Nx; i++ {
		for j := 0; j < w.Mat.Ny; j++ {
			for k := 0; k < w.Mat.Nz; k++ {
				if w.Mat.At(i, j, k) != mi || w.Fac.At(i, j, k) != fi {
					continue
				}
				any = true
				if i < iLo {
					iLo = i
				}
				if i > iHi {
					iHi = i
				}
				if j < jLo {
					jLo = j
				}
				if j > jHi {
					jHi = j
				}
				if k < kLo {
					kLo = k
				}
				if k > kHi {
					kHi = k
				}
			}
		}
	}
	return
}

// assignBackground layers a domain-scale field under any still-unassigned
// (material 0) cells, per architectural element. Below the internal
// heterogeneity level the background facies scalars are used instead of a
// simulated field.
func (a *Assembler) assignBackground(w *generator.World, units []*stratigraphy.Unit, res *Result, facIdx map[int32]int) error {
	g := a.Grid
	h := a.Hydraulics
	for _, unit := range units {
		bgFacies := a.Sequences[unit.SeqIndex].BgFacies
		if elem := a.Elements[unit.Element]; elem != nil && elem.Background != nil {
			bgFacies = elem.Background.Facies
		}
		hi, ok := facIdx[bgFacies]
		if !ok {
			return fmt.Errorf("no hydraulic parameters for background facies %d", bgFacies)
		}

		var kField, nField *voxel.Field
		if a.Domain.HetLevel == model.HetInternal {
			var err error
			kField, err = a.Fields.Simulate3D(g, h.KSigma[hi], h.KCorl[hi], randfield.Exponential)
			if err != nil {
				return err
			}
			nField, err = a.Fields.Simulate3D(g, h.PorosSigma[hi], h.PorosCorl[hi], randfield.Exponential)
			if err != nil {
				return err
			}
		}

		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				for k := 0; k < g.Nz; k++ {
					if w.Mat.At(i, j, k) != 0 || w.AE.At(i, j, k) != unit.ID {
						continue
					}
					if kField != nil {
						res.Kiso.Set(i, j, k, math.Exp(kField.At(i, j, k))*h.KMean[hi])
						res.Poros.Set(i, j, k, nField.At(i, j, k)+h.Porosity[hi])
					} else {
						res.Kiso.Set(i, j, k, h.KMean[hi])
						res.Poros.Set(i, j, k, h.Porosity[hi])
					}
					if a.Domain.Anisotropy {
						res.Anirat.Set(i, j, k, h.KRatio[hi])
					}
				}
			}
		}
	}
	return nil
}

func (a *Assembler) assignHomogeneous(w *generator.World, res *Result, facIdx map[int32]int) {
	for fi, hi := range facIdx {
		h := a.Hydraulics
		for n := range w.Fac.Data {
			if w.Fac.Data[n] != fi {
				continue
			}
			res.Kiso.Data[n] = h.KMean[hi]
			res.Poros.Data[n] = h.Porosity[hi]
			if a.Domain.Anisotropy {
				res.Anirat.Data[n] = h.KRatio[hi]
			}
		}
	}
}

// applyTrends multiplies conductivity by linear x and/or z factors, either
// globally or per element type.
func (a *Assembler) applyTrends(w *generator.World, units []*stratigraphy.Unit, res *Result) error {
	g := a.Grid
	h := a.Hydraulics

	if h.Scope != model.TrendElement {
		if h.KXTrend == nil && h.KZTrend == nil {
			return nil
		}
		xf := trendVector(h.KXTrend, g.Nx)
		zf := trendVector(h.KZTrend, g.Nz)
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				for k := 0; k < g.Nz; k++ {
					res.Kiso.Set(i, j, k, res.Kiso.At(i, j, k)*xf[i]*zf[k])
				}
			}
		}
		return nil
	}

	for _, unit := range units {
		elem := a.Elements[unit.Element]
		if elem == nil || (elem.KXTrend == nil && elem.KZTrend == nil) {
			continue
		}
		xf := trendVector(elem.KXTrend, g.Nx)
		zf := trendVector(elem.KZTrend, g.Nz)
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				for k := 0; k < g.Nz; k++ {
					if w.AE.At(i, j, k) != unit.ID {
						continue
					}
					res.Kiso.Set(i, j, k, res.Kiso.At(i, j, k)*xf[i]*zf[k])
				}
			}
		}
	}
	return nil
}

func trendVector(trend *[2]float64, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	if trend == nil || n < 2 {
		return v
	}
	for i := range v {
		v[i] = trend[0] + (trend[1]-trend[0])*float64(i)/float64(n-1)
	}
	return v
}

// assembleTensors builds K = k_iso * R * diag(1, 1, 1/ratio) * R^T per
// voxel in one batch pass, reusing scratch matrices.
func (a *Assembler) assembleTensors(w *generator.World, res *Result) *voxel.TensorField {
	g := a.Grid
	out := voxel.NewTensorField(g.Nx, g.Ny, g.Nz)

	razim := mat.NewDense(3, 3, nil)
	rdip := mat.NewDense(3, 3, nil)
	rot := mat.NewDense(3, 3, nil)
	diag := mat.NewDense(3, 3, nil)
	tmp := mat.NewDense(3, 3, nil)
	tensor := mat.NewDense(3, 3, nil)

	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				azim := w.Azim.At(i, j, k) * math.Pi / 180
				dip := w.Dip.At(i, j, k) * math.Pi / 180

				ca, sa := math.Cos(azim), math.Sin(azim)
				cd, sd := math.Cos(dip), math.Sin(dip)

				razim.SetRow(0, []float64{ca, sa, 0})
				razim.SetRow(1, []float64{-sa, ca, 0})
				razim.SetRow(2, []float64{0, 0, 1})

				rdip.SetRow(0, []float64{cd, 0, sd})
				rdip.SetRow(1, []float64{0, 1, 0})
				rdip.SetRow(2, []float64{-sd, 0, cd})

				diag.SetRow(0, []float64{1, 0, 0})
				diag.SetRow(1, []float64{0, 1, 0})
				diag.SetRow(2, []float64{0, 0, 1 / res.Anirat.At(i, j, k)})

				rot.Mul(razim, rdip)
				tmp.Mul(rot, diag)
				tensor.Mul(tmp, rot.T())

				kIso := res.Kiso.At(i, j, k)
				dst := out.Tensor(i, j, k)
				raw := tensor.RawMatrix().Data
				for n := range dst {
					dst[n] = kIso * raw[n]
				}
			}
		}
	}
	return out
}
