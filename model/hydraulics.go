package model

import "fmt"

// TrendScope selects whether conductivity trends apply to the whole domain
// or per architectural-element type.
type TrendScope string

// Supported trend scopes.
const (
	TrendGlobal  TrendScope = "global"
	TrendElement TrendScope = "element"
)

// Hydraulics holds the per-facies hydraulic property parameters. All slices
// run parallel to the Facies catalog.
type Hydraulics struct {
	Facies []int32

	KMean      []float64    // mean horizontal conductivity
	KSigma     []float64    // log-conductivity variance
	KCorl      [][3]float64 // conductivity correlation lengths
	Porosity   []float64
	PorosSigma []float64
	PorosCorl  [][3]float64
	KRatio     []float64 // horizontal/vertical anisotropy ratio

	KZTrend *[2]float64
	KXTrend *[2]float64
	Scope   TrendScope
}

// Validate checks that every per-facies list covers the facies catalog.
func (h *Hydraulics) Validate() error {
	n := len(h.Facies)
	if n == 0 {
		return fmt.Errorf("hydraulics: facies catalog is empty")
	}
	for name, l := range map[string]int{
		"k mean":               len(h.KMean),
		"k sigma":              len(h.KSigma),
		"k correlation":        len(h.KCorl),
		"porosity":             len(h.Porosity),
		"porosity sigma":       len(h.PorosSigma),
		"porosity correlation": len(h.PorosCorl),
		"anisotropy ratio":     len(h.KRatio),
	} {
		if l != n {
			return fmt.Errorf("hydraulics: %s list has %d entries for %d facies", name, l, n)
		}
	}
	for i, k := range h.KMean {
		if k <= 0 {
			return fmt.Errorf("hydraulics: mean conductivity of facies %d must be > 0, got %g", h.Facies[i], k)
		}
	}
	for i, r := range h.KRatio {
		if r <= 0 {
			return fmt.Errorf("hydraulics: anisotropy ratio of facies %d must be > 0, got %g", h.Facies[i], r)
		}
	}
	switch h.Scope {
	case "", TrendGlobal, TrendElement:
	default:
		return fmt.Errorf("hydraulics: unknown trend scope %q", h.Scope)
	}
	return nil
}

// MaxFacies returns the largest facies id in the catalog.
func (h *Hydraulics) MaxFacies() int32 {
	var m int32
	for _, f := range h.Facies {
		if f > m {
			m = f
		}
	}
	return m
}
