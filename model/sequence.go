package model

import (
	"fmt"
	"math"
)

// probability lists must be exact; tolerance only absorbs float parsing
const probTolerance = 1e-9

// Sequence is one bottom-to-top stratigraphic package: its top elevation,
// an optional stochastic top contact, and the catalog of architectural
// element types generated inside it.
type Sequence struct {
	Name string
	Top  float64

	// nil means a flat top contact
	ContactModel *[3]float64

	Elements      []string
	Probabilities []float64
	MeanThickness []float64

	AvulsionProb  float64
	AvulsionRange [2]float64

	BgFacies  int32
	BgAzimuth float64
	BgDip     float64
}

// Validate checks catalog consistency: matching list lengths and
// probabilities summing to one.
func (s *Sequence) Validate() error {
	if len(s.Elements) != len(s.Probabilities) {
		return fmt.Errorf("sequence %q: %d elements but %d probabilities",
			s.Name, len(s.Elements), len(s.Probabilities))
	}
	if len(s.Elements) != len(s.MeanThickness) {
		return fmt.Errorf("sequence %q: %d elements but %d mean thicknesses",
			s.Name, len(s.Elements), len(s.MeanThickness))
	}
	if len(s.Probabilities) > 0 {
		sum := 0.0
		for _, p := range s.Probabilities {
			if p < 0 {
				return fmt.Errorf("sequence %q: negative probability %g", s.Name, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > probTolerance {
			return fmt.Errorf("sequence %q: element probabilities must sum to 1, got %g", s.Name, sum)
		}
	}
	for _, t := range s.MeanThickness {
		if t <= 0 {
			return fmt.Errorf("sequence %q: mean unit thickness must be > 0, got %g", s.Name, t)
		}
	}
	if s.AvulsionProb < 0 || s.AvulsionProb > 1 {
		return fmt.Errorf("sequence %q: avulsion probability must be in [0, 1], got %g", s.Name, s.AvulsionProb)
	}
	return nil
}
