package model

import "fmt"

// HetLevel selects the scale at which hydraulic heterogeneity is simulated.
type HetLevel string

// Supported heterogeneity levels.
const (
	HetAE       HetLevel = "ae"       // uniform per architectural element
	HetFacies   HetLevel = "facies"   // scalar per facies
	HetInternal HetLevel = "internal" // correlated sub-fields per facies body
)

// Run holds run-scoped configuration: naming, realization count, seeding,
// output selection.
type Run struct {
	Name     string
	NumSim   int
	Seed     uint64
	OutDir   string
	Outputs  []string // "vtk", "gob"
	LogLevel string
}

// Validate fills defaults and rejects bad run configuration.
func (r *Run) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("run: name is required")
	}
	if r.NumSim <= 0 {
		r.NumSim = 1
	}
	for _, o := range r.Outputs {
		if o != "vtk" && o != "gob" {
			return fmt.Errorf("run: unknown output format %q", o)
		}
	}
	return nil
}

// Domain holds the model domain configuration.
type Domain struct {
	Lx, Ly, Lz float64
	Dx, Dy, Dz float64

	Periodic      bool
	Display       bool
	Anisotropy    bool
	Heterogeneity bool
	HetLevel      HetLevel
}

// Validate rejects inconsistent domain configuration and fills spacing
// defaults (dy and dz default to dx).
func (d *Domain) Validate() error {
	if d.Dx <= 0 {
		return fmt.Errorf("domain: dx must be > 0, got %g", d.Dx)
	}
	if d.Dy == 0 {
		d.Dy = d.Dx
	}
	if d.Dz == 0 {
		d.Dz = d.Dx
	}
	if d.Lx <= 0 || d.Ly <= 0 || d.Lz <= 0 {
		return fmt.Errorf("domain: lengths must be > 0, got (%g, %g, %g)", d.Lx, d.Ly, d.Lz)
	}
	switch d.HetLevel {
	case "", HetAE, HetFacies, HetInternal:
	default:
		return fmt.Errorf("domain: unknown heterogeneity level %q", d.HetLevel)
	}
	if d.HetLevel == "" {
		d.HetLevel = HetFacies
	}
	return nil
}
