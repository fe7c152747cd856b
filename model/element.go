// Package model holds the parameter records describing a simulation run:
// architectural elements, stratigraphic sequences, hydraulic properties and
// run configuration. Validation of required parameters lives here; a
// validation failure is fatal for the run.
package model

import "fmt"

// GeometryKind identifies the depositional geometry of an element.
type GeometryKind string

// Supported element geometries.
const (
	TruncEllip GeometryKind = "trunc_ellip"
	Channel    GeometryKind = "channel"
	Sheet      GeometryKind = "sheet"
)

// TroughStructure selects the internal structure of trough ellipsoids.
type TroughStructure string

// Supported trough structures.
const (
	StructureFlat   TroughStructure = "flat"
	StructureBulb   TroughStructure = "bulb"
	StructureBulbL  TroughStructure = "bulb_l"
	StructureDip    TroughStructure = "dip"
	StructureRandom TroughStructure = "random"
)

// ContactKind selects how a unit's top contact surface is generated.
type ContactKind string

// Supported contact kinds.
const (
	ContactFlat   ContactKind = "flat"
	ContactRandom ContactKind = "random"
)

// Lag describes a basal lag deposit overriding facies near a channel floor.
type Lag struct {
	Depth  float64
	Facies int32
}

// Background holds the facies and bedding orientation painted into a unit
// before any objects.
type Background struct {
	Facies  int32
	Azimuth float64
	Dip     float64
}

// Element is the parameter set of one architectural-element type.
type Element struct {
	Name     string
	Geometry GeometryKind

	Facies    []int32
	AltFacies [][]int32

	// overrides the sequence background when set
	Background *Background

	Dip           [2]float64
	Azimuth       [2]float64
	Paleoflow     [2]float64
	DipSetSpacing float64

	Contact      ContactKind
	ContactModel [3]float64 // variance, correlation length x, y

	// trough geometry
	Length, Width, Depth float64
	Aggradation          float64
	Buffer               float64
	Density              float64 // ellipsoids per unit area per level
	Structure            TroughStructure
	BulbSetSpacing       float64
	Migration            *[4]float64 // dx min/max, dy min/max per level

	// channel geometry
	ChannelNo        int
	MeanderH         float64    // damping, 0 < h < 1
	MeanderK         float64    // wavenumber
	MeanderDs        float64    // step length
	MeanderEps       float64    // disturbance factor
	ChannelMigration [3]float64 // x, y shift and vertical step
	LagDeposit       *Lag

	// sheet geometry: -1 means one massive body
	LensThickness float64

	// optional trends
	GeoZTrend *[2]float64
	KZTrend   *[2]float64
	KXTrend   *[2]float64
}

// Erosive reports whether the geometry truncates earlier deposits.
func (e *Element) Erosive() bool {
	return e.Geometry == TruncEllip || e.Geometry == Channel
}

// Validate checks that every parameter required by the chosen geometry is
// present.
func (e *Element) Validate() error {
	if len(e.Facies) == 0 {
		return fmt.Errorf("element %q: facies list is required", e.Name)
	}
	if len(e.AltFacies) > 0 && len(e.AltFacies) != len(e.Facies) {
		return fmt.Errorf("element %q: alternating facies table must have one row per facies, got %d rows for %d facies",
			e.Name, len(e.AltFacies), len(e.Facies))
	}
	switch e.Geometry {
	case TruncEllip:
		return e.validateTrough()
	case Channel:
		return e.validateChannel()
	case Sheet:
		return e.validateSheet()
	default:
		return fmt.Errorf("element %q: unknown geometry %q", e.Name, e.Geometry)
	}
}

func (e *Element) validateTrough() error {
	if e.Length <= 0 || e.Width <= 0 || e.Depth <= 0 {
		return fmt.Errorf("element %q: trough length/width/depth must be > 0", e.Name)
	}
	if e.Aggradation <= 0 {
		return fmt.Errorf("element %q: trough aggradation interval must be > 0", e.Name)
	}
	if e.Density <= 0 {
		return fmt.Errorf("element %q: trough density must be > 0", e.Name)
	}
	switch e.Structure {
	case StructureFlat, StructureBulb, StructureBulbL, StructureDip, StructureRandom:
	default:
		return fmt.Errorf("element %q: unknown trough structure %q", e.Name, e.Structure)
	}
	if e.Structure == StructureBulbL && e.BulbSetSpacing <= 0 {
		return fmt.Errorf("element %q: bulb set spacing is required for nested bulb structure", e.Name)
	}
	if e.Structure == StructureDip && e.DipSetSpacing <= 0 {
		return fmt.Errorf("element %q: dip set spacing is required for dip structure", e.Name)
	}
	return nil
}

func (e *Element) validateChannel() error {
	if e.Width <= 0 || e.Depth <= 0 {
		return fmt.Errorf("element %q: channel width/depth must be > 0", e.Name)
	}
	if e.ChannelNo <= 0 {
		return fmt.Errorf("element %q: channel count must be > 0", e.Name)
	}
	if e.MeanderH <= 0 || e.MeanderH >= 1 {
		return fmt.Errorf("element %q: meander damping h must be in (0, 1), got %g", e.Name, e.MeanderH)
	}
	if e.MeanderK <= 0 {
		return fmt.Errorf("element %q: meander wavenumber k must be > 0", e.Name)
	}
	if e.MeanderDs <= 0 {
		return fmt.Errorf("element %q: meander step length must be > 0", e.Name)
	}
	if e.ChannelMigration[2] <= 0 {
		return fmt.Errorf("element %q: channel vertical step must be > 0", e.Name)
	}
	if e.Dip[0]+e.Dip[1] > 0 && e.DipSetSpacing <= 0 {
		return fmt.Errorf("element %q: dip set spacing is required for a nonzero dip range", e.Name)
	}
	return nil
}

func (e *Element) validateSheet() error {
	if e.LensThickness == 0 {
		return fmt.Errorf("element %q: sheet lens thickness must be -1 (massive) or > 0", e.Name)
	}
	if e.Dip[1]-e.Dip[0] != 0 && e.DipSetSpacing <= 0 {
		return fmt.Errorf("element %q: dip set spacing is required for a nonzero dip range", e.Name)
	}
	return nil
}
