// Package config reads and checks the model parameter file.
package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/sedsim/sedsim/model"
)

// sections with fixed meaning; everything else is an element definition
const (
	sectionRun        = "run"
	sectionModel      = "model"
	sectionStrata     = "strata"
	sectionHydraulics = "hydraulics"
)

// Config is the fully parsed and validated model configuration.
type Config struct {
	Run        model.Run
	Domain     model.Domain
	Sequences  []model.Sequence
	Elements   map[string]*model.Element
	Hydraulics model.Hydraulics
}

// Load reads an INI parameter file and validates every section.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return parse(v)
}

func parse(v *viper.Viper) (*Config, error) {
	c := &Config{Elements: map[string]*model.Element{}}

	run := newSection(v, sectionRun)
	c.Run = model.Run{
		Name:     run.str("name", ""),
		NumSim:   run.intval("numsim", 1),
		Seed:     uint64(run.intval("seed", 0)),
		OutDir:   run.str("outdir", "."),
		Outputs:  run.strs("outputs"),
		LogLevel: run.str("loglevel", "info"),
	}
	if run.err != nil {
		return nil, run.err
	}

	dom := newSection(v, sectionModel)
	c.Domain = model.Domain{
		Lx:            dom.float("lx", 0),
		Ly:            dom.float("ly", 0),
		Lz:            dom.float("lz", 0),
		Dx:            dom.float("dx", 0),
		Dy:            dom.float("dy", 0),
		Dz:            dom.float("dz", 0),
		Periodic:      dom.boolean("periodic", false),
		Display:       dom.boolean("display", false),
		Anisotropy:    dom.boolean("anisotropy", true),
		Heterogeneity: dom.boolean("heterogeneity", true),
		HetLevel:      model.HetLevel(dom.str("hetlevel", "")),
	}
	if dom.err != nil {
		return nil, dom.err
	}

	if err := c.parseStrata(v); err != nil {
		return nil, err
	}
	if err := c.parseHydraulics(v); err != nil {
		return nil, err
	}
	if err := c.parseElements(v); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// parseStrata reads the [strata] section: parallel lists over sequences,
// with per-sequence element catalogs as nested lists.
func (c *Config) parseStrata(v *viper.Viper) error {
	s := newSection(v, sectionStrata)
	names := s.strs("sequences")
	tops := s.floats("tops")
	if len(names) == 0 {
		return fmt.Errorf("config: [strata] must name at least one sequence")
	}
	if len(tops) != len(names) {
		return fmt.Errorf("config: [strata] has %d sequences but %d tops", len(names), len(tops))
	}

	contacts := s.nestedFloats("contact_models") // empty entry means flat
	elements := s.nestedStrs("elements")
	probs := s.nestedFloats("probabilities")
	thick := s.nestedFloats("mean_thickness")
	avulProb := s.floats("avulsion_prob")
	avulRange := s.nestedFloats("avulsion_range")
	bg := s.nestedFloats("background") // facies, azimuth, dip per sequence
	if s.err != nil {
		return s.err
	}

	for i, name := range names {
		seq := model.Sequence{Name: name, Top: tops[i]}
		if i < len(contacts) && len(contacts[i]) == 3 {
			cm := [3]float64{contacts[i][0], contacts[i][1], contacts[i][2]}
			seq.ContactModel = &cm
		}
		if i < len(elements) {
			seq.Elements = elements[i]
		}
		if i < len(probs) {
			seq.Probabilities = probs[i]
		}
		if i < len(thick) {
			seq.MeanThickness = thick[i]
		}
		if i < len(avulProb) {
			seq.AvulsionProb = avulProb[i]
		}
		if i < len(avulRange) && len(avulRange[i]) == 2 {
			seq.AvulsionRange = [2]float64{avulRange[i][0], avulRange[i][1]}
		}
		if i < len(bg) && len(bg[i]) == 3 {
			seq.BgFacies = int32(bg[i][0])
			seq.BgAzimuth = bg[i][1]
			seq.BgDip = bg[i][2]
		}
		c.Sequences = append(c.Sequences, seq)
	}
	return nil
}

func (c *Config) parseHydraulics(v *viper.Viper) error {
	s := newSection(v, sectionHydraulics)
	h := model.Hydraulics{
		Facies:     s.ints("facies"),
		KMean:      s.floats("k_mean"),
		KSigma:     s.floats("k_sigma"),
		Porosity:   s.floats("porosity"),
		PorosSigma: s.floats("porosity_sigma"),
		KRatio:     s.floats("k_ratio"),
		Scope:      model.TrendScope(s.str("trend_scope", "")),
	}
	for _, corl := range s.nestedFloats("k_corl") {
		if len(corl) != 3 {
			return fmt.Errorf("config: [hydraulics] k_corl entries need 3 lengths, got %d", len(corl))
		}
		h.KCorl = append(h.KCorl, [3]float64{corl[0], corl[1], corl[2]})
	}
	for _, corl := range s.nestedFloats("porosity_corl") {
		if len(corl) != 3 {
			return fmt.Errorf("config: [hydraulics] porosity_corl entries need 3 lengths, got %d", len(corl))
		}
		h.PorosCorl = append(h.PorosCorl, [3]float64{corl[0], corl[1], corl[2]})
	}
	h.KZTrend = s.pair("k_ztrend")
	h.KXTrend = s.pair("k_xtrend")
	if s.err != nil {
		return s.err
	}
	c.Hydraulics = h
	return nil
}

// parseElements treats every remaining section carrying a geometry key as
// one architectural-element definition.
func (c *Config) parseElements(v *viper.Viper) error {
	var names []string
	for name := range v.AllSettings() {
		switch name {
		case sectionRun, sectionModel, sectionStrata, sectionHydraulics, "default":
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := newSection(v, name)
		if !s.has("geometry") {
			return fmt.Errorf("config: section [%s] is not a known section and has no geometry key", name)
		}
		e, err := parseElement(name, s)
		if err != nil {
			return err
		}
		c.Elements[name] = e
	}
	return nil
}

func parseElement(name string, s *section) (*model.Element, error) {
	e := &model.Element{
		Name:     name,
		Geometry: model.GeometryKind(s.str("geometry", "")),

		Facies: s.ints("facies"),

		Dip:           s.pairValue("dip"),
		Azimuth:       s.pairValue("azimuth"),
		Paleoflow:     s.pairValue("paleoflow"),
		DipSetSpacing: s.float("dipset_spacing", 0),

		Contact: model.ContactKind(s.str("contact", "flat")),

		Length:         s.float("length", 0),
		Width:          s.float("width", 0),
		Depth:          s.float("depth", 0),
		Aggradation:    s.float("aggradation", 0),
		Buffer:         s.float("buffer", 0),
		Density:        s.float("density", 0),
		Structure:      model.TroughStructure(s.str("structure", "")),
		BulbSetSpacing: s.float("bulbset_spacing", 0),

		ChannelNo:  s.intval("channel_no", 0),
		MeanderH:   s.float("h", 0),
		MeanderK:   s.float("k", 0),
		MeanderDs:  s.float("ds", 0),
		MeanderEps: s.float("eps_factor", 0),

		LensThickness: s.float("lens_thickness", -1),

		GeoZTrend: s.pair("geo_ztrend"),
		KZTrend:   s.pair("k_ztrend"),
		KXTrend:   s.pair("k_xtrend"),
	}

	for _, alt := range s.nestedInts("altfacies") {
		e.AltFacies = append(e.AltFacies, alt)
	}
	if cm := s.floats("contact_model"); len(cm) == 3 {
		e.ContactModel = [3]float64{cm[0], cm[1], cm[2]}
	}
	if bg := s.floats("background"); len(bg) == 3 {
		e.Background = &model.Background{Facies: int32(bg[0]), Azimuth: bg[1], Dip: bg[2]}
	}
	if mig := s.floats("migrate"); len(mig) == 4 {
		m := [4]float64{mig[0], mig[1], mig[2], mig[3]}
		e.Migration = &m
	}
	if mig := s.floats("ch_migrate"); len(mig) == 3 {
		e.ChannelMigration = [3]float64{mig[0], mig[1], mig[2]}
	}
	if lag := s.floats("lag"); len(lag) == 2 {
		e.LagDeposit = &model.Lag{Depth: lag[0], Facies: int32(lag[1])}
	}
	if s.err != nil {
		return nil, s.err
	}
	return e, nil
}

// Validate runs every record's own validation and the cross-record checks.
func (c *Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}
	if err := c.Domain.Validate(); err != nil {
		return err
	}
	for i := range c.Sequences {
		if err := c.Sequences[i].Validate(); err != nil {
			return err
		}
		if i > 0 && c.Sequences[i].Top <= c.Sequences[i-1].Top {
			return fmt.Errorf("sequence %q: top %g does not lie above sequence %q",
				c.Sequences[i].Name, c.Sequences[i].Top, c.Sequences[i-1].Name)
		}
		for _, en := range c.Sequences[i].Elements {
			if _, ok := c.Elements[en]; !ok {
				return fmt.Errorf("sequence %q names undefined element %q", c.Sequences[i].Name, en)
			}
		}
	}
	for _, e := range c.Elements {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	if err := c.Hydraulics.Validate(); err != nil {
		return err
	}
	return c.checkFaciesCoverage()
}

// checkFaciesCoverage verifies that every facies any element or background
// can paint has hydraulic parameters.
func (c *Config) checkFaciesCoverage() error {
	known := map[int32]bool{}
	for _, f := range c.Hydraulics.Facies {
		known[f] = true
	}
	check := func(f int32, where string) error {
		if !known[f] {
			return fmt.Errorf("facies %d used by %s has no hydraulic parameters", f, where)
		}
		return nil
	}

	for i := range c.Sequences {
		if err := check(c.Sequences[i].BgFacies, "sequence "+c.Sequences[i].Name); err != nil {
			return err
		}
	}
	for _, e := range c.Elements {
		for _, f := range e.Facies {
			if err := check(f, "element "+e.Name); err != nil {
				return err
			}
		}
		for _, alt := range e.AltFacies {
			for _, f := range alt {
				if err := check(f, "element "+e.Name); err != nil {
					return err
				}
			}
		}
		if e.Background != nil {
			if err := check(e.Background.Facies, "element "+e.Name); err != nil {
				return err
			}
		}
		if e.LagDeposit != nil {
			if err := check(e.LagDeposit.Facies, "element "+e.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
