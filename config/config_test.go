package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedsim/sedsim/model"
)

const exampleParams = `
[run]
name = demo
numsim = 2
seed = 42
outdir = out
outputs = [vtk, gob]
loglevel = debug

[model]
lx = 8
ly = 8
lz = 4
dx = 0.5
dz = 0.25
anisotropy = true
heterogeneity = false

[strata]
sequences = [lower, upper]
tops = [2, 4]
elements = [[lens], [scour]]
probabilities = [[1], [1]]
mean_thickness = [[1], [0.5]]
avulsion_prob = [0, 0.1]
avulsion_range = [[0, 0], [0, 0.2]]
background = [[0, 0, 0], [1, 10, 2]]

[hydraulics]
facies = [0, 1, 2]
k_mean = [1e-4, 1e-2, 1e-3]
k_sigma = [0.2, 0.2, 0.2]
k_corl = [[2, 2, 0.5], [2, 2, 0.5], [2, 2, 0.5]]
porosity = [0.3, 0.35, 0.32]
porosity_sigma = [0.001, 0.001, 0.001]
porosity_corl = [[2, 2, 0.5], [2, 2, 0.5], [2, 2, 0.5]]
k_ratio = [10, 1, 5]
k_ztrend = [0.8, 1.2]

[lens]
geometry = sheet
facies = [1]
lens_thickness = -1

[scour]
geometry = trunc_ellip
facies = [1, 2]
altfacies = [[2], [1]]
length = 4
width = 2
depth = 0.5
aggradation = 0.2
density = 0.05
structure = dip
dipset_spacing = 0.1
paleoflow = [-10, 10]
azimuth = [0, 360]
dip = [5, 15]
`

func writeParams(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeParams(t, exampleParams))
	require.NoError(t, err)

	assert.Equal(t, "demo", c.Run.Name)
	assert.Equal(t, 2, c.Run.NumSim)
	assert.Equal(t, uint64(42), c.Run.Seed)
	assert.Equal(t, []string{"vtk", "gob"}, c.Run.Outputs)

	assert.Equal(t, 8.0, c.Domain.Lx)
	assert.Equal(t, 0.25, c.Domain.Dz)
	// dy defaults to dx
	assert.Equal(t, 0.5, c.Domain.Dy)
	assert.False(t, c.Domain.Heterogeneity)
	// heterogeneity level defaults after validation
	assert.Equal(t, model.HetFacies, c.Domain.HetLevel)

	require.Len(t, c.Sequences, 2)
	assert.Equal(t, "lower", c.Sequences[0].Name)
	assert.Equal(t, 2.0, c.Sequences[0].Top)
	assert.Equal(t, []string{"scour"}, c.Sequences[1].Elements)
	assert.Equal(t, 0.1, c.Sequences[1].AvulsionProb)
	assert.Equal(t, int32(1), c.Sequences[1].BgFacies)

	require.Contains(t, c.Elements, "scour")
	scour := c.Elements["scour"]
	assert.Equal(t, model.TruncEllip, scour.Geometry)
	assert.Equal(t, []int32{1, 2}, scour.Facies)
	assert.Equal(t, [][]int32{{2}, {1}}, scour.AltFacies)
	assert.Equal(t, [2]float64{5, 15}, scour.Dip)
	assert.Equal(t, model.StructureDip, scour.Structure)

	require.Len(t, c.Hydraulics.Facies, 3)
	assert.Equal(t, 1e-2, c.Hydraulics.KMean[1])
	require.NotNil(t, c.Hydraulics.KZTrend)
	assert.Equal(t, [2]float64{0.8, 1.2}, *c.Hydraulics.KZTrend)
}

func TestLoadRejectsBadProbabilities(t *testing.T) {
	bad := strings.Replace(exampleParams, "probabilities = [[1], [1]]", "probabilities = [[0.5], [1]]", 1)
	_, err := Load(writeParams(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}

func TestLoadRejectsUndefinedElement(t *testing.T) {
	bad := strings.Replace(exampleParams, "[[lens], [scour]]", "[[lens], [missing]]", 1)
	_, err := Load(writeParams(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestLoadRejectsSectionWithoutGeometry(t *testing.T) {
	bad := strings.Replace(exampleParams, "geometry = sheet\n", "", 1)
	_, err := Load(writeParams(t, bad))
	assert.Error(t, err)
}

func TestLoadRejectsUncoveredFacies(t *testing.T) {
	bad := strings.Replace(exampleParams, "facies = [0, 1, 2]", "facies = [0, 1]", 1)
	bad = strings.Replace(bad, "k_mean = [1e-4, 1e-2, 1e-3]", "k_mean = [1e-4, 1e-2]", 1)
	bad = strings.Replace(bad, "k_sigma = [0.2, 0.2, 0.2]", "k_sigma = [0.2, 0.2]", 1)
	bad = strings.Replace(bad, "k_corl = [[2, 2, 0.5], [2, 2, 0.5], [2, 2, 0.5]]", "k_corl = [[2, 2, 0.5], [2, 2, 0.5]]", 1)
	bad = strings.Replace(bad, "porosity = [0.3, 0.35, 0.32]", "porosity = [0.3, 0.35]", 1)
	bad = strings.Replace(bad, "porosity_sigma = [0.001, 0.001, 0.001]", "porosity_sigma = [0.001, 0.001]", 1)
	bad = strings.Replace(bad, "porosity_corl = [[2, 2, 0.5], [2, 2, 0.5], [2, 2, 0.5]]", "porosity_corl = [[2, 2, 0.5], [2, 2, 0.5]]", 1)
	bad = strings.Replace(bad, "k_ratio = [10, 1, 5]", "k_ratio = [10, 1]", 1)

	_, err := Load(writeParams(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facies 2")
}

func TestSplitNested(t *testing.T) {
	groups, err := splitNested("[[1, 2], [3], []]")
	require.NoError(t, err)
	assert.Equal(t, []string{"1, 2", "3", ""}, groups)

	_, err = splitNested("1, 2")
	assert.Error(t, err)

	_, err = splitNested("[[1, 2], [3]")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("[a, b]"))
	assert.Equal(t, []string{"1", "2"}, splitList("1, 2"))
	assert.Nil(t, splitList("[]"))
	assert.Nil(t, splitList(""))
}
