package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTrough() *Element {
	return &Element{
		Name:        "scour",
		Geometry:    TruncEllip,
		Facies:      []int32{1, 2},
		Length:      8,
		Width:       4,
		Depth:       1,
		Aggradation: 0.4,
		Density:     0.05,
		Structure:   StructureFlat,
	}
}

func validChannel() *Element {
	return &Element{
		Name:             "meander",
		Geometry:         Channel,
		Facies:           []int32{3},
		Width:            5,
		Depth:            1.5,
		ChannelNo:        2,
		MeanderH:         0.3,
		MeanderK:         0.8,
		MeanderDs:        0.5,
		ChannelMigration: [3]float64{1, 1, 0.5},
	}
}

func validSheet() *Element {
	return &Element{
		Name:          "lens",
		Geometry:      Sheet,
		Facies:        []int32{4},
		LensThickness: -1,
	}
}

func TestElementValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Element)
		element func() *Element
		wantErr bool
	}{
		{"valid trough", func(e *Element) {}, validTrough, false},
		{"valid channel", func(e *Element) {}, validChannel, false},
		{"valid sheet", func(e *Element) {}, validSheet, false},

		{"no facies", func(e *Element) { e.Facies = nil }, validTrough, true},
		{"bad geometry", func(e *Element) { e.Geometry = "blob" }, validTrough, true},
		{"alt facies row mismatch", func(e *Element) { e.AltFacies = [][]int32{{1}} }, validTrough, true},

		{"trough no depth", func(e *Element) { e.Depth = 0 }, validTrough, true},
		{"trough no aggradation", func(e *Element) { e.Aggradation = 0 }, validTrough, true},
		{"trough no density", func(e *Element) { e.Density = 0 }, validTrough, true},
		{"trough bad structure", func(e *Element) { e.Structure = "spiral" }, validTrough, true},
		{"bulb_l needs spacing", func(e *Element) { e.Structure = StructureBulbL }, validTrough, true},
		{"dip needs spacing", func(e *Element) { e.Structure = StructureDip }, validTrough, true},

		{"channel h out of range", func(e *Element) { e.MeanderH = 1.2 }, validChannel, true},
		{"channel no vertical step", func(e *Element) { e.ChannelMigration[2] = 0 }, validChannel, true},
		{"channel count", func(e *Element) { e.ChannelNo = 0 }, validChannel, true},
		{"channel dip needs spacing", func(e *Element) { e.Dip = [2]float64{5, 15} }, validChannel, true},

		{"sheet zero thickness", func(e *Element) { e.LensThickness = 0 }, validSheet, true},
		{"sheet dip needs spacing", func(e *Element) { e.Dip = [2]float64{5, 15} }, validSheet, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := tc.element()
			tc.mutate(e)
			err := e.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErosive(t *testing.T) {
	assert.True(t, validTrough().Erosive())
	assert.True(t, validChannel().Erosive())
	assert.False(t, validSheet().Erosive())
}
