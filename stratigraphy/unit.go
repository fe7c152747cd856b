// Package stratigraphy decomposes the model volume into sequences and
// architectural-element units: it simulates contact surfaces, allocates
// units by a top-down random walk through each sequence and paints the
// sequence-id and element-id fields.
package stratigraphy

import "fmt"

// Unit is one architectural-element unit. The creation record is fixed by
// the builder; the bottom elevation is amended exactly once after the
// matching object generator has run, recording the true eroded extent.
type Unit struct {
	ID       int32
	Element  string
	SeqIndex int

	BottomZ float64
	TopZ    float64

	amended bool
}

// AmendBottom records the eroded bottom elevation. A unit can only be
// amended once.
func (u *Unit) AmendBottom(z float64) error {
	if u.amended {
		return fmt.Errorf("unit %d: bottom already amended", u.ID)
	}
	u.BottomZ = z
	u.amended = true
	return nil
}

// Amended reports whether the erosion amendment has been written.
func (u *Unit) Amended() bool { return u.amended }
