// Package format writes finished realizations to disk: legacy VTK for
// visualisation and gob checkpoints for reloading.
package format

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sedsim/sedsim/grid"
	"github.com/sedsim/sedsim/voxel"
)

// IntArray is a named integer cell array for VTK output.
type IntArray struct {
	Name  string
	Field *voxel.IntField
}

// FloatArray is a named float cell array for VTK output.
type FloatArray struct {
	Name  string
	Field *voxel.Field
}

// floatToFixedWidth renders a float into a fixed-width, right-aligned cell
// with trailing zeros trimmed.
func floatToFixedWidth(n float64, w int) string {
	wStr := strconv.Itoa(w)
	s := fmt.Sprintf("%"+wStr+"."+wStr+"f", n)
	trimmed := strings.TrimRight(s[:w], "0")
	trimmed = strings.TrimRight(trimmed, ".")
	return strings.Repeat(" ", w-len(trimmed)) + trimmed
}

// WriteVTK writes the given cell arrays as a legacy ASCII STRUCTURED_POINTS
// file. Cell data is emitted in VTK order, x varying fastest.
func WriteVTK(path, title string, g *grid.Grid, ints []IntArray, floats []FloatArray) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vtk: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "ASCII")
	fmt.Fprintln(w, "DATASET STRUCTURED_POINTS")
	fmt.Fprintf(w, "DIMENSIONS %d %d %d\n", g.Nx+1, g.Ny+1, g.Nz+1)
	fmt.Fprintf(w, "ORIGIN %g %g %g\n", g.Ox, g.Oy, g.Oz)
	fmt.Fprintf(w, "SPACING %g %g %g\n", g.Dx, g.Dy, g.Dz)
	fmt.Fprintf(w, "CELL_DATA %d\n", g.Cells())

	for _, arr := range ints {
		fmt.Fprintf(w, "SCALARS %s int 1\n", arr.Name)
		fmt.Fprintln(w, "LOOKUP_TABLE default")
		writeIntCells(w, arr.Field)
	}
	for _, arr := range floats {
		fmt.Fprintf(w, "SCALARS %s float 1\n", arr.Name)
		fmt.Fprintln(w, "LOOKUP_TABLE default")
		writeFloatCells(w, arr.Field)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("vtk: %w", err)
	}
	return nil
}

func writeIntCells(w *bufio.Writer, f *voxel.IntField) {
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				fmt.Fprintf(w, "%d\n", f.At(i, j, k))
			}
		}
	}
}

func writeFloatCells(w *bufio.Writer, f *voxel.Field) {
	for k := 0; k < f.Nz; k++ {
		for j := 0; j < f.Ny; j++ {
			for i := 0; i < f.Nx; i++ {
				fmt.Fprintln(w, floatToFixedWidth(f.At(i, j, k), 14))
			}
		}
	}
}
