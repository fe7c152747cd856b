// Package voxel provides dense 3D fields over the grid index space. Fields
// are flat-backed so a whole model property fits in one allocation.
package voxel

import "sort"

// Field is a dense 3D scalar field with (i, j, k) accessors.
type Field struct {
	Nx, Ny, Nz int
	Data       []float64
}

// NewField creates a zero-filled scalar field.
func NewField(nx, ny, nz int) *Field {
	return &Field{Nx: nx, Ny: ny, Nz: nz, Data: make([]float64, nx*ny*nz)}
}

func (f *Field) idx(i, j, k int) int { return (i*f.Ny+j)*f.Nz + k }

// At returns the value at (i, j, k).
func (f *Field) At(i, j, k int) float64 { return f.Data[f.idx(i, j, k)] }

// Set writes the value at (i, j, k).
func (f *Field) Set(i, j, k int, v float64) { f.Data[f.idx(i, j, k)] = v }

// Fill assigns v to every cell.
func (f *Field) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// IntField is a dense 3D categorical field (ids: sequence, element,
// material, facies).
type IntField struct {
	Nx, Ny, Nz int
	Data       []int32
}

// NewIntField creates a zero-filled categorical field.
func NewIntField(nx, ny, nz int) *IntField {
	return &IntField{Nx: nx, Ny: ny, Nz: nz, Data: make([]int32, nx*ny*nz)}
}

func (f *IntField) idx(i, j, k int) int { return (i*f.Ny+j)*f.Nz + k }

// At returns the id at (i, j, k).
func (f *IntField) At(i, j, k int) int32 { return f.Data[f.idx(i, j, k)] }

// Set writes the id at (i, j, k).
func (f *IntField) Set(i, j, k int, v int32) { f.Data[f.idx(i, j, k)] = v }

// Fill assigns v to every cell.
func (f *IntField) Fill(v int32) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Unique returns the sorted distinct ids present in the field.
func (f *IntField) Unique() []int32 {
	seen := map[int32]struct{}{}
	for _, v := range f.Data {
		seen[v] = struct{}{}
	}
	out := make([]int32, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Plane is a dense 2D field, used for contact surfaces.
type Plane struct {
	Nx, Ny int
	Data   []float64
}

// NewPlane creates a zero-filled 2D field.
func NewPlane(nx, ny int) *Plane {
	return &Plane{Nx: nx, Ny: ny, Data: make([]float64, nx*ny)}
}

// At returns the value at (i, j).
func (p *Plane) At(i, j int) float64 { return p.Data[i*p.Ny+j] }

// Set writes the value at (i, j).
func (p *Plane) Set(i, j int, v float64) { p.Data[i*p.Ny+j] = v }

// Fill assigns v to every cell.
func (p *Plane) Fill(v float64) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

// Max returns the largest value in the plane.
func (p *Plane) Max() float64 {
	m := p.Data[0]
	for _, v := range p.Data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest value in the plane.
func (p *Plane) Min() float64 {
	m := p.Data[0]
	for _, v := range p.Data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Mean returns the arithmetic mean of the plane values.
func (p *Plane) Mean() float64 {
	sum := 0.0
	for _, v := range p.Data {
		sum += v
	}
	return sum / float64(len(p.Data))
}

// TensorField stores one row-major 3x3 tensor per cell.
type TensorField struct {
	Nx, Ny, Nz int
	Data       []float64
}

// NewTensorField creates a zero-filled tensor field.
func NewTensorField(nx, ny, nz int) *TensorField {
	return &TensorField{Nx: nx, Ny: ny, Nz: nz, Data: make([]float64, nx*ny*nz*9)}
}

// Tensor returns the mutable 9-element slice backing the tensor at (i, j, k).
func (t *TensorField) Tensor(i, j, k int) []float64 {
	off := ((i*t.Ny+j)*t.Nz + k) * 9
	return t.Data[off : off+9 : off+9]
}
