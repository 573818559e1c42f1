// Package grid provides uniform 2-D sampling grids and the scalar fields
// bound to them. All correction surfaces in the pipeline are carried as
// grid.Field values; grids are compared explicitly before any elementwise
// combination.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when two fields with different shapes are
// combined elementwise.
var ErrShapeMismatch = errors.New("grid: shape mismatch")

// Desc describes a uniform 2-D sampling domain. X is the fast (column)
// axis, Y the slow (row) axis. Spacings are strictly positive; a grid has
// at least one node per axis.
type Desc struct {
	X0     float64 // coordinate of the first column
	Y0     float64 // coordinate of the first row
	DX     float64 // column spacing
	DY     float64 // row spacing
	Width  int     // number of columns
	Height int     // number of rows
}

// Validate checks the descriptor invariants: positive spacing and at
// least one node per axis.
func (d Desc) Validate() error {
	if d.DX <= 0 || d.DY <= 0 {
		return fmt.Errorf("grid: spacing must be positive, got dx=%g dy=%g", d.DX, d.DY)
	}
	if d.Width < 1 || d.Height < 1 {
		return fmt.Errorf("grid: dimensions must be >= 1, got %dx%d", d.Width, d.Height)
	}
	return nil
}

// Equal reports whether two descriptors share origin, spacing and shape.
func (d Desc) Equal(o Desc) bool {
	return d == o
}

// SameShape reports whether two descriptors have identical dimensions,
// regardless of origin or spacing.
func (d Desc) SameShape(o Desc) bool {
	return d.Width == o.Width && d.Height == o.Height
}

// XAxis returns the column node coordinates.
func (d Desc) XAxis() []float64 {
	return Axis(d.X0, d.DX, d.Width)
}

// YAxis returns the row node coordinates.
func (d Desc) YAxis() []float64 {
	return Axis(d.Y0, d.DY, d.Height)
}

// Axis returns n uniformly spaced coordinates starting at start.
func Axis(start, step float64, n int) []float64 {
	ax := make([]float64, n)
	for i := range ax {
		ax[i] = start + float64(i)*step
	}
	return ax
}

// Field is a scalar quantity sampled at the nodes of a Desc. Data is
// stored row-major, Height x Width.
type Field struct {
	Desc Desc
	Data *mat.Dense
}

// NewField allocates a zeroed field on the given descriptor.
func NewField(d Desc) (*Field, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Field{Desc: d, Data: mat.NewDense(d.Height, d.Width, nil)}, nil
}

// FieldFromData wraps a row-major slice as a field on the given
// descriptor. The slice length must equal Width*Height.
func FieldFromData(d Desc, data []float64) (*Field, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(data) != d.Width*d.Height {
		return nil, fmt.Errorf("grid: data length %d does not match %dx%d grid: %w",
			len(data), d.Height, d.Width, ErrShapeMismatch)
	}
	return &Field{Desc: d, Data: mat.NewDense(d.Height, d.Width, data)}, nil
}

// Constant returns a field with every node set to v.
func Constant(d Desc, v float64) (*Field, error) {
	f, err := NewField(d)
	if err != nil {
		return nil, err
	}
	f.Fill(v)
	return f, nil
}

// At returns the value at row r, column c.
func (f *Field) At(r, c int) float64 { return f.Data.At(r, c) }

// Set assigns the value at row r, column c.
func (f *Field) Set(r, c int, v float64) { f.Data.Set(r, c, v) }

// Shape returns (height, width).
func (f *Field) Shape() (int, int) { return f.Desc.Height, f.Desc.Width }

// Raw returns the underlying row-major backing slice.
func (f *Field) Raw() []float64 { return f.Data.RawMatrix().Data }

// Fill sets every node to v.
func (f *Field) Fill(v float64) {
	raw := f.Raw()
	for i := range raw {
		raw[i] = v
	}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	out := mat.NewDense(f.Desc.Height, f.Desc.Width, nil)
	out.Copy(f.Data)
	return &Field{Desc: f.Desc, Data: out}
}

// Scale multiplies every node by s in place.
func (f *Field) Scale(s float64) {
	floats.Scale(s, f.Raw())
}

// Add returns the elementwise sum a+b on a's descriptor. The descriptors
// must be equal; combining fields on different grids is a caller bug and
// fails fast.
func Add(a, b *Field) (*Field, error) {
	if !a.Desc.Equal(b.Desc) {
		return nil, fmt.Errorf("grid: cannot add fields on %+v and %+v: %w",
			a.Desc, b.Desc, ErrShapeMismatch)
	}
	out := a.Clone()
	floats.Add(out.Raw(), b.Raw())
	return out, nil
}

// AddScaled computes dst += s*src in place. Only the shapes must match;
// dst keeps its own descriptor.
func AddScaled(dst *Field, s float64, src *Field) error {
	if !dst.Desc.SameShape(src.Desc) {
		return fmt.Errorf("grid: cannot accumulate %dx%d into %dx%d: %w",
			src.Desc.Height, src.Desc.Width, dst.Desc.Height, dst.Desc.Width, ErrShapeMismatch)
	}
	floats.AddScaled(dst.Raw(), s, src.Raw())
	return nil
}

// FlipRows returns a copy of f with the row order reversed. Applying it
// twice returns the original field.
func FlipRows(f *Field) *Field {
	h, w := f.Shape()
	out := mat.NewDense(h, w, nil)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			out.Set(h-1-r, c, f.At(r, c))
		}
	}
	return &Field{Desc: f.Desc, Data: out}
}
